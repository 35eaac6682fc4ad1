package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factview/internal/model"
)

func TestClassify_DispatchOrder(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    model.ResultKind
	}{
		{"analyses format", `{"analyses": []}`, model.KindAnalyses},
		{"analyses wins over claims", `{"analyses": [], "claims": [], "labels": [], "justifications": []}`, model.KindAnalyses},
		{"non-array analyses falls through to claims", `{"analyses": {}, "claims": ["c"], "labels": ["true"], "justifications": ["j"]}`, model.KindClaims},
		{"claims format", `{"claims": [], "labels": [], "justifications": []}`, model.KindClaims},
		{"claims without justifications", `{"claims": ["c"], "labels": ["true"]}`, model.KindUnrecognized},
		{"claims with string labels", `{"claims": ["c"], "labels": "true", "justifications": []}`, model.KindUnrecognized},
		{"legacy array", `[{"claim": "X"}]`, model.KindArray},
		{"empty array", `[]`, model.KindArray},
		{"empty object", `{}`, model.KindUnrecognized},
		{"null", `null`, model.KindUnrecognized},
		{"string", `"analyses"`, model.KindUnrecognized},
		{"number", `42`, model.KindUnrecognized},
		{"invalid JSON", `{"analyses": [`, model.KindUnrecognized},
		{"empty body", ``, model.KindUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify([]byte(tt.payload))
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.payload, string(got.Raw))
		})
	}
}

func TestClassify_Analyses(t *testing.T) {
	payload := `{
		"analyses": [
			{"claim": "Water boils at 100C", "label": "true", "justification": "At sea level.",
			 "evidence": [{"name": "wikipedia", "result": "Boiling point"}, {"result": {"temp": 100}}]},
			{"claim": "The moon is cheese", "label": "false"},
			{"claim": "Unclear", "label": true, "justification": ""}
		],
		"final_label": "false",
		"final_justification": "One claim is false."
	}`

	got := Classify([]byte(payload))
	require.Equal(t, model.KindAnalyses, got.Kind)
	require.Len(t, got.Analyses, 3)

	first := got.Analyses[0]
	assert.Equal(t, "Water boils at 100C", first.Claim)
	assert.True(t, first.Affirmative())
	assert.Equal(t, "At sea level.", first.Justification)
	require.Len(t, first.Evidence, 2)
	assert.Equal(t, model.Evidence{Name: "wikipedia", Result: "Boiling point"}, first.Evidence[0])
	assert.Equal(t, model.Evidence{Name: "", Result: `{"temp":100}`}, first.Evidence[1])

	assert.False(t, got.Analyses[1].Affirmative())
	assert.Empty(t, got.Analyses[1].Evidence)

	// A JSON boolean is not the string "true"
	assert.False(t, got.Analyses[2].Affirmative())
	assert.Equal(t, "", got.Analyses[2].Justification)

	require.NotNil(t, got.FinalVerdict)
	assert.Equal(t, "false", got.FinalVerdict.Label)
	assert.Equal(t, "One claim is false.", got.FinalVerdict.Justification)
}

func TestClassify_FinalVerdictRequiresBothFields(t *testing.T) {
	tests := []string{
		`{"analyses": [], "final_label": "true"}`,
		`{"analyses": [], "final_justification": "why"}`,
		`{"analyses": [], "final_label": "", "final_justification": "why"}`,
		`{"analyses": [], "final_label": "true", "final_justification": null}`,
	}

	for _, payload := range tests {
		got := Classify([]byte(payload))
		assert.Nil(t, got.FinalVerdict, payload)
	}
}

func TestClassify_FinalVerdictNonStringLabel(t *testing.T) {
	got := Classify([]byte(`{"analyses": [], "final_label": true, "final_justification": "why"}`))
	require.NotNil(t, got.FinalVerdict)
	assert.Equal(t, "", got.FinalVerdict.Label)
	assert.Equal(t, "true", got.FinalVerdict.LabelText)
	assert.False(t, model.IsAffirmative(got.FinalVerdict.Label))
}

func TestClassify_Claims(t *testing.T) {
	payload := `{"claims": ["A", "B", "C"], "labels": ["true", "unknown"], "justifications": ["because", 0]}`

	got := Classify([]byte(payload))
	require.Equal(t, model.KindClaims, got.Kind)
	assert.Equal(t, 3, got.Len())

	assert.True(t, got.ClaimAt(0).Affirmative())
	assert.Equal(t, "because", got.ClaimAt(0).Justification)

	assert.False(t, got.ClaimAt(1).Affirmative())
	assert.Equal(t, "", got.ClaimAt(1).Justification)

	third := got.ClaimAt(2)
	assert.Equal(t, "C", third.Claim)
	assert.False(t, third.Affirmative())
	assert.Equal(t, "", third.Justification)
}

func TestClassify_Array(t *testing.T) {
	payload := `[{"claim": "X", "label": "true", "justification": "J", "evidence": [{"name": "S1", "result": "R1"}]}, "junk"]`

	got := Classify([]byte(payload))
	require.Equal(t, model.KindArray, got.Kind)
	require.Len(t, got.Analyses, 2)

	assert.Equal(t, model.Analysis{
		Claim:         "X",
		Label:         "true",
		Justification: "J",
		Evidence:      []model.Evidence{{Name: "S1", Result: "R1"}},
	}, got.Analyses[0])
	assert.Equal(t, model.Analysis{}, got.Analyses[1])
}

func TestResultText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"plain text"`, "plain text"},
		{`{"a": [1, 2]}`, `{"a":[1,2]}`},
		{`[ "x" ]`, `["x"]`},
		{`12.5`, "12.5"},
		{`true`, "true"},
		{`null`, "null"},
		{``, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, resultText([]byte(tt.raw)), tt.raw)
	}
}

func TestTruthy(t *testing.T) {
	falsy := []string{``, `null`, `false`, `0`, `""`, `-0`}
	truthyValues := []string{`true`, `1`, `"x"`, `{}`, `[]`, `"false"`}

	for _, raw := range falsy {
		assert.False(t, truthy([]byte(raw)), raw)
	}
	for _, raw := range truthyValues {
		assert.True(t, truthy([]byte(raw)), raw)
	}
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", Indent([]byte(`{"a":[1]}`)))
	assert.Equal(t, "not json", Indent([]byte("not json")))
}
