// Package result classifies raw query responses into the QueryResult union.
package result

import (
	"bytes"
	"encoding/json"

	"github.com/ppiankov/factview/internal/model"
)

// Classify decodes a raw query response. Shapes are checked in a fixed order and
// the first match wins:
//
//  1. an "analyses" array
//  2. "claims", "labels" and "justifications" arrays
//  3. a top-level array
//
// Anything else, including invalid JSON, is KindUnrecognized. Classify never fails.
func Classify(raw []byte) model.QueryResult {
	out := model.QueryResult{
		Kind: model.KindUnrecognized,
		Raw:  append(json.RawMessage(nil), raw...),
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return out
	}

	switch trimmed[0] {
	case '{':
		classifyObject(trimmed, &out)
	case '[':
		classifyArray(trimmed, &out)
	}

	return out
}

func classifyObject(raw []byte, out *model.QueryResult) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}

	if isArray(fields["analyses"]) {
		out.Kind = model.KindAnalyses
		out.Analyses = analysesFrom(fields["analyses"])
		out.FinalVerdict = finalVerdictFrom(fields)
		return
	}

	if isArray(fields["claims"]) && isArray(fields["labels"]) && isArray(fields["justifications"]) {
		out.Kind = model.KindClaims
		for _, c := range elements(fields["claims"]) {
			out.Claims = append(out.Claims, textOf(c))
		}
		for _, l := range elements(fields["labels"]) {
			out.Labels = append(out.Labels, stringOf(l))
		}
		for _, j := range elements(fields["justifications"]) {
			out.Justifications = append(out.Justifications, truthyText(j))
		}
		out.FinalVerdict = finalVerdictFrom(fields)
	}
}

func classifyArray(raw []byte, out *model.QueryResult) {
	out.Kind = model.KindArray
	out.Analyses = analysesFrom(raw)
}

func analysesFrom(raw json.RawMessage) []model.Analysis {
	items := elements(raw)
	analyses := make([]model.Analysis, 0, len(items))
	for _, item := range items {
		analyses = append(analyses, analysisFrom(item))
	}
	return analyses
}

func analysisFrom(raw json.RawMessage) model.Analysis {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// Non-object entries render as an empty, negative card
		return model.Analysis{}
	}

	return model.Analysis{
		Claim:         truthyText(fields["claim"]),
		Label:         stringOf(fields["label"]),
		Justification: truthyText(fields["justification"]),
		Evidence:      evidenceFrom(fields["evidence"]),
	}
}

func evidenceFrom(raw json.RawMessage) []model.Evidence {
	items := elements(raw)
	if len(items) == 0 {
		return nil
	}

	evidence := make([]model.Evidence, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		_ = json.Unmarshal(item, &fields)

		evidence = append(evidence, model.Evidence{
			Name:   truthyText(fields["name"]),
			Result: resultText(fields["result"]),
		})
	}
	return evidence
}

// finalVerdictFrom returns nil unless both final fields are truthy
func finalVerdictFrom(fields map[string]json.RawMessage) *model.FinalVerdict {
	label, justification := fields["final_label"], fields["final_justification"]
	if !truthy(label) || !truthy(justification) {
		return nil
	}

	return &model.FinalVerdict{
		Label:         stringOf(label),
		LabelText:     textOf(label),
		Justification: textOf(justification),
	}
}
