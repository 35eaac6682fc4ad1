package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/result"
)

type recordingSink struct {
	calls   int
	query   string
	lastRes model.QueryResult
}

func (s *recordingSink) Remember(query string, r model.QueryResult) {
	s.calls++
	s.query = query
	s.lastRes = r
}

func TestRenderer_RecognizedResult(t *testing.T) {
	sink := &recordingSink{}
	renderer := NewRenderer(Builder{}, sink)
	p := NewPage()
	p.BeginSubmission()

	res := result.Classify([]byte(`{"analyses": [{"claim": "a", "label": "true"}]}`))
	renderer.Render(p, res, "is the sky blue")

	assert.Equal(t, PhaseRendered, p.Phase)
	assert.False(t, p.Loading)
	assert.True(t, p.ResultsVisible)
	assert.True(t, p.ShareVisible)
	require.NotNil(t, p.Results)
	assert.Len(t, FindByClass(p.Results, "analysis-card"), 1)

	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, "is the sky blue", sink.query)
	assert.Equal(t, model.KindAnalyses, sink.lastRes.Kind)
}

func TestRenderer_UnrecognizedLeavesSinkAlone(t *testing.T) {
	sink := &recordingSink{}
	renderer := NewRenderer(Builder{}, sink)
	p := NewPage()
	p.BeginSubmission()

	renderer.Render(p, result.Classify([]byte(`{"foo": 1}`)), "q")

	assert.Equal(t, PhaseFailed, p.Phase)
	assert.False(t, p.ShareVisible)
	assert.Equal(t, UnexpectedFormat, TextContent(FirstByClass(p.Results, "error")))
	assert.Zero(t, sink.calls)
}

func TestRenderer_NilSink(t *testing.T) {
	p := NewPage()
	NewRenderer(Builder{}, nil).Render(p, result.Classify([]byte(`[]`)), "q")

	assert.Equal(t, PhaseRendered, p.Phase)
	assert.NotNil(t, FirstByClass(p.Results, "no-results"))
}

func TestPage_Transitions(t *testing.T) {
	p := NewPage()
	assert.Equal(t, PhaseIdle, p.Phase)
	assert.Equal(t, "idle", p.Phase.String())

	p.ShareVisible = true
	p.ResultsVisible = true
	p.BeginSubmission()
	assert.Equal(t, PhaseLoading, p.Phase)
	assert.True(t, p.Loading)
	assert.True(t, p.WithResults)
	assert.False(t, p.ResultsVisible)
	assert.False(t, p.ShareVisible)

	p.ShowAuthRequired()
	assert.Equal(t, PhaseAuthRequired, p.Phase)
	assert.Equal(t, "auth_required", p.Phase.String())
	assert.False(t, p.Loading)
	assert.True(t, p.ResultsVisible)
	login := FirstByClass(p.Results, "login-required")
	require.NotNil(t, login)
	assert.Contains(t, TextContent(login), LoginRequiredTitle)

	p.ShowError("Error processing your request: boom")
	assert.Equal(t, PhaseFailed, p.Phase)
	assert.Equal(t, "Error processing your request: boom", TextContent(FirstByClass(p.Results, "error")))
}

func TestLoginRequired_Links(t *testing.T) {
	n := LoginRequired()

	var hrefs []string
	for _, a := range findTag(n, "a") {
		href, _ := Attr(a, "href")
		hrefs = append(hrefs, href)
	}
	assert.Equal(t, []string{SignInPath, SignUpPath}, hrefs)
}
