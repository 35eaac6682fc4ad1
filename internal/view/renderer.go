package view

import "github.com/ppiankov/factview/internal/model"

// ResultSink receives the query and result of every recognized render
type ResultSink interface {
	Remember(query string, r model.QueryResult)
}

// Renderer replaces a page's results region with a result view
type Renderer struct {
	builder Builder
	sink    ResultSink
}

// NewRenderer creates a renderer that records recognized results in sink
func NewRenderer(builder Builder, sink ResultSink) *Renderer {
	return &Renderer{builder: builder, sink: sink}
}

// Render shows r on p. Recognized results are remembered with their query and
// reveal the share controls; an unrecognized result shows the format error and
// leaves the remembered state alone.
func (r *Renderer) Render(p *Page, res model.QueryResult, query string) {
	p.Loading = false
	p.replaceResults(r.builder.Build(res))

	if !res.Recognized() {
		p.Phase = PhaseFailed
		return
	}

	if r.sink != nil {
		r.sink.Remember(query, res)
	}
	p.Phase = PhaseRendered
	p.ShareVisible = true
}
