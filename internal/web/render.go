package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/ppiankov/factview/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer handles HTML template rendering
type Renderer struct {
	pageTmpl  *template.Template
	errorTmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	pageTmpl, err := template.New("page.html").ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	errorTmpl, err := template.New("error.html").ParseFS(templateFS, "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error template: %w", err)
	}

	return &Renderer{pageTmpl: pageTmpl, errorTmpl: errorTmpl}, nil
}

// SourceOption is one source checkbox
type SourceOption struct {
	Name    string
	Checked bool
}

// PageData contains all data for rendering the search page
type PageData struct {
	Query           string
	Sources         []SourceOption
	IsAuthenticated bool
	IsSharedView    bool

	WithResults    bool
	ResultsVisible bool
	Results        template.HTML

	ShareVisible     bool
	ShareLinkVisible bool
	ShareLink        string
	Status           view.Status
}

// ErrorData contains data for rendering error pages
type ErrorData struct {
	Code    int
	Title   string
	Message string
}

// newPageData copies page state into template data. The results tree holds only
// escaped text, so its rendering is trusted as HTML.
func newPageData(p *view.Page) (*PageData, error) {
	data := &PageData{
		Query:            p.QueryInput,
		WithResults:      p.WithResults,
		ResultsVisible:   p.ResultsVisible,
		ShareVisible:     p.ShareVisible,
		ShareLinkVisible: p.ShareLinkVisible,
		ShareLink:        p.ShareLink,
		Status:           p.Status,
	}

	if p.Results != nil {
		out, err := view.RenderHTML(p.Results)
		if err != nil {
			return nil, err
		}
		data.Results = template.HTML(out) //nolint:gosec // built from escaped text nodes
	}
	return data, nil
}

// RenderPage renders the search page
func (r *Renderer) RenderPage(w io.Writer, data *PageData) error {
	if err := r.pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	return nil
}

// WriteReport renders a page as a standalone document
func WriteReport(w io.Writer, p *view.Page) error {
	r, err := NewRenderer()
	if err != nil {
		return err
	}
	data, err := newPageData(p)
	if err != nil {
		return err
	}
	return r.RenderPage(w, data)
}

// RenderError renders an error page
func (r *Renderer) RenderError(w io.Writer, data *ErrorData) error {
	if err := r.errorTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute error template: %w", err)
	}
	return nil
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
