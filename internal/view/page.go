package view

import "golang.org/x/net/html"

// Phase is the orchestration state of a page
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseRendered
	PhaseFailed
	PhaseAuthRequired
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseRendered:
		return "rendered"
	case PhaseFailed:
		return "failed"
	case PhaseAuthRequired:
		return "auth_required"
	default:
		return "idle"
	}
}

// Status is the share status line
type Status struct {
	Text  string
	Error bool
}

// Page is the state of the search page: region visibility, the results region
// content, share controls and the query input
type Page struct {
	Phase Phase

	Loading        bool // Loading indicator shown
	ResultsVisible bool // Results region shown
	WithResults    bool // Layout hook on the search container
	Results        *html.Node

	ShareVisible     bool // Share controls shown
	ShareLinkVisible bool
	ShareLink        string
	Status           Status

	QueryInput string
}

// NewPage returns an idle page with every region hidden
func NewPage() *Page {
	return &Page{Phase: PhaseIdle}
}

// BeginSubmission enters the loading state: indicator on, results and share
// controls hidden, search container marked as holding results
func (p *Page) BeginSubmission() {
	p.Phase = PhaseLoading
	p.WithResults = true
	p.Loading = true
	p.ResultsVisible = false
	p.ShareVisible = false
}

// ShowAuthRequired replaces the results region with the login notice
func (p *Page) ShowAuthRequired() {
	p.Phase = PhaseAuthRequired
	p.Loading = false
	p.replaceResults(LoginRequired())
}

// ShowError replaces the results region with a single error message
func (p *Page) ShowError(message string) {
	p.Phase = PhaseFailed
	p.Loading = false
	p.replaceResults(ErrorNotice(message))
}

// SetStatus updates the share status line
func (p *Page) SetStatus(text string, isError bool) {
	p.Status = Status{Text: text, Error: isError}
}

// RevealShareLink shows the share-link field holding link
func (p *Page) RevealShareLink(link string) {
	p.ShareLink = link
	p.ShareLinkVisible = true
}

func (p *Page) replaceResults(n *html.Node) {
	p.Results = n
	p.ResultsVisible = true
}
