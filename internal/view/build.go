// Package view turns classified query results into an HTML view tree and holds
// the page state the results region, share controls and status line live in.
package view

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"

	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/result"
)

// Fixed view text.
const (
	TitleResults         = "Analysis Results"
	TitleClaims          = "Claims Analysis"
	TitleFinalVerdict    = "Final Verdict"
	TitleClaimFallback   = "Claim Analysis"
	NoResults            = "No results found for your query."
	NoJustification      = "No justification provided"
	NoFinalJustification = "No final justification provided"
	NoReasoning          = "No reasoning provided"
	NoEvidence           = "No evidence provided"
	UnknownSource        = "Unknown"
	UnexpectedFormat     = "Unexpected response format from the server."
)

// Toggle labels, shown as "Show <label>" / "Hide <label>".
const (
	toggleDetails       = "Details"
	toggleJustification = "Justification"
	toggleRawData       = "Raw JSON Data"
)

const (
	arrowCollapsed = "▶"
	arrowExpanded  = "▼"
)

// Icons locates the verdict images
type Icons struct {
	Yes string
	No  string
}

// DefaultIcons are served by the web front end
var DefaultIcons = Icons{
	Yes: "/static/icons/yes.svg",
	No:  "/static/icons/no.svg",
}

// Builder builds result views. The zero value uses DefaultIcons.
type Builder struct {
	Icons Icons
}

// Build builds the results region for r using DefaultIcons
func Build(r model.QueryResult) *html.Node {
	return Builder{}.Build(r)
}

// Build returns the complete content of the results region for r. It is a pure
// function of r: no session state is read or written.
func (b Builder) Build(r model.QueryResult) *html.Node {
	if b.Icons == (Icons{}) {
		b.Icons = DefaultIcons
	}

	root := element("div", "results-content")

	switch r.Kind {
	case model.KindAnalyses:
		root.AppendChild(b.analysesView(r))
	case model.KindClaims:
		root.AppendChild(b.claimsView(r))
	case model.KindArray:
		root.AppendChild(b.arrayView(r))
	default:
		root.AppendChild(textElement("div", "error", UnexpectedFormat))
	}

	return root
}

func (b Builder) analysesView(r model.QueryResult) *html.Node {
	container := element("div", "response-container",
		textElement("h2", "response-title", TitleResults),
	)

	if r.FinalVerdict != nil {
		container.AppendChild(b.finalVerdictTable(r.FinalVerdict))
	}

	if len(r.Analyses) == 0 {
		container.AppendChild(textElement("div", "no-results", NoResults))
	} else {
		list := element("div", "analyses-container",
			textElement("h3", "analyses-title", TitleResults),
		)
		for _, a := range r.Analyses {
			list.AppendChild(b.card(a, toggleDetails, true))
		}
		container.AppendChild(list)
	}

	container.AppendChild(rawDataPanel(r))
	return container
}

func (b Builder) claimsView(r model.QueryResult) *html.Node {
	container := element("div", "response-container",
		textElement("h2", "response-title", TitleResults),
	)

	if len(r.Claims) == 0 {
		container.AppendChild(textElement("div", "no-results", NoResults))
	} else {
		list := element("div", "analyses-container",
			textElement("h3", "analyses-title", TitleClaims),
		)
		for i := range r.Claims {
			list.AppendChild(b.card(r.ClaimAt(i), toggleJustification, false))
		}
		container.AppendChild(list)
	}

	if r.FinalVerdict != nil {
		container.AppendChild(b.finalVerdictBlock(r.FinalVerdict))
	}

	container.AppendChild(rawDataPanel(r))
	return container
}

func (b Builder) arrayView(r model.QueryResult) *html.Node {
	container := element("div", "response-container")

	if len(r.Analyses) == 0 {
		container.AppendChild(textElement("div", "no-results", NoResults))
	}
	for _, a := range r.Analyses {
		container.AppendChild(b.resultCard(a))
	}

	container.AppendChild(rawDataPanel(r))
	return container
}

// card renders one analysis: an always-visible top zone and a collapsed detail zone
func (b Builder) card(a model.Analysis, toggleLabel string, withEvidence bool) *html.Node {
	top := element("div", "top-section",
		element("div", "claim-container",
			textElement("span", "field-label", "Claim: "),
			textElement("span", "claim-text", a.Claim),
		),
		element("div", "verdict-container",
			textElement("span", "field-label", "Verdict: "),
			b.icon("verdict-icon", a.Label),
			textElement("span", "verdict-text", verdictText(a.Label)),
		),
	)

	content := element("div", "expandable-content",
		element("div", "content-section justification-section",
			textElement("h4", "", "Justification"),
			textElement("div", "section-content", orDefault(a.Justification, NoJustification)),
		),
	)
	if withEvidence {
		content.AppendChild(evidenceSection(a.Evidence))
	}

	return element("div", "analysis-card", top, collapsible(toggleLabel, content))
}

// resultCard renders an entry of the legacy array format
func (b Builder) resultCard(a model.Analysis) *html.Node {
	header := element("div", "result-header",
		textElement("h2", "", orDefault(a.Claim, TitleClaimFallback)),
		b.icon("result-icon", a.Label),
		textElement("span", "verdict-text", verdictText(a.Label)),
	)

	content := element("div", "expandable-content result-content",
		textElement("p", "", orDefault(a.Justification, NoReasoning)),
	)

	if len(a.Evidence) > 0 {
		sources := element("div", "result-source", textNode("Evidence: "))
		for i, ev := range a.Evidence {
			if i > 0 {
				sources.AppendChild(textNode(", "))
			}
			sources.AppendChild(textElement("span", "evidence-name", orDefault(ev.Name, "Evidence "+strconv.Itoa(i+1))))
			if ev.Result != "" {
				sources.AppendChild(textNode(" ("))
				sources.AppendChild(textElement("span", "evidence-result", ev.Result))
				sources.AppendChild(textNode(")"))
			}
		}
		content.AppendChild(sources)
	}

	return element("div", "result-card", header, collapsible(toggleDetails, content))
}

func evidenceSection(evidence []model.Evidence) *html.Node {
	body := element("div", "section-content")

	if len(evidence) == 0 {
		body.AppendChild(textNode(NoEvidence))
	} else {
		list := element("ul", "evidence-list")
		for _, ev := range evidence {
			list.AppendChild(element("li", "evidence-item",
				textElement("div", "evidence-name", fmt.Sprintf("Source: %s", orDefault(ev.Name, UnknownSource))),
				textElement("div", "evidence-result", ev.Result),
			))
		}
		body.AppendChild(list)
	}

	return element("div", "content-section evidence-section",
		textElement("h4", "", "Evidence"),
		body,
	)
}

func (b Builder) finalVerdictTable(fv *model.FinalVerdict) *html.Node {
	headerClass := "final-verdict-false"
	if model.IsAffirmative(fv.Label) {
		headerClass = "final-verdict-true"
	}

	th := textElement("th", headerClass, TitleFinalVerdict)
	setAttr(th, "colspan", "2")

	label := element("td", "", b.icon("verdict-icon", fv.Label), textNode(fv.LabelText))

	return element("table", "claims-table final-verdict-table",
		element("thead", "", element("tr", "", th)),
		element("tbody", "",
			element("tr", "", textElement("td", "label-title", "Final Label"), label),
			element("tr", "",
				textElement("td", "label-title", "Final Justification"),
				textElement("td", "", orDefault(fv.Justification, NoFinalJustification)),
			),
		),
	)
}

func (b Builder) finalVerdictBlock(fv *model.FinalVerdict) *html.Node {
	return element("div", "final-verdict-container",
		textElement("h3", "", TitleFinalVerdict),
		element("div", "final-verdict-content",
			element("div", "final-verdict-label", b.icon("verdict-icon", fv.Label), textNode(fv.LabelText)),
			textElement("p", "final-verdict-justification", orDefault(fv.Justification, NoFinalJustification)),
		),
	)
}

// rawDataPanel holds the full payload, collapsed, independent of the card toggles
func rawDataPanel(r model.QueryResult) *html.Node {
	panel := element("details", "raw-data-container",
		textElement("summary", "raw-data-toggle", "Show "+toggleRawData),
		textElement("pre", "raw-data-content", result.Indent(r.Raw)),
	)
	setAttr(panel, "data-toggle-label", toggleRawData)
	return panel
}

// collapsible wraps content in a toggle-controlled zone that starts collapsed
func collapsible(label string, content *html.Node) *html.Node {
	section := element("details", "collapsible-section",
		element("summary", "collapsible-header",
			textElement("span", "expand-icon", arrowCollapsed),
			textElement("span", "details-text", "Show "+label),
		),
		content,
	)
	setAttr(section, "data-toggle-label", label)
	return section
}

func (b Builder) icon(class, label string) *html.Node {
	img := element("img", class)
	if model.IsAffirmative(label) {
		setAttr(img, "src", b.Icons.Yes)
	} else {
		setAttr(img, "src", b.Icons.No)
	}
	setAttr(img, "alt", verdictText(label))
	return img
}

func verdictText(label string) string {
	if model.IsAffirmative(label) {
		return "True"
	}
	return "False"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
