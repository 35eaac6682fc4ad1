package view

import "golang.org/x/net/html"

// Sections returns every toggle-controlled zone under root: card detail zones
// followed by the raw-data panel, in document order
func Sections(root *html.Node) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "details" {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return found
}

// IsExpanded reports whether a toggle-controlled zone is open
func IsExpanded(section *html.Node) bool {
	_, open := Attr(section, "open")
	return open
}

// Toggle flips one zone between collapsed and expanded and returns the new state.
// Only section and its own header change.
func Toggle(section *html.Node) bool {
	expand := !IsExpanded(section)

	verb, arrow := "Show ", arrowCollapsed
	if expand {
		setAttr(section, "open", "")
		addClass(section, "expanded")
		verb, arrow = "Hide ", arrowExpanded
	} else {
		removeAttr(section, "open")
		removeClass(section, "expanded")
	}

	summary := section.FirstChild
	for summary != nil && summary.Data != "summary" {
		summary = summary.NextSibling
	}
	if summary == nil {
		return expand
	}

	label, _ := Attr(section, "data-toggle-label")
	if icon := FirstByClass(summary, "expand-icon"); icon != nil {
		setText(icon, arrow)
	}
	if text := FirstByClass(summary, "details-text"); text != nil {
		setText(text, verb+label)
	} else {
		setText(summary, verb+label)
	}

	return expand
}

// ExpandAll opens every collapsed zone under root. Static reports use it since
// nobody is there to click.
func ExpandAll(root *html.Node) {
	for _, section := range Sections(root) {
		if !IsExpanded(section) {
			Toggle(section)
		}
	}
}
