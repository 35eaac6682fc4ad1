// Package page reads the attributes the backend embeds in its search page.
package page

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Element ids and attribute names used by the backend's search page
const (
	ResultsContainerID = "results-container"
	CSRFFieldName      = "csrfmiddlewaretoken"

	attrSharedView    = "data-is-shared-view"
	attrSharedResult  = "data-shared-result"
	attrSharedQuery   = "data-shared-query"
	attrAuthenticated = "data-is-authenticated"
)

// Attributes are the page-embedded values consumed on load
type Attributes struct {
	IsSharedView    bool
	SharedResult    string // Doubly JSON-encoded payload, as embedded
	SharedQuery     string
	IsAuthenticated bool
	CSRFToken       string
}

// Extract parses a backend page and collects its embedded attributes. Flags are
// set only by the exact value "true". Missing elements leave fields zero.
func Extract(r io.Reader) (Attributes, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Attributes{}, fmt.Errorf("parse page: %w", err)
	}

	var attrs Attributes
	var formSeen bool

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case attr(n, "id") == ResultsContainerID:
				attrs.IsSharedView = attr(n, attrSharedView) == "true"
				attrs.SharedResult = attr(n, attrSharedResult)
				attrs.SharedQuery = attr(n, attrSharedQuery)
			case n.Data == "form" && !formSeen:
				formSeen = true
				attrs.IsAuthenticated = attr(n, attrAuthenticated) == "true"
			case n.Data == "input" && attr(n, "name") == CSRFFieldName && attrs.CSRFToken == "":
				attrs.CSRFToken = attr(n, "value")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return attrs, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
