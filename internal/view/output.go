package view

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// RenderHTML serializes a view tree
func RenderHTML(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("render view: %w", err)
	}
	return buf.String(), nil
}
