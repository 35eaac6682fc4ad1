package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/view"
	"github.com/ppiankov/factview/internal/web"
)

// Output flags shared by query and restore
var (
	showRaw  bool
	noColor  bool
	htmlPath string
)

const loginHint = "Sign in to the backend and set auth.session_cookie (FACTVIEW_AUTH_SESSION_COOKIE) to perform searches."

// printPage writes the outcome of a page to the terminal. r is the
// recognized result the page shows, if any.
func printPage(out, errOut io.Writer, p *view.Page, r *model.QueryResult, query string) {
	switch p.Phase {
	case view.PhaseAuthRequired:
		fmt.Fprintf(errOut, "%s: %s\n", view.LoginRequiredTitle, loginHint)
	case view.PhaseFailed:
		fmt.Fprintln(errOut, strings.TrimSpace(view.TextContent(p.Results)))
	case view.PhaseRendered:
		if r == nil {
			fmt.Fprintln(errOut, view.UnexpectedFormat)
			return
		}
		fmt.Fprint(out, view.Terminal(*r, view.TerminalOptions{
			Query:   query,
			ShowRaw: showRaw,
			NoColor: noColor,
		}))
	}
}

// writeHTMLReport saves a page as a standalone HTML document with every
// section expanded
func writeHTMLReport(path string, p *view.Page) (err error) {
	view.ExpandAll(p.Results)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report: %w", closeErr)
		}
	}()

	return web.WriteReport(f, p)
}
