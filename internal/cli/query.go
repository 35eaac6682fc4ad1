package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/search"
	"github.com/ppiankov/factview/internal/session"
	"github.com/ppiankov/factview/internal/share"
	"github.com/ppiankov/factview/internal/view"
)

var (
	querySources []string
	shareAfter   bool
	sharePublic  bool
	copyLink     bool
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Submit a query and render the verification result",
	Long: `Query sends the text to the backend for claim verification and renders
the answer: one card per claim with its verdict and evidence, the final
verdict, and optionally the raw payload.

The query and its result become the current session and can be shared
afterwards with 'factview share'.

Example:
  factview query "The Eiffel Tower is in Berlin"
  factview query "Water boils at 100C" --source wikipedia --source pubmed
  factview query "..." --share --public --copy
  factview query "..." --html report.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringSliceVar(&querySources, "source", nil, "source to consult (repeatable; default from config)")
	queryCmd.Flags().BoolVar(&showRaw, "raw", false, "append the raw response payload")
	queryCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	queryCmd.Flags().StringVar(&htmlPath, "html", "", "also write the result page as HTML to this path")
	queryCmd.Flags().BoolVar(&shareAfter, "share", false, "share the result after rendering it")
	queryCmd.Flags().BoolVar(&sharePublic, "public", false, "make the shared result public")
	queryCmd.Flags().BoolVar(&copyLink, "copy", false, "copy the share link to the clipboard")
}

func runQuery(cmd *cobra.Command, args []string) error {
	d, err := loadDeps()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	sources := querySources
	if len(sources) == 0 {
		sources = d.cfg.Sources
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), d.cfg.HTTP.Timeout*3)
	defer cancel()

	st, err := d.sessions.LoadOrNew(cliSessionID)
	if err != nil {
		d.logger.Warn().Err(err).Msg("load session")
		st = &session.State{}
	}

	p := view.NewPage()
	renderer := view.NewRenderer(view.Builder{}, st)
	o := search.New(d.client, renderer, p,
		search.WithAuth(cliAuth(d.cfg)),
		search.WithLogger(d.logger),
	)

	_, submitErr := o.Submit(ctx, query, sources, cliAuthenticated(d.cfg))

	if err := d.sessions.Save(cliSessionID, st); err != nil {
		d.logger.Error().Err(err).Msg("save session")
	}

	printPage(cmd.OutOrStdout(), cmd.ErrOrStderr(), p, rendered(p, st), query)

	if htmlPath != "" {
		if err := writeHTMLReport(htmlPath, p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", htmlPath)
	}

	if submitErr != nil {
		if errors.Is(submitErr, search.ErrUnexpectedFormat) {
			return submitErr
		}
		return fmt.Errorf("query failed: %w", submitErr)
	}

	if shareAfter && p.ShareVisible {
		ctrl := share.NewController(d.client, renderer, st, cliAuth(d.cfg), d.client.Origin(), d.logger)
		return shareAndReport(ctx, cmd, ctrl, p)
	}
	return nil
}

// rendered is the session result when the page shows a recognized render
func rendered(p *view.Page, st *session.State) *model.QueryResult {
	if p.Phase != view.PhaseRendered || !p.ShareVisible {
		return nil
	}
	_, r := st.Snapshot()
	return r
}
