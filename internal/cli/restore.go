package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factview/internal/page"
	"github.com/ppiankov/factview/internal/session"
	"github.com/ppiankov/factview/internal/share"
	"github.com/ppiankov/factview/internal/view"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <shared-url>",
	Short: "Render a shared result",
	Long: `Restore fetches a shared result page from the backend, decodes the result
embedded in it and renders it. The restored query and result become the
current session.

The argument is a full share link or a path on the backend.

Example:
  factview restore http://localhost:8000/shared/3f2a9c/
  factview restore /shared/3f2a9c/ --raw`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().BoolVar(&showRaw, "raw", false, "append the raw response payload")
	restoreCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	restoreCmd.Flags().StringVar(&htmlPath, "html", "", "also write the restored page as HTML to this path")
}

func runRestore(cmd *cobra.Command, args []string) error {
	d, err := loadDeps()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), d.cfg.HTTP.Timeout)
	defer cancel()

	auth := cliAuth(d.cfg)
	body, err := d.client.FetchPage(ctx, auth, args[0])
	if err != nil {
		return fmt.Errorf("fetch shared page: %w", err)
	}

	attrs, err := page.Extract(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("read shared page: %w", err)
	}

	st := &session.State{}
	p := view.NewPage()
	ctrl := share.NewController(d.client, view.NewRenderer(view.Builder{}, st), st, auth, d.client.Origin(), d.logger)

	if err := ctrl.Restore(p, attrs); err != nil {
		if errors.Is(err, share.ErrNotSharedView) {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		printPage(cmd.OutOrStdout(), cmd.ErrOrStderr(), p, nil, "")
		return err
	}
	if attrs.SharedResult == "" {
		return fmt.Errorf("%s: page carries no shared result", args[0])
	}

	_, r := st.Snapshot()
	printPage(cmd.OutOrStdout(), cmd.ErrOrStderr(), p, r, attrs.SharedQuery)

	if !st.Empty() {
		if err := d.sessions.Save(cliSessionID, st); err != nil {
			d.logger.Error().Err(err).Msg("save session")
		}
	}

	if htmlPath != "" {
		if err := writeHTMLReport(htmlPath, p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", htmlPath)
	}
	return nil
}
