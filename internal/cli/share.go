package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factview/internal/share"
	"github.com/ppiankov/factview/internal/view"
)

// shareCmd represents the share command
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share the current query and result",
	Long: `Share saves the query and result of the last successful 'factview query'
or 'factview restore' with the backend and prints the share link.

Example:
  factview share
  factview share --public --copy`,
	Args: cobra.NoArgs,
	RunE: runShare,
}

func init() {
	rootCmd.AddCommand(shareCmd)

	shareCmd.Flags().BoolVar(&sharePublic, "public", false, "make the shared result public")
	shareCmd.Flags().BoolVar(&copyLink, "copy", false, "copy the share link to the clipboard")
}

func runShare(cmd *cobra.Command, args []string) error {
	d, err := loadDeps()
	if err != nil {
		return err
	}

	st, err := d.sessions.LoadOrNew(cliSessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), d.cfg.HTTP.Timeout)
	defer cancel()

	renderer := view.NewRenderer(view.Builder{}, st)
	ctrl := share.NewController(d.client, renderer, st, cliAuth(d.cfg), d.client.Origin(), d.logger)
	return shareAndReport(ctx, cmd, ctrl, view.NewPage())
}

// shareAndReport shares the session result and prints the status line and link
func shareAndReport(ctx context.Context, cmd *cobra.Command, ctrl *share.Controller, p *view.Page) error {
	if err := ctrl.Share(ctx, p, sharePublic); err != nil {
		if errors.Is(err, share.ErrNothingToShare) {
			return fmt.Errorf("%w: run 'factview query' first", err)
		}
		return err
	}

	if p.Status.Error {
		return errors.New(p.Status.Text)
	}
	if p.Status.Text != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), p.Status.Text)
	}
	if !p.ShareLinkVisible {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), p.ShareLink)

	if copyLink {
		clip := share.SystemClipboard{}
		if !clip.Available() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Clipboard is not available on this system")
			return nil
		}
		ctrl.CopyLink(p, clip)
		fmt.Fprintln(cmd.ErrOrStderr(), p.Status.Text)
	}
	return nil
}
