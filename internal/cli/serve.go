package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factview/internal/web"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web front end",
	Long: `Serve runs the search page in front of the backend. Browser sessions are
forwarded to the backend; each visitor's current result is kept in the
configured session store so it can be shared.

Routes:
  GET  /               search page
  POST /search         submit a query
  POST /share          share the current result
  GET  /shared/<id>/   render a shared result
  GET  /healthz        backend readiness
  GET  /metrics        Prometheus metrics

Example:
  factview serve
  factview serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := loadDeps()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		d.cfg.Server.Addr = serveAddr
	}

	srv, err := web.New(d.cfg, d.client, d.sessions, d.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
