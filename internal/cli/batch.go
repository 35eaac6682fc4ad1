package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ppiankov/factview/internal/backend"
	"github.com/ppiankov/factview/internal/search"
	"github.com/ppiankov/factview/internal/session"
	"github.com/ppiankov/factview/internal/view"
	"github.com/ppiankov/factview/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchSources []string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Submit many queries from a file in parallel",
	Long: `Batch submits one query per line of the input file:
- Blank lines and lines starting with # are skipped
- Duplicate queries are submitted once
- Queries run in parallel, throttled to the backend's rate limit
- Each query gets its own HTML report in the output directory

Example:
  factview batch queries.txt
  factview batch queries.txt --concurrency 4 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./factview-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringSliceVar(&batchSources, "source", nil, "source to consult (repeatable; default from config)")
}

// queryRunner submits each query on a fresh page and session
type queryRunner struct {
	client        search.Backend
	auth          backend.Auth
	authenticated bool
	sources       []string
	logger        *zerolog.Logger
}

// RunQuery implements worker.Runner
func (r *queryRunner) RunQuery(ctx context.Context, query string) (*view.Page, error) {
	p := view.NewPage()
	o := search.New(r.client, view.NewRenderer(view.Builder{}, &session.State{}), p,
		search.WithAuth(r.auth),
		search.WithLogger(r.logger),
	)

	if _, err := o.Submit(ctx, query, r.sources, r.authenticated); err != nil {
		return p, err
	}
	if p.Phase == view.PhaseAuthRequired {
		return p, backend.ErrAuthRequired
	}
	return p, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	d, err := loadDeps()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  factview Batch Processing\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Input file:   %s\n", file)
	fmt.Fprintf(errOut, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(errOut, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(errOut, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(errOut, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	sources := batchSources
	if len(sources) == 0 {
		sources = d.cfg.Sources
	}
	runner := &queryRunner{
		client:        d.client,
		auth:          cliAuth(d.cfg),
		authenticated: cliAuthenticated(d.cfg),
		sources:       sources,
		logger:        d.logger,
	}

	results, err := worker.NewBatchProcessor(runner, concurrency).ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount, failureCount := writeBatchReports(errOut, outputDir, results)

	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  Batch Complete\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Total:     %d queries\n", len(results))
	fmt.Fprintf(errOut, "  Success:   %d\n", successCount)
	fmt.Fprintf(errOut, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(errOut, "  Output:    %s\n", outputDir)
	fmt.Fprintf(errOut, "\n")

	return nil
}

// writeBatchReports writes one HTML page per result, failures included, and
// counts outcomes
func writeBatchReports(errOut io.Writer, dir string, results []*worker.BatchResult) (success, failure int) {
	for _, res := range results {
		name := fmt.Sprintf("%03d-%s.html", res.Index+1, sanitizeFilename(res.Query))
		path := filepath.Join(dir, name)

		if res.Page != nil {
			res.Page.QueryInput = res.Query
			if err := writeHTMLReport(path, res.Page); err != nil {
				fmt.Fprintf(errOut, "✗ %s: failed to write report: %v\n", res.Query, err)
				failure++
				continue
			}
		}

		if res.Error != nil {
			failure++
			fmt.Fprintf(errOut, "✗ %s: %v\n", res.Query, res.Error)
			continue
		}

		success++
		fmt.Fprintf(errOut, "✓ %s → %s\n", res.Query, name)
	}
	return success, failure
}

// sanitizeFilename turns a query into a short file name
func sanitizeFilename(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}

	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > 60 {
		out = strings.TrimSuffix(out[:60], "-")
	}
	if out == "" {
		out = "query"
	}
	return out
}
