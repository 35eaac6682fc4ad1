package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ppiankov/factview/internal/view"
)

// Runner runs one query end to end and returns the resulting page
type Runner interface {
	RunQuery(ctx context.Context, query string) (*view.Page, error)
}

// QueryJob represents one query of a batch
type QueryJob struct {
	ID     string
	Index  int
	Query  string
	Runner Runner
}

// Execute executes the query job
func (j *QueryJob) Execute(ctx context.Context) Result {
	page, err := j.Runner.RunQuery(ctx, j.Query)
	return &BatchResult{
		ID:    j.ID,
		Index: j.Index,
		Query: j.Query,
		Page:  page,
		Error: err,
	}
}

// BatchResult represents the result of a query job
type BatchResult struct {
	ID    string
	Index int
	Query string
	Page  *view.Page
	Error error
}

// GetError returns the error from the query job
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many queries concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessQueries runs every query and returns results in input order
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*BatchResult {
	if len(queries) == 0 {
		return []*BatchResult{}
	}

	pool := NewPoolContext(ctx, b.concurrency)
	pool.Start()

	for i, q := range queries {
		pool.Submit(&QueryJob{
			ID:     uuid.NewString(),
			Index:  i,
			Query:  q,
			Runner: b.runner,
		})
	}

	results := pool.Wait()

	batchResults := make([]*BatchResult, 0, len(results))
	for _, result := range results {
		batchResults = append(batchResults, result.(*BatchResult))
	}
	sort.Slice(batchResults, func(i, j int) bool {
		return batchResults[i].Index < batchResults[j].Index
	})

	return batchResults
}

// ProcessFile reads queries from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*BatchResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads queries from a file (one per line)
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
