// Package search sequences a query submission: credential fetch, query, then
// render or error, driving the page through its phases.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/factview/internal/backend"
	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/result"
	"github.com/ppiankov/factview/internal/view"
)

var (
	// ErrSubmissionInFlight is returned when a submission is already running for the page
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrUnexpectedFormat is returned when the query answer matches no known shape
	ErrUnexpectedFormat = errors.New("unexpected response format")
)

// ErrorPrefix starts every query failure shown on the page
const ErrorPrefix = "Error processing your request: "

// Backend is the part of the backend client a submission needs
type Backend interface {
	APIKey(ctx context.Context, auth backend.Auth) (string, error)
	Query(ctx context.Context, apiKey string, q model.QueryRequest) ([]byte, error)
}

// Orchestrator runs submissions for one page
type Orchestrator struct {
	backend  Backend
	renderer *view.Renderer
	page     *view.Page
	auth     backend.Auth
	guard    *Guard
	guardKey string
	logger   *zerolog.Logger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithAuth sets the session credentials used for the credential phase
func WithAuth(auth backend.Auth) Option {
	return func(o *Orchestrator) { o.auth = auth }
}

// WithGuard shares an in-flight guard across orchestrators; key identifies the page
func WithGuard(g *Guard, key string) Option {
	return func(o *Orchestrator) {
		o.guard = g
		o.guardKey = key
	}
}

// WithLogger sets the logger; nil keeps the no-op logger
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an orchestrator driving page
func New(b Backend, renderer *view.Renderer, page *view.Page, opts ...Option) *Orchestrator {
	nop := zerolog.Nop()
	o := &Orchestrator{
		backend:  b,
		renderer: renderer,
		page:     page,
		guard:    NewGuard(),
		logger:   &nop,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Page returns the page the orchestrator drives
func (o *Orchestrator) Page() *view.Page {
	return o.page
}

// Submit runs one submission. A blank query is a silent no-op. An
// unauthenticated caller gets the login notice without any network call. The
// returned error is non-nil only when the page ends in the failed phase or the
// submission was rejected because another one is running.
func (o *Orchestrator) Submit(ctx context.Context, query string, sources []string, authenticated bool) (*view.Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return o.page, nil
	}

	release, ok := o.guard.Acquire(o.guardKey)
	if !ok {
		SubmissionsTotal.WithLabelValues(OutcomeInFlight).Inc()
		return o.page, ErrSubmissionInFlight
	}
	defer release()

	if !authenticated {
		o.page.ShowAuthRequired()
		SubmissionsTotal.WithLabelValues(OutcomeAuthRequired).Inc()
		return o.page, nil
	}

	o.page.BeginSubmission()
	start := time.Now()

	log := o.logger.With().Int("query_len", len(query)).Int("sources", len(sources)).Logger()
	log.Debug().Msg("submitting query")

	apiKey, err := o.backend.APIKey(ctx, o.auth)
	if err != nil {
		if errors.Is(err, backend.ErrAuthRequired) {
			BackendErrorsTotal.WithLabelValues("credential", statusLabel(err)).Inc()
			SubmissionsTotal.WithLabelValues(OutcomeAuthRequired).Inc()
			log.Info().Msg("credential phase rejected session")
			o.page.ShowAuthRequired()
			return o.page, nil
		}
		return o.fail(log, "credential", err)
	}

	raw, err := o.backend.Query(ctx, apiKey, model.QueryRequest{Body: query, Sources: sources})
	if err != nil {
		return o.fail(log, "query", err)
	}
	QueryLatency.Observe(time.Since(start).Seconds())

	res := result.Classify(raw)
	o.renderer.Render(o.page, res, query)

	if !res.Recognized() {
		SubmissionsTotal.WithLabelValues(OutcomeUnrecognized).Inc()
		log.Warn().Int("bytes", len(raw)).Msg("query answer has unexpected format")
		return o.page, ErrUnexpectedFormat
	}

	SubmissionsTotal.WithLabelValues(OutcomeRendered).Inc()
	log.Info().Str("kind", res.Kind.String()).Int("items", res.Len()).Dur("took", time.Since(start)).Msg("query rendered")
	return o.page, nil
}

func (o *Orchestrator) fail(log zerolog.Logger, phase string, err error) (*view.Page, error) {
	BackendErrorsTotal.WithLabelValues(phase, statusLabel(err)).Inc()
	SubmissionsTotal.WithLabelValues(OutcomeFailed).Inc()
	log.Error().Err(err).Str("phase", phase).Msg("submission failed")

	o.page.ShowError(ErrorPrefix + message(err))
	return o.page, fmt.Errorf("%s phase: %w", phase, err)
}

// message is the user-facing detail of a failure
func message(err error) string {
	var se *backend.StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return err.Error()
}

func statusLabel(err error) string {
	var se *backend.StatusError
	if errors.As(err, &se) {
		return strconv.Itoa(se.Code)
	}
	return "transport"
}
