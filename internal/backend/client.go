// Package backend talks to the external backend: the session-authenticated
// credential and share endpoints, the query service, and shared result pages.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/worker"
)

// Auth carries the browser-session credentials forwarded to the backend
type Auth struct {
	Cookies   []*http.Cookie
	CSRFToken string
}

// Client calls the backend endpoints
type Client struct {
	httpClient *http.Client
	cfg        model.BackendConfig
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	logger     *zerolog.Logger
}

// Options configures a Client
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	Proxy        string
	Limiter      *worker.Limiter // Throttles query calls per host; nil disables
	Logger       *zerolog.Logger
}

// NewClient creates a backend client
func NewClient(cfg model.BackendConfig, opts Options) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 8 << 20
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		cfg:       cfg,
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBodyBytes,
		limiter:   opts.Limiter,
		logger:    logger,
	}, nil
}

// Origin is the backend origin share links are built on
func (c *Client) Origin() string {
	return model.Origin(c.cfg.BaseURL)
}

// APIKey fetches the caller's API key. A non-2xx answer is ErrAuthRequired.
func (c *Client) APIKey(ctx context.Context, auth Auth) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.cfg.Resolve(c.cfg.APIKeyPath), nil, auth)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch api key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("credential endpoint rejected session")
		return "", fmt.Errorf("%w: %w", ErrAuthRequired, newStatusError(resp))
	}

	var body model.APIKeyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode api key: %w", err)
	}
	if body.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	return body.APIKey, nil
}

// Query submits a query to the query service, authenticated by apiKey only.
// The raw body is returned unparsed; a non-2xx answer is a *StatusError and its
// body is discarded.
func (c *Client) Query(ctx context.Context, apiKey string, q model.QueryRequest) ([]byte, error) {
	endpoint := c.cfg.QueryEndpoint()

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, endpoint); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	if q.Sources == nil {
		q.Sources = []string{}
	}
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload), Auth{})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("query service returned error")
		return nil, newStatusError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	c.logger.Debug().Int("bytes", len(body)).Dur("took", time.Since(start)).Msg("query answered")
	return body, nil
}

// SaveSharedResult persists a record and returns the backend's verdict on it.
// The body is decoded whatever the status, since failures carry a message.
func (c *Client) SaveSharedResult(ctx context.Context, auth Auth, rec model.SharedResultRecord) (*model.ShareResponse, error) {
	// The payload is stored as rendered; no HTML escaping inside strings
	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.cfg.Resolve(c.cfg.SharePath), &payload, auth)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if auth.CSRFToken != "" {
		req.Header.Set("X-CSRFToken", auth.CSRFToken)
	}
	// Django checks the referer on secure origins
	req.Header.Set("Referer", c.cfg.Resolve(c.cfg.SearchPagePath))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("save shared result: %w", err)
	}
	defer resp.Body.Close()

	var out model.ShareResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBytes)).Decode(&out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, newStatusError(resp)
		}
		return nil, fmt.Errorf("decode share response: %w", err)
	}

	return &out, nil
}

// FetchPage retrieves a backend page (the search page or a shared result page).
// path is resolved against the backend origin unless it is absolute.
func (c *Client) FetchPage(ctx context.Context, auth Auth, path string) ([]byte, error) {
	target := path
	if u, err := url.Parse(path); err != nil || !u.IsAbs() {
		target = c.cfg.Resolve(path)
	}

	req, err := c.newRequest(ctx, http.MethodGet, target, nil, auth)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Health probes the query service
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.cfg.HealthEndpoint(), nil, Auth{})
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err != nil {
		return fmt.Errorf("decode health: %w", err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("query service status %q", body.Status)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader, auth Auth) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for _, ck := range auth.Cookies {
		req.AddCookie(ck)
	}
	return req, nil
}
