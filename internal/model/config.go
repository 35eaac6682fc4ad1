package model

import (
	"strings"
	"time"
)

// Config holds the complete factview configuration
type Config struct {
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`
	Auth    AuthConfig    `yaml:"auth" mapstructure:"auth"`
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Sources []string      `yaml:"sources" mapstructure:"sources"`
}

// BackendConfig locates the backend collaborator endpoints
type BackendConfig struct {
	BaseURL             string `yaml:"base_url" mapstructure:"base_url"`   // Page origin: credentials, sharing, shared pages
	QueryURL            string `yaml:"query_url" mapstructure:"query_url"` // Query service root; "/query" is appended
	RewriteInternalHost bool   `yaml:"rewrite_internal_host" mapstructure:"rewrite_internal_host"`
	APIKeyPath          string `yaml:"api_key_path" mapstructure:"api_key_path"`
	SharePath           string `yaml:"share_path" mapstructure:"share_path"`
	SearchPagePath      string `yaml:"search_page_path" mapstructure:"search_page_path"`
}

// AuthConfig carries the browser-session credentials used by the CLI
type AuthConfig struct {
	SessionCookie string `yaml:"session_cookie" mapstructure:"session_cookie"`
	CookieName    string `yaml:"cookie_name" mapstructure:"cookie_name"`
	CSRFToken     string `yaml:"csrf_token" mapstructure:"csrf_token"`
}

// HTTPConfig tunes the outbound HTTP client
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RatePerMinute float64       `yaml:"rate_per_minute" mapstructure:"rate_per_minute"`
	Burst         int           `yaml:"burst" mapstructure:"burst"`
	HostRates     []HostRate    `yaml:"host_rates,omitempty" mapstructure:"host_rates"` // Per-host overrides of rate_per_minute
	Proxy         string        `yaml:"proxy" mapstructure:"proxy"`
}

// HostRate overrides the query throttle for one host. A non-positive rate
// lifts the limit; a non-positive burst uses http.burst.
type HostRate struct {
	Host      string  `yaml:"host" mapstructure:"host"`
	PerMinute float64 `yaml:"per_minute" mapstructure:"per_minute"`
	Burst     int     `yaml:"burst,omitempty" mapstructure:"burst"`
}

// SessionConfig selects where the current query/result pair is kept between runs
type SessionConfig struct {
	Store    string        `yaml:"store" mapstructure:"store"` // disk, memory, redis
	Dir      string        `yaml:"dir" mapstructure:"dir"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	RedisURL string        `yaml:"redis_url" mapstructure:"redis_url"`
}

// ServerConfig configures the web front end
type ServerConfig struct {
	Addr                 string   `yaml:"addr" mapstructure:"addr"`
	PublicURL            string   `yaml:"public_url" mapstructure:"public_url"` // Origin for share links; derived from the request when empty
	CookieName           string   `yaml:"cookie_name" mapstructure:"cookie_name"`
	AllowedOrigins       []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	SubmissionsPerMinute float64  `yaml:"submissions_per_minute" mapstructure:"submissions_per_minute"`
}

// LogConfig configures zerolog output
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:             "http://localhost:8000",
			QueryURL:            "http://api:8000",
			RewriteInternalHost: true,
			APIKeyPath:          "/api/api-keys/",
			SharePath:           "/api/save-shared-result/",
			SearchPagePath:      "/search/",
		},
		Auth: AuthConfig{
			CookieName: "sessionid",
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "factview/0.1 (+https://github.com/ppiankov/factview)",
			MaxBodyBytes:  8 << 20,
			RatePerMinute: 20,
			Burst:         5,
		},
		Session: SessionConfig{
			Store: "disk",
			TTL:   7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:                 ":8080",
			CookieName:           "factview_session",
			SubmissionsPerMinute: 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Sources: []string{"wikipedia"},
	}
}

// internalQueryHost is the docker-network address of the query service
const internalQueryHost = "api:8000"

// browserQueryHost is where the query service is published on the host
const browserQueryHost = "localhost:8001"

// QueryEndpoint returns the absolute URL of the query endpoint
func (b BackendConfig) QueryEndpoint() string {
	base := b.QueryURL
	if b.RewriteInternalHost && strings.Contains(base, internalQueryHost) {
		base = strings.Replace(base, internalQueryHost, browserQueryHost, 1)
	}
	return strings.TrimRight(base, "/") + "/query"
}

// HealthEndpoint returns the query service health probe URL
func (b BackendConfig) HealthEndpoint() string {
	return strings.TrimSuffix(b.QueryEndpoint(), "/query") + "/health"
}

// Resolve joins a backend-relative path onto the backend origin
func (b BackendConfig) Resolve(path string) string {
	return Origin(b.BaseURL) + path
}

// Origin trims a trailing slash from a base URL
func Origin(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
