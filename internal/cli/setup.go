package cli

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ppiankov/factview/internal/backend"
	"github.com/ppiankov/factview/internal/cache"
	"github.com/ppiankov/factview/internal/logging"
	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/session"
	"github.com/ppiankov/factview/internal/worker"
)

// cliSessionID keys the command line's saved query and result
const cliSessionID = "cli"

// csrfCookieName is the cookie the backend compares the CSRF header against
const csrfCookieName = "csrftoken"

// setDefaults registers every config key so env variables can override it
func setDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("backend.base_url", d.Backend.BaseURL)
	v.SetDefault("backend.query_url", d.Backend.QueryURL)
	v.SetDefault("backend.rewrite_internal_host", d.Backend.RewriteInternalHost)
	v.SetDefault("backend.api_key_path", d.Backend.APIKeyPath)
	v.SetDefault("backend.share_path", d.Backend.SharePath)
	v.SetDefault("backend.search_page_path", d.Backend.SearchPagePath)

	v.SetDefault("auth.session_cookie", d.Auth.SessionCookie)
	v.SetDefault("auth.cookie_name", d.Auth.CookieName)
	v.SetDefault("auth.csrf_token", d.Auth.CSRFToken)

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", d.HTTP.MaxBodyBytes)
	v.SetDefault("http.rate_per_minute", d.HTTP.RatePerMinute)
	v.SetDefault("http.burst", d.HTTP.Burst)
	v.SetDefault("http.host_rates", d.HTTP.HostRates)
	v.SetDefault("http.proxy", d.HTTP.Proxy)

	v.SetDefault("session.store", d.Session.Store)
	v.SetDefault("session.dir", d.Session.Dir)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("session.redis_url", d.Session.RedisURL)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.public_url", d.Server.PublicURL)
	v.SetDefault("server.cookie_name", d.Server.CookieName)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.submissions_per_minute", d.Server.SubmissionsPerMinute)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("sources", d.Sources)
}

// loadConfig merges defaults, config file and env into a Config
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Session.Dir == "" && cfg.Session.Store != "memory" && cfg.Session.Store != "redis" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}
		cfg.Session.Dir = filepath.Join(home, ".factview", "sessions")
	}
	if v.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *model.Config) *zerolog.Logger {
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	return &logger
}

// newClient builds the backend client with the outbound query throttle
func newClient(cfg *model.Config, logger *zerolog.Logger) (*backend.Client, error) {
	return backend.NewClient(cfg.Backend, backend.Options{
		Timeout:      cfg.HTTP.Timeout,
		UserAgent:    cfg.HTTP.UserAgent,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		Proxy:        cfg.HTTP.Proxy,
		Limiter:      newQueryLimiter(cfg.HTTP),
		Logger:       logger,
	})
}

// newQueryLimiter throttles query calls per host, honouring host overrides
func newQueryLimiter(h model.HTTPConfig) *worker.Limiter {
	l := worker.NewPerMinuteLimiter(h.RatePerMinute, h.Burst)
	for _, hr := range h.HostRates {
		l.SetRate(hr.Host, hr.PerMinute/60, hr.Burst)
	}
	return l
}

func newSessionStore(cfg *model.Config) (*session.Store, error) {
	c, err := cache.New(cache.Options{
		Store:    cfg.Session.Store,
		Dir:      cfg.Session.Dir,
		TTL:      cfg.Session.TTL,
		RedisURL: cfg.Session.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return session.NewStore(c, cfg.Session.TTL), nil
}

// cliAuth turns the configured browser session into backend credentials
func cliAuth(cfg *model.Config) backend.Auth {
	var auth backend.Auth
	if cfg.Auth.SessionCookie != "" {
		auth.Cookies = append(auth.Cookies, &http.Cookie{Name: cfg.Auth.CookieName, Value: cfg.Auth.SessionCookie})
	}
	if cfg.Auth.CSRFToken != "" {
		auth.CSRFToken = cfg.Auth.CSRFToken
		auth.Cookies = append(auth.Cookies, &http.Cookie{Name: csrfCookieName, Value: cfg.Auth.CSRFToken})
	}
	return auth
}

// cliAuthenticated reports whether the CLI holds a browser session
func cliAuthenticated(cfg *model.Config) bool {
	return cfg.Auth.SessionCookie != ""
}

// deps are the collaborators most commands share
type deps struct {
	cfg      *model.Config
	logger   *zerolog.Logger
	client   *backend.Client
	sessions *session.Store
}

func loadDeps() (*deps, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	sessions, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	return &deps{cfg: cfg, logger: logger, client: client, sessions: sessions}, nil
}
