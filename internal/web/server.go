// Package web serves the search page: query submission, sharing and shared-view
// restore, rendered server-side from the same view tree the CLI uses.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ppiankov/factview/internal/backend"
	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/search"
	"github.com/ppiankov/factview/internal/session"
	"github.com/ppiankov/factview/internal/view"
	"github.com/ppiankov/factview/internal/worker"
)

// Server is the web front end
type Server struct {
	cfg      *model.Config
	client   *backend.Client
	sessions *session.Store
	guard    *search.Guard
	limiter  *worker.Limiter
	renderer *Renderer
	builder  view.Builder
	logger   *zerolog.Logger
	engine   *gin.Engine
}

// New creates the server and its routes
func New(cfg *model.Config, client *backend.Client, sessions *session.Store, logger *zerolog.Logger) (*Server, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		client:   client,
		sessions: sessions,
		guard:    search.NewGuard(),
		limiter:  worker.NewPerMinuteLimiter(cfg.Server.SubmissionsPerMinute, 5),
		renderer: renderer,
		builder:  view.Builder{Icons: view.DefaultIcons},
		logger:   logger,
	}

	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(gin.Recovery(), s.requestLogger())
	if len(cfg.Server.AllowedOrigins) > 0 {
		g.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	s.attachRoutes(g)
	s.engine = g

	return s, nil
}

func (s *Server) attachRoutes(g *gin.Engine) {
	g.GET("/", s.handleIndex)
	g.POST("/search", s.handleSearch)
	g.POST("/share", s.handleShare)
	g.GET("/shared/*path", s.handleShared)
	g.GET("/healthz", s.handleHealth)
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))
	g.StaticFS("/static", http.FS(staticFiles()))
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("web front end listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info().Msg("shutting down web front end")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		LatencyHistogram.WithLabelValues(route).Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(route, fmt.Sprintf("%d", status)).Inc()

		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
