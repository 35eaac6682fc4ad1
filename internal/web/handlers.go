package web

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ppiankov/factview/internal/backend"
	"github.com/ppiankov/factview/internal/page"
	"github.com/ppiankov/factview/internal/search"
	"github.com/ppiankov/factview/internal/session"
	"github.com/ppiankov/factview/internal/share"
	"github.com/ppiankov/factview/internal/view"
)

const sessionMaxAge = 7 * 24 * 60 * 60

// Header constants.
const (
	headerContentType = "Content-Type"
	contentTypeHTML   = "text/html; charset=utf-8"
)

func (s *Server) handleIndex(c *gin.Context) {
	id := s.sessionID(c)
	attrs, _, _ := s.backendAttrs(c)

	st, err := s.sessions.LoadOrNew(id)
	if err != nil {
		s.logger.Warn().Err(err).Msg("load session")
		st = &session.State{}
	}

	p := view.NewPage()
	if query, r := st.Snapshot(); r != nil {
		// Show the last recognized result again
		view.NewRenderer(s.builder, nil).Render(p, *r, query)
		p.QueryInput = query
	}

	s.renderPage(c, http.StatusOK, p, attrs, nil)
}

func (s *Server) handleSearch(c *gin.Context) {
	if !s.limiter.Allow(c.ClientIP()) {
		DeniedTotal.WithLabelValues(ReasonRateLimited).Inc()
		s.renderError(c, http.StatusTooManyRequests, "Too Many Requests", "Please wait before trying again.")
		return
	}

	id := s.sessionID(c)
	query := c.PostForm("query")
	sources := c.PostFormArray("sources")

	attrs, auth, fetched := s.backendAttrs(c)
	// Without the page the credential phase decides
	authenticated := attrs.IsAuthenticated || !fetched

	st, err := s.sessions.LoadOrNew(id)
	if err != nil {
		s.logger.Warn().Err(err).Msg("load session")
		st = &session.State{}
	}

	p := view.NewPage()
	p.QueryInput = strings.TrimSpace(query)
	o := search.New(s.client, view.NewRenderer(s.builder, st), p,
		search.WithAuth(auth),
		search.WithGuard(s.guard, id),
		search.WithLogger(s.logger),
	)

	_, err = o.Submit(c.Request.Context(), query, sources, authenticated)
	if errors.Is(err, search.ErrSubmissionInFlight) {
		DeniedTotal.WithLabelValues(ReasonInFlight).Inc()
		s.renderError(c, http.StatusConflict, "Search In Progress", "A search is already running for this session.")
		return
	}

	if err := s.sessions.Save(id, st); err != nil {
		s.logger.Error().Err(err).Msg("save session")
	}

	s.renderPage(c, http.StatusOK, p, attrs, sources)
}

func (s *Server) handleShare(c *gin.Context) {
	id := s.sessionID(c)
	isPublic := c.PostForm("is_public") == "true"

	attrs, auth, _ := s.backendAttrs(c)

	st, err := s.sessions.LoadOrNew(id)
	if err != nil {
		s.logger.Warn().Err(err).Msg("load session")
		st = &session.State{}
	}

	p := view.NewPage()
	renderer := view.NewRenderer(s.builder, st)
	if query, r := st.Snapshot(); r != nil {
		renderer.Render(p, *r, query)
		p.QueryInput = query
	}

	ctrl := share.NewController(s.client, renderer, st, auth, s.publicOrigin(c), s.logger)
	err = ctrl.Share(c.Request.Context(), p, isPublic)
	switch {
	case errors.Is(err, share.ErrNothingToShare):
		ShareTotal.WithLabelValues("share", "nothing").Inc()
	case err != nil:
		ShareTotal.WithLabelValues("share", "error").Inc()
	case p.Status.Error:
		ShareTotal.WithLabelValues("share", "declined").Inc()
	default:
		ShareTotal.WithLabelValues("share", "ok").Inc()
	}

	s.renderPage(c, http.StatusOK, p, attrs, nil)
}

func (s *Server) handleShared(c *gin.Context) {
	id := s.sessionID(c)
	auth := s.forwardAuth(c)

	body, err := s.client.FetchPage(c.Request.Context(), auth, "/shared"+c.Param("path"))
	if err != nil {
		if backend.IsStatus(err, http.StatusNotFound) {
			s.renderError(c, http.StatusNotFound, "Not Found", "This shared result does not exist or is private.")
			return
		}
		s.logger.Error().Err(err).Msg("fetch shared page")
		s.renderError(c, http.StatusBadGateway, "Bad Gateway", "The shared result could not be loaded.")
		return
	}

	attrs, err := page.Extract(bytes.NewReader(body))
	if err != nil {
		s.renderError(c, http.StatusBadGateway, "Bad Gateway", "The shared result page could not be read.")
		return
	}
	auth.CSRFToken = attrs.CSRFToken

	st := &session.State{}
	p := view.NewPage()
	ctrl := share.NewController(s.client, view.NewRenderer(s.builder, st), st, auth, s.publicOrigin(c), s.logger)

	switch err := ctrl.Restore(p, attrs); {
	case errors.Is(err, share.ErrNotSharedView):
		ShareTotal.WithLabelValues("restore", "not_shared").Inc()
		s.renderError(c, http.StatusNotFound, "Not Found", "This page is not a shared result.")
		return
	case err != nil:
		ShareTotal.WithLabelValues("restore", "decode_error").Inc()
	default:
		ShareTotal.WithLabelValues("restore", "ok").Inc()
		if !st.Empty() {
			if err := s.sessions.Save(id, st); err != nil {
				s.logger.Error().Err(err).Msg("save session")
			}
		}
	}

	s.renderPage(c, http.StatusOK, p, attrs, nil)
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.client.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// sessionID returns the front end session id, issuing one when absent
func (s *Server) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(s.cfg.Server.CookieName); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.Server.CookieName, id, sessionMaxAge, "/", "", c.Request.TLS != nil, true)
	return id
}

// forwardAuth passes the browser's backend cookies through, minus our own
func (s *Server) forwardAuth(c *gin.Context) backend.Auth {
	var auth backend.Auth
	for _, ck := range c.Request.Cookies() {
		if ck.Name != s.cfg.Server.CookieName {
			auth.Cookies = append(auth.Cookies, ck)
		}
	}
	return auth
}

// backendAttrs reads the backend search page as the caller: its auth flag and CSRF token
func (s *Server) backendAttrs(c *gin.Context) (page.Attributes, backend.Auth, bool) {
	auth := s.forwardAuth(c)

	body, err := s.client.FetchPage(c.Request.Context(), auth, s.cfg.Backend.SearchPagePath)
	if err != nil {
		s.logger.Warn().Err(err).Msg("fetch backend search page")
		return page.Attributes{}, auth, false
	}

	attrs, err := page.Extract(bytes.NewReader(body))
	if err != nil {
		s.logger.Warn().Err(err).Msg("parse backend search page")
		return page.Attributes{}, auth, false
	}
	auth.CSRFToken = attrs.CSRFToken
	return attrs, auth, true
}

func (s *Server) publicOrigin(c *gin.Context) string {
	if s.cfg.Server.PublicURL != "" {
		return s.cfg.Server.PublicURL
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func (s *Server) renderPage(c *gin.Context, code int, p *view.Page, attrs page.Attributes, selected []string) {
	data, err := newPageData(p)
	if err != nil {
		s.logger.Error().Err(err).Msg("render results")
		s.renderError(c, http.StatusInternalServerError, "Error", "Failed to render results.")
		return
	}
	data.IsAuthenticated = attrs.IsAuthenticated
	data.IsSharedView = attrs.IsSharedView
	data.Sources = s.sourceOptions(selected)

	c.Header("Cache-Control", "private, no-store")
	c.Header(headerContentType, contentTypeHTML)
	c.Status(code)
	if err := s.renderer.RenderPage(c.Writer, data); err != nil {
		s.logger.Error().Err(err).Msg("render page")
	}
}

func (s *Server) renderError(c *gin.Context, code int, title, message string) {
	c.Header(headerContentType, contentTypeHTML)
	c.Status(code)
	if err := s.renderer.RenderError(c.Writer, &ErrorData{Code: code, Title: title, Message: message}); err != nil {
		s.logger.Error().Err(err).Msg("render error page")
	}
}

// sourceOptions lists configured sources; all are checked unless a selection was submitted
func (s *Server) sourceOptions(selected []string) []SourceOption {
	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}

	opts := make([]SourceOption, 0, len(s.cfg.Sources))
	for _, name := range s.cfg.Sources {
		opts = append(opts, SourceOption{Name: name, Checked: len(selected) == 0 || chosen[name]})
	}
	return opts
}
