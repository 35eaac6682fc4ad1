// Package share persists the current result for sharing, restores shared
// results into a page and copies share links.
package share

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ppiankov/factview/internal/backend"
	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/page"
	"github.com/ppiankov/factview/internal/result"
	"github.com/ppiankov/factview/internal/session"
	"github.com/ppiankov/factview/internal/view"
)

var (
	// ErrNothingToShare is returned by Share before any recognized render
	ErrNothingToShare = errors.New("no result to share")
	// ErrNotSharedView is returned by Restore for a page not flagged as a shared view
	ErrNotSharedView = errors.New("page is not a shared view")
)

// Status line text
const (
	SaveErrorPrefix    = "Error saving result: "
	RestoreErrorPrefix = "Error displaying shared result: "
	CopiedMessage      = "Link copied to clipboard!"
)

// Saver persists shared result records
type Saver interface {
	SaveSharedResult(ctx context.Context, auth backend.Auth, rec model.SharedResultRecord) (*model.ShareResponse, error)
}

// Controller shares from and restores into one session's state
type Controller struct {
	saver    Saver
	renderer *view.Renderer
	state    *session.State
	auth     backend.Auth
	origin   string
	logger   *zerolog.Logger
}

// NewController creates a controller. Share links are origin + the backend's shared_url.
func NewController(saver Saver, renderer *view.Renderer, state *session.State, auth backend.Auth, origin string, logger *zerolog.Logger) *Controller {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Controller{
		saver:    saver,
		renderer: renderer,
		state:    state,
		auth:     auth,
		origin:   model.Origin(origin),
		logger:   logger,
	}
}

// Share persists the current query and result. Without both it does nothing
// and returns ErrNothingToShare. A previously shown link survives failures.
func (c *Controller) Share(ctx context.Context, p *view.Page, isPublic bool) error {
	query, r := c.state.Snapshot()
	if query == "" || r == nil {
		return ErrNothingToShare
	}

	resp, err := c.saver.SaveSharedResult(ctx, c.auth, model.SharedResultRecord{
		Query:      query,
		ResultData: r.Raw,
		IsPublic:   isPublic,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("save shared result failed")
		p.SetStatus(SaveErrorPrefix+err.Error(), true)
		return err
	}

	if !resp.Success {
		c.logger.Info().Str("message", resp.Message).Msg("backend declined share")
		p.SetStatus(resp.Message, true)
		return nil
	}

	p.RevealShareLink(c.origin + resp.SharedURL)
	p.SetStatus(resp.Message, false)
	c.logger.Info().Bool("public", isPublic).Str("shared_url", resp.SharedURL).Msg("result shared")
	return nil
}

// Restore renders the shared result embedded in a page and pre-fills the query
// input. A decode failure shows an inline error and is returned.
func (c *Controller) Restore(p *view.Page, attrs page.Attributes) error {
	if !attrs.IsSharedView {
		return ErrNotSharedView
	}
	if attrs.SharedResult == "" {
		return nil
	}

	raw, err := DecodeEmbedded(attrs.SharedResult)
	if err != nil {
		c.logger.Warn().Err(err).Msg("shared result does not decode")
		p.ShowError(RestoreErrorPrefix + err.Error())
		return err
	}

	c.renderer.Render(p, result.Classify(raw), attrs.SharedQuery)
	if attrs.SharedQuery != "" {
		p.QueryInput = attrs.SharedQuery
	}
	return nil
}

// CopyLink copies the share link and always reports success
func (c *Controller) CopyLink(p *view.Page, clip Clipboard) {
	if err := clip.WriteAll(p.ShareLink); err != nil {
		c.logger.Debug().Err(err).Msg("clipboard copy failed")
	}
	p.SetStatus(CopiedMessage, false)
}
