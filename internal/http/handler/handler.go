package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cardpark/internal/domain"
	"cardpark/internal/lifecycle"
	"cardpark/internal/session"

	"github.com/go-chi/chi/v5"
)

// Handler serves both the JSON API and the HTML view surface. The
// engine owns all lifecycle decisions; handlers only translate
// transport.
type Handler struct {
	engine     *lifecycle.Engine
	sessions   session.Store
	sessionTTL time.Duration
	now        func() time.Time
}

func New(engine *lifecycle.Engine, sessions session.Store, sessionTTL time.Duration) *Handler {
	if sessionTTL <= 0 {
		sessionTTL = domain.DefaultSessionTTL
	}
	return &Handler{engine: engine, sessions: sessions, sessionTTL: sessionTTL, now: time.Now}
}

// loadSession returns the device's session or nil when none exists.
func (h *Handler) loadSession(ctx context.Context, deviceID string) (*domain.Session, error) {
	sess, err := h.sessions.Load(ctx, deviceID)
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil
	}
	return sess, err
}

// loadOrNewSession returns the device's session, minting an empty one
// when absent. Favoriting must work without a prior claim.
func (h *Handler) loadOrNewSession(ctx context.Context, deviceID string) (*domain.Session, error) {
	sess, err := h.loadSession(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = domain.NewSession(deviceID, h.now(), h.sessionTTL)
	}
	return sess, nil
}

func pathCode(r *http.Request) string { return chi.URLParam(r, "code") }
