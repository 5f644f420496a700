// Package lifecycle implements the code lifecycle engine: the pure
// decision logic that maps a code and directory state onto vacant,
// occupied, invalid or error, and the one-time vacant-to-occupied
// claim transition.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cardpark/internal/directory"
	"cardpark/internal/domain"
	"cardpark/internal/observability"
	"cardpark/internal/session"
)

// ClaimInput is the profile submission for a vacant code.
type ClaimInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Company     string `json:"company,omitempty"`
	Title       string `json:"title,omitempty"`
	Location    string `json:"location,omitempty"`
	Bio         string `json:"bio,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty"`
	TOSAccepted bool   `json:"tos_accepted"`
}

func (in *ClaimInput) profile() domain.Profile {
	return domain.Profile{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Company:   strings.TrimSpace(in.Company),
		Title:     strings.TrimSpace(in.Title),
		Location:  strings.TrimSpace(in.Location),
		Bio:       strings.TrimSpace(in.Bio),
		LinkedIn:  strings.TrimSpace(in.LinkedIn),
	}
}

type Engine struct {
	dir        directory.Client
	sessions   session.Store
	sessionTTL time.Duration
	now        func() time.Time
}

func NewEngine(dir directory.Client, sessions session.Store, sessionTTL time.Duration) *Engine {
	if sessionTTL <= 0 {
		sessionTTL = domain.DefaultSessionTTL
	}
	return &Engine{dir: dir, sessions: sessions, sessionTTL: sessionTTL, now: time.Now}
}

// Resolve maps a candidate code onto its lifecycle state. Structurally
// invalid codes and unknown codes are Invalid; transient backend
// failures are Error and may be retried.
func (e *Engine) Resolve(ctx context.Context, raw string) CodeState {
	code := NormalizeCode(raw)
	if !ValidCode(code) {
		observability.RecordCodeResolution(ctx, "invalid_shape")
		return Invalid()
	}
	rec, err := e.dir.Get(ctx, code)
	if err != nil {
		if errors.Is(err, directory.ErrCodeNotFound) {
			observability.RecordCodeResolution(ctx, "invalid")
			return Invalid()
		}
		observability.RecordCodeResolution(ctx, "error")
		return TransientError(err.Error())
	}
	if !rec.Occupied() {
		observability.RecordCodeResolution(ctx, "vacant")
		return Vacant(code)
	}
	observability.RecordCodeResolution(ctx, "occupied")
	return Occupied(code, rec.Profile())
}

// Claim attaches a profile to a vacant code. Validation runs before
// any I/O; the write is conditional on the slot still being vacant, so
// a lost race surfaces as ErrAlreadyClaimed. On success the device
// session is rewritten with the new identity and a fresh validity
// window. Claim never retries itself.
func (e *Engine) Claim(ctx context.Context, rawCode string, in ClaimInput, sess *domain.Session) (*domain.AccessCode, *domain.Session, error) {
	code := NormalizeCode(rawCode)
	if !ValidCode(code) {
		return nil, sess, &ValidationError{Field: "code", Reason: fmt.Sprintf("must be exactly %d alphanumeric characters", CodeLength)}
	}
	if err := in.validate(); err != nil {
		observability.RecordClaimAttempt(ctx, "validation_failed")
		return nil, sess, err
	}

	// Re-fetch right before writing so an already-won race fails with
	// a precise error instead of a generic write rejection. The
	// conditional update below is what actually prevents a double
	// claim.
	current, err := e.dir.Get(ctx, code)
	if err != nil {
		if errors.Is(err, directory.ErrCodeNotFound) {
			observability.RecordClaimAttempt(ctx, "not_found")
			return nil, sess, directory.ErrCodeNotFound
		}
		observability.RecordClaimAttempt(ctx, "error")
		return nil, sess, fmt.Errorf("claim precheck: %w", err)
	}
	if current.Occupied() {
		observability.RecordClaimAttempt(ctx, "already_claimed")
		return nil, sess, directory.ErrAlreadyClaimed
	}

	now := e.now()
	rec, err := e.dir.Claim(ctx, code, in.profile(), now)
	if err != nil {
		observability.RecordClaimAttempt(ctx, string(Classify(err)))
		return nil, sess, err
	}

	profile := rec.Profile()
	if sess == nil {
		sess = domain.NewSession("", now, e.sessionTTL)
	}
	sess.OwnedCode = code
	sess.DisplayName = profile.DisplayName()
	sess.Email = profile.Email
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(e.sessionTTL)
	if sess.DeviceID != "" {
		if err := e.sessions.Save(ctx, sess); err != nil {
			// The claim itself committed; a session write failure must
			// not undo or mask it.
			observability.RecordClaimAttempt(ctx, "session_save_failed")
			return rec, sess, nil
		}
	}
	observability.RecordClaimAttempt(ctx, "success")
	return rec, sess, nil
}

// ToggleFavorite flips a code in the session's starred set and
// persists the session. Favoriting needs no prior claim; calling twice
// restores the original set. No directory call is made.
func (e *Engine) ToggleFavorite(ctx context.Context, rawCode string, sess *domain.Session) (*domain.Session, error) {
	code := NormalizeCode(rawCode)
	if !ValidCode(code) {
		return sess, &ValidationError{Field: "code", Reason: fmt.Sprintf("must be exactly %d alphanumeric characters", CodeLength)}
	}
	if sess == nil {
		return nil, errors.New("toggle favorite: nil session")
	}
	sess.ToggleStar(code)
	if err := e.sessions.Save(ctx, sess); err != nil {
		return sess, fmt.Errorf("toggle favorite: %w", err)
	}
	if sess.Starred(code) {
		observability.RecordFavoriteToggle(ctx, "starred")
	} else {
		observability.RecordFavoriteToggle(ctx, "unstarred")
	}
	return sess, nil
}
