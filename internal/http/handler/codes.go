package handler

import (
	"encoding/json"
	"net/http"

	"cardpark/internal/http/middleware"
	"cardpark/internal/http/response"
	"cardpark/internal/lifecycle"
	"cardpark/internal/observability"

	"github.com/go-chi/chi/v5"
)

// Resolve maps a code onto its lifecycle state.
// GET /api/v1/codes/{code}
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	state := h.engine.Resolve(r.Context(), chi.URLParam(r, "code"))
	switch state.Status {
	case lifecycle.StatusInvalid:
		response.Error(w, r, http.StatusNotFound, "CODE_NOT_FOUND", "no such access code", nil)
	case lifecycle.StatusError:
		response.Error(w, r, http.StatusBadGateway, "DIRECTORY_UNAVAILABLE", "temporary backend failure, retry shortly", nil)
	default:
		response.JSON(w, r, http.StatusOK, state)
	}
}

// Claim attaches a profile to a vacant code and rewrites the device
// session.
// POST /api/v1/codes/{code}/claim
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	var in lifecycle.ClaimInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed claim payload", nil)
		return
	}

	deviceID, _ := middleware.DeviceIDFromContext(r.Context())
	sess, err := h.loadOrNewSession(r.Context(), deviceID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "SESSION_UNAVAILABLE", "could not load session", nil)
		return
	}

	code := chi.URLParam(r, "code")
	rec, sess, err := h.engine.Claim(r.Context(), code, in, sess)
	if err != nil {
		response.Fault(w, r, err)
		return
	}

	observability.Audit(r, "code.claimed", "code", rec.Code, "device_id", deviceID)
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"state":   lifecycle.Occupied(rec.Code, rec.Profile()),
		"session": sess,
	})
}
