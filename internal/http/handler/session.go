package handler

import (
	"net/http"

	"cardpark/internal/http/middleware"
	"cardpark/internal/http/response"
	"cardpark/internal/observability"

	"github.com/go-chi/chi/v5"
)

// Session returns the device's current session, or null data when the
// device has none. Absence is not an error.
// GET /api/v1/session
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	deviceID, _ := middleware.DeviceIDFromContext(r.Context())
	sess, err := h.loadSession(r.Context(), deviceID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "SESSION_UNAVAILABLE", "could not load session", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, sess)
}

// ToggleFavorite flips a code in the device's starred set, creating an
// empty session on first use.
// POST /api/v1/session/favorites/{code}
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	deviceID, _ := middleware.DeviceIDFromContext(r.Context())
	sess, err := h.loadOrNewSession(r.Context(), deviceID)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "SESSION_UNAVAILABLE", "could not load session", nil)
		return
	}

	code := chi.URLParam(r, "code")
	sess, err = h.engine.ToggleFavorite(r.Context(), code, sess)
	if err != nil {
		response.Fault(w, r, err)
		return
	}

	observability.Audit(r, "session.favorite_toggled", "code", code, "device_id", deviceID)
	response.JSON(w, r, http.StatusOK, sess)
}

// SignOut clears the device's session.
// DELETE /api/v1/session
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	deviceID, _ := middleware.DeviceIDFromContext(r.Context())
	if err := h.sessions.Delete(r.Context(), deviceID); err != nil {
		response.Error(w, r, http.StatusInternalServerError, "SESSION_UNAVAILABLE", "could not clear session", nil)
		return
	}
	observability.Audit(r, "session.signed_out", "device_id", deviceID)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "signed_out"})
}
