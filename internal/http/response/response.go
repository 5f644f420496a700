package response

import (
	"encoding/json"
	"net/http"
	"time"

	"cardpark/internal/lifecycle"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
	Meta    meta        `json:"meta"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type meta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data, Meta: buildMeta(r)})
}

func Error(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: &apiError{Code: code, Message: message, Details: details}, Meta: buildMeta(r)})
}

// Fault writes an engine failure using the lifecycle taxonomy. Every
// kind maps to a stable status and error code so the client never sees
// a raw fault.
func Fault(w http.ResponseWriter, r *http.Request, err error) {
	kind := lifecycle.Classify(err)
	switch kind {
	case lifecycle.KindValidation:
		Error(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error(), nil)
	case lifecycle.KindInvalidCode:
		Error(w, r, http.StatusNotFound, "CODE_NOT_FOUND", "no such access code", nil)
	case lifecycle.KindAlreadyClaimed:
		Error(w, r, http.StatusConflict, "ALREADY_CLAIMED", "this code has already been claimed", nil)
	case lifecycle.KindDuplicateEmail:
		Error(w, r, http.StatusConflict, "DUPLICATE_EMAIL", "this email is already attached to another code", nil)
	case lifecycle.KindPermissionDenied:
		Error(w, r, http.StatusForbidden, "FORBIDDEN", "the directory rejected the operation", nil)
	default:
		Error(w, r, http.StatusBadGateway, "DIRECTORY_UNAVAILABLE", "temporary backend failure, retry shortly", nil)
	}
}

func buildMeta(r *http.Request) meta {
	id := chimiddleware.GetReqID(r.Context())
	if id == "" {
		id = r.Header.Get("X-Request-Id")
	}
	if id == "" {
		id = "req-unknown"
	}
	return meta{RequestID: id, Timestamp: time.Now().UTC()}
}
