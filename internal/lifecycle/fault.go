package lifecycle

import (
	"errors"
	"fmt"

	"cardpark/internal/directory"
)

// ValidationError reports a claim input that failed a precondition.
// It is raised before any I/O; the offending field is named so the
// caller can render an inline error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Kind buckets engine failures into the taxonomy callers map to
// user-visible behavior.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindInvalidCode      Kind = "invalid_code"
	KindAlreadyClaimed   Kind = "already_claimed"
	KindDuplicateEmail   Kind = "duplicate_email"
	KindPermissionDenied Kind = "permission_denied"
	KindTransient        Kind = "transient"
)

// Classify maps any engine error onto its Kind. Unknown errors are
// transient: the caller may retry, nothing was corrupted.
func Classify(err error) Kind {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, directory.ErrCodeNotFound):
		return KindInvalidCode
	case errors.Is(err, directory.ErrAlreadyClaimed):
		return KindAlreadyClaimed
	case errors.Is(err, directory.ErrDuplicateEmail):
		return KindDuplicateEmail
	case errors.Is(err, directory.ErrPermissionDenied):
		return KindPermissionDenied
	default:
		return KindTransient
	}
}
