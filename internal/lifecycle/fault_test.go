package lifecycle

import (
	"errors"
	"fmt"
	"testing"

	"cardpark/internal/directory"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", &ValidationError{Field: "email", Reason: "required"}, KindValidation},
		{"wrapped validation", fmt.Errorf("claim: %w", &ValidationError{Field: "email"}), KindValidation},
		{"not found", directory.ErrCodeNotFound, KindInvalidCode},
		{"already claimed", directory.ErrAlreadyClaimed, KindAlreadyClaimed},
		{"duplicate email", fmt.Errorf("write: %w", directory.ErrDuplicateEmail), KindDuplicateEmail},
		{"permission denied", directory.ErrPermissionDenied, KindPermissionDenied},
		{"unknown is transient", errors.New("connection reset"), KindTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "email", Reason: "required"}
	if err.Error() != "validation failed on email: required" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
