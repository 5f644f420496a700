package lifecycle

import (
	"regexp"
	"strings"
)

const CodeLength = 5

var (
	codePattern  = regexp.MustCompile(`^[A-Z0-9]{5}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizeCode uppercases and trims a candidate code. Codes are
// case-insensitive from the user's perspective.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidCode reports whether a normalized code is structurally valid:
// exactly five uppercase alphanumerics.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// ValidEmail checks the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func (in *ClaimInput) validate() error {
	if !in.TOSAccepted {
		return &ValidationError{Field: "tos_accepted", Reason: "terms of service must be accepted"}
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return &ValidationError{Field: "first_name", Reason: "required"}
	}
	if strings.TrimSpace(in.LastName) == "" {
		return &ValidationError{Field: "last_name", Reason: "required"}
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return &ValidationError{Field: "email", Reason: "required"}
	}
	if !ValidEmail(email) {
		return &ValidationError{Field: "email", Reason: "must look like local@domain.tld"}
	}
	return nil
}
