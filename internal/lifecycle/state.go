package lifecycle

import "cardpark/internal/domain"

// Status is the outcome of resolving a code.
type Status string

const (
	StatusVacant   Status = "vacant"
	StatusOccupied Status = "occupied"
	StatusInvalid  Status = "invalid"
	StatusError    Status = "error"
)

// CodeState is the resolved lifecycle state of a code. Constructors
// are the only way states are built, so an occupied state always
// carries a profile and the other states never do.
type CodeState struct {
	Status  Status          `json:"status"`
	Code    string          `json:"code,omitempty"`
	Profile *domain.Profile `json:"profile,omitempty"`
	Message string          `json:"message,omitempty"`
}

func Vacant(code string) CodeState {
	return CodeState{Status: StatusVacant, Code: code}
}

func Occupied(code string, p *domain.Profile) CodeState {
	return CodeState{Status: StatusOccupied, Code: code, Profile: p}
}

func Invalid() CodeState {
	return CodeState{Status: StatusInvalid}
}

// TransientError marks a retryable lookup failure. Callers may invoke
// Resolve again; Invalid is the terminal no-such-code outcome.
func TransientError(msg string) CodeState {
	return CodeState{Status: StatusError, Message: msg}
}
