package directory

import (
	"context"
	"errors"
	"time"

	"cardpark/internal/domain"
)

var (
	ErrCodeNotFound     = errors.New("code not found")
	ErrAlreadyClaimed   = errors.New("code already claimed")
	ErrDuplicateEmail   = errors.New("email already in use")
	ErrPermissionDenied = errors.New("directory permission denied")
)

// Client is the directory contract: point lookup by code and a
// conditional claim that only succeeds while the slot is still vacant.
// Implementations must make Claim a compare-and-set on is_used so a
// concurrent claim loses with ErrAlreadyClaimed instead of clobbering.
type Client interface {
	Get(ctx context.Context, code string) (*domain.AccessCode, error)
	Claim(ctx context.Context, code string, p domain.Profile, at time.Time) (*domain.AccessCode, error)
}

// Provisioner creates vacant slots. Provisioning happens out of band
// in production; the local backend implements it for dev and tests.
type Provisioner interface {
	Provision(ctx context.Context, code string) error
}

func claimColumns(p domain.Profile, at time.Time) map[string]any {
	return map[string]any{
		"is_used":            true,
		"first_name":         p.FirstName,
		"last_name":          p.LastName,
		"email":              p.Email,
		"phone":              p.Phone,
		"company":            p.Company,
		"title":              p.Title,
		"location":           p.Location,
		"bio":                p.Bio,
		"linked_in":          p.LinkedIn,
		"profile_created_at": at.UTC(),
	}
}
