package domain

import "time"

const DefaultSessionTTL = 24 * time.Hour

// Session is the device-local record of the code a device claimed and
// the codes it starred. It lives in the session store only and is
// never written to the directory.
type Session struct {
	DeviceID     string    `json:"device_id"`
	OwnedCode    string    `json:"owned_code,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	Email        string    `json:"email,omitempty"`
	StarredCodes []string  `json:"starred_codes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewSession returns an empty session for a device with a fresh
// validity window.
func NewSession(deviceID string, now time.Time, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Session{
		DeviceID:  deviceID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session's validity window has passed.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !s.ExpiresAt.After(now)
}

// Starred reports whether code is in the starred set.
func (s *Session) Starred(code string) bool {
	if s == nil {
		return false
	}
	for _, c := range s.StarredCodes {
		if c == code {
			return true
		}
	}
	return false
}

// ToggleStar flips membership of code in the starred set. Insertion
// order of the remaining entries is preserved.
func (s *Session) ToggleStar(code string) {
	for i, c := range s.StarredCodes {
		if c == code {
			s.StarredCodes = append(s.StarredCodes[:i], s.StarredCodes[i+1:]...)
			return
		}
	}
	s.StarredCodes = append(s.StarredCodes, code)
}
