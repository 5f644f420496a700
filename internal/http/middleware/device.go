package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cardpark/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const deviceIDContextKey contextKey = "device_id"

const deviceCookieName = "cardpark_device"

// DeviceTokenManager signs and verifies the device identity cookie.
// The token carries nothing but a random device id; sessions
// themselves stay server-side.
type DeviceTokenManager struct {
	secret []byte
	ttl    time.Duration
}

type deviceClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func NewDeviceTokenManager(secret string, ttl time.Duration) *DeviceTokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DeviceTokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *DeviceTokenManager) Sign(deviceID string) (string, error) {
	claims := deviceClaims{
		TokenType: "device",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cardpark",
			Subject:   deviceID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *DeviceTokenManager) Parse(raw string) (string, error) {
	claims := &deviceClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing algorithm")
		}
		return m.secret, nil
	}, jwt.WithIssuer("cardpark"))
	if err != nil {
		return "", err
	}
	if !tok.Valid || claims.TokenType != "device" || claims.Subject == "" {
		return "", errors.New("invalid device token")
	}
	return claims.Subject, nil
}

// DeviceSession guarantees every request downstream carries a device
// id: a valid cookie is reused, anything else gets a fresh identity
// and a new signed cookie. Requests are never rejected here; an
// unknown device is simply a device with no session yet.
func DeviceSession(mgr *DeviceTokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := ""
			if raw := GetCookie(r, deviceCookieName); raw != "" {
				id, err := mgr.Parse(raw)
				if err != nil {
					observability.RecordDeviceTokenValidation(r.Context(), "invalid")
				} else {
					observability.RecordDeviceTokenValidation(r.Context(), "valid")
					deviceID = id
				}
			} else {
				observability.RecordDeviceTokenValidation(r.Context(), "missing")
			}

			if deviceID == "" {
				deviceID = uuid.NewString()
				if signed, err := mgr.Sign(deviceID); err == nil {
					http.SetCookie(w, &http.Cookie{
						Name:     deviceCookieName,
						Value:    signed,
						Path:     "/",
						MaxAge:   int(mgr.ttl.Seconds()),
						HttpOnly: true,
						SameSite: http.SameSiteLaxMode,
					})
				}
			}

			ctx := context.WithValue(r.Context(), deviceIDContextKey, deviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func DeviceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(deviceIDContextKey).(string)
	return id, ok && id != ""
}

func GetCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
