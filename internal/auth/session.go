package auth

import (
	"time"

	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionManager issues and validates the self-contained session credential
// bound to (userId, role, deviceHash). The signing secret is injected at
// construction; there is no package-level state.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager creates a SessionManager. Callers must have validated
// the secret already (config treats a missing secret as fatal).
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the session lifetime, used for the cookie MaxAge.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// Issue signs a session token embedding the user identity, role and device
// fingerprint with an absolute expiry.
func (sm *SessionManager) Issue(userID, role, deviceHash string) (string, error) {
	now := time.Now()
	claims := &models.SessionClaims{
		UserID:     userID,
		Role:       role,
		DeviceHash: deviceHash,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sm.secret)
}

// Validate verifies signature and expiry in one step. Every failure mode
// (bad signature, malformed payload, expired) returns the same
// ErrUnauthorized so callers cannot distinguish tamper from expiry.
func (sm *SessionManager) Validate(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.ErrUnauthorized
		}
		return sm.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthorized
	}

	if claims.UserID == "" || claims.DeviceHash == "" {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}
