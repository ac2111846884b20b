package models

import (
	"time"
)

// OTP contexts distinguish login codes from codes issued for other purposes
// so they never collide in storage.
const (
	OtpContextLogin = "LOGIN"
)

// OtpToken is an ephemeral credential-issuance record. Only the bcrypt hash
// of the code is ever stored; at most one live token exists per
// (email, context) pair.
type OtpToken struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	UserID    string    `json:"user_id"`
	CodeHash  string    `json:"-"` // never expose the hash
	Context   string    `json:"context"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired checks if the token has expired.
func (t *OtpToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
