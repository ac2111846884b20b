package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of the self-contained session credential.
// The token is not looked up server-side: signature plus expiry are the
// whole validity story.
type SessionClaims struct {
	UserID     string `json:"uid"`
	Role       string `json:"role"`
	DeviceHash string `json:"device_hash"`
	jwt.RegisteredClaims
}
