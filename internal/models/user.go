package models

import (
	"time"
)

// User roles form a closed enum; the database enforces the same set.
const (
	RoleStudent   = "STUDENT"
	RoleAdmin     = "ADMIN"
	RoleAffiliate = "AFFILIATE"
)

type User struct {
	ID            string
	Email         string // normalized: lower-cased, trimmed
	Name          string
	Phone         string // optional, used for the SMS channel
	Role          string
	EmailVerified bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidRole reports whether role is one of the closed enum values.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleAdmin, RoleAffiliate:
		return true
	}
	return false
}
