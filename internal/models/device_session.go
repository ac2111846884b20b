package models

import (
	"time"
)

// MaxDeviceSessions is the per-user cap on trusted device rows. When a new
// fingerprint logs in at the cap, the oldest-created rows are evicted.
const MaxDeviceSessions = 2

// DeviceSession represents one trusted device/browser for a user, keyed by
// a fingerprint derived from user-agent and IP.
type DeviceSession struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	DeviceHash   string    `json:"device_hash"`
	UserAgent    string    `json:"user_agent"`
	IPAddress    string    `json:"ip_address"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}
