package models

import (
	"time"
)

// Notification channels.
const (
	ChannelEmail = "EMAIL"
	ChannelSMS   = "SMS"
)

// NotificationLog records one outbound delivery attempt. Writing it is
// best-effort; a failed insert never fails the surrounding request.
type NotificationLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Channel   string    `json:"channel"`
	Subject   string    `json:"subject"`
	Recipient string    `json:"recipient"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
