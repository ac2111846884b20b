package services

import (
	"context"
	"time"

	"github.com/arjunmehra/coursegate/internal/models"
)

// Repository interfaces consumed by the services. Defined here so tests can
// substitute deterministic in-memory fakes; no service touches a global
// storage handle.

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertByEmail(ctx context.Context, email string) (*models.User, error)
	MarkVerifiedLogin(ctx context.Context, email string, at time.Time) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
}

// OtpTokenRepository defines the interface for OTP token data access
type OtpTokenRepository interface {
	Replace(ctx context.Context, token *models.OtpToken) (*models.OtpToken, error)
	GetLatestByEmail(ctx context.Context, email, otpContext string) (*models.OtpToken, error)
	IncrementAttempts(ctx context.Context, id string) error
	DeleteByEmail(ctx context.Context, email, otpContext string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// DeviceSessionRepository defines the interface for trusted device data access
type DeviceSessionRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.DeviceSession, error)
	Create(ctx context.Context, session *models.DeviceSession) (*models.DeviceSession, error)
	Refresh(ctx context.Context, id, userAgent, ipAddress string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByUserAndHash(ctx context.Context, userID, deviceHash string) error
}

// NotificationLogRepository defines the interface for delivery records
type NotificationLogRepository interface {
	Create(ctx context.Context, log *models.NotificationLog) error
}
