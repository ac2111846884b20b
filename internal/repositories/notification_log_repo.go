package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/arjunmehra/coursegate/internal/database"
	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationLogRepository records outbound delivery attempts
type NotificationLogRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationLogRepository creates a new NotificationLogRepository
func NewNotificationLogRepository(db *database.DB) *NotificationLogRepository {
	return &NotificationLogRepository{pool: db.Pool}
}

// Create inserts one delivery record. Callers treat failures as
// best-effort: a logging insert must never fail the login flow.
func (r *NotificationLogRepository) Create(ctx context.Context, log *models.NotificationLog) error {
	log.ID = uuid.New().String()
	log.CreatedAt = time.Now()

	var userID *string
	if log.UserID != "" {
		userID = &log.UserID
	}
	var errText *string
	if log.Error != "" {
		errText = &log.Error
	}

	query := `
		INSERT INTO notification_logs (id, user_id, channel, subject, recipient, success, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		log.ID, userID, log.Channel, log.Subject, log.Recipient, log.Success, errText, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification log: %w", err)
	}

	return nil
}
