package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/arjunmehra/coursegate/internal/database"
	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeviceSessionRepository handles trusted device data access
type DeviceSessionRepository struct {
	pool *pgxpool.Pool
}

// NewDeviceSessionRepository creates a new DeviceSessionRepository
func NewDeviceSessionRepository(db *database.DB) *DeviceSessionRepository {
	return &DeviceSessionRepository{pool: db.Pool}
}

func scanDeviceSessionRow(row rowScanner) (*models.DeviceSession, error) {
	var session models.DeviceSession
	var userAgent, ipAddress *string

	err := row.Scan(
		&session.ID, &session.UserID, &session.DeviceHash,
		&userAgent, &ipAddress, &session.CreatedAt, &session.LastActiveAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if userAgent != nil {
		session.UserAgent = *userAgent
	}
	if ipAddress != nil {
		session.IPAddress = *ipAddress
	}

	return &session, nil
}

func scanDeviceSessionRows(rows pgx.Rows) ([]*models.DeviceSession, error) {
	defer rows.Close()

	sessions := make([]*models.DeviceSession, 0)

	for rows.Next() {
		session, err := scanDeviceSessionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device session rows: %w", err)
	}

	return sessions, nil
}

// ListByUser returns all device sessions for a user, oldest-created first.
// Eviction order depends on this ordering.
func (r *DeviceSessionRepository) ListByUser(ctx context.Context, userID string) ([]*models.DeviceSession, error) {
	query := `
		SELECT id, user_id, device_hash, user_agent, ip_address, created_at, last_active_at
		FROM device_sessions
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query device sessions: %w", err)
	}

	return scanDeviceSessionRows(rows)
}

// Create inserts a new trusted device row.
func (r *DeviceSessionRepository) Create(ctx context.Context, session *models.DeviceSession) (*models.DeviceSession, error) {
	session.ID = uuid.New().String()

	now := time.Now()
	session.CreatedAt = now
	session.LastActiveAt = now

	query := `
		INSERT INTO device_sessions (id, user_id, device_hash, user_agent, ip_address, created_at, last_active_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, device_hash, user_agent, ip_address, created_at, last_active_at
	`

	var userAgent, ipAddress *string
	if session.UserAgent != "" {
		userAgent = &session.UserAgent
	}
	if session.IPAddress != "" {
		ipAddress = &session.IPAddress
	}

	return scanDeviceSessionRow(r.pool.QueryRow(ctx, query,
		session.ID, session.UserID, session.DeviceHash,
		userAgent, ipAddress, session.CreatedAt, session.LastActiveAt,
	))
}

// Refresh updates the stored user-agent/IP and last-active stamp for an
// existing fingerprint. A repeat login from a known device refreshes its
// slot rather than claiming a new one.
func (r *DeviceSessionRepository) Refresh(ctx context.Context, id, userAgent, ipAddress string) error {
	query := `
		UPDATE device_sessions
		SET user_agent = $1, ip_address = $2, last_active_at = NOW()
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, userAgent, ipAddress, id)
	if err != nil {
		return fmt.Errorf("failed to refresh device session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteByIDs evicts specific device sessions.
func (r *DeviceSessionRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `DELETE FROM device_sessions WHERE id = ANY($1)`

	_, err := r.pool.Exec(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to delete device sessions: %w", err)
	}

	return nil
}

// DeleteByUserAndHash removes the device row matching a fingerprint on
// logout. It limits future device-scoped behavior only; any session token
// already issued stays valid until its own expiry.
func (r *DeviceSessionRepository) DeleteByUserAndHash(ctx context.Context, userID, deviceHash string) error {
	query := `DELETE FROM device_sessions WHERE user_id = $1 AND device_hash = $2`

	_, err := r.pool.Exec(ctx, query, userID, deviceHash)
	if err != nil {
		return fmt.Errorf("failed to delete device session: %w", err)
	}

	return nil
}

// CountByUser returns the number of trusted devices for a user.
func (r *DeviceSessionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM device_sessions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}
