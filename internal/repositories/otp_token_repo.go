package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/arjunmehra/coursegate/internal/database"
	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OtpTokenRepository handles OTP token data access
type OtpTokenRepository struct {
	db *database.DB
}

// NewOtpTokenRepository creates a new OtpTokenRepository
func NewOtpTokenRepository(db *database.DB) *OtpTokenRepository {
	return &OtpTokenRepository{db: db}
}

func scanOtpTokenRow(row rowScanner) (*models.OtpToken, error) {
	var token models.OtpToken

	err := row.Scan(
		&token.ID, &token.Email, &token.UserID, &token.CodeHash,
		&token.Context, &token.Attempts, &token.ExpiresAt, &token.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &token, nil
}

// Replace atomically deletes all tokens for (email, context) and inserts the
// new one. Running both statements in one transaction keeps the single live
// token invariant under concurrent requests for the same email: one request's
// delete can no longer remove the other's just-inserted row.
func (r *OtpTokenRepository) Replace(ctx context.Context, token *models.OtpToken) (*models.OtpToken, error) {
	token.ID = uuid.New().String()
	token.CreatedAt = time.Now()

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM otp_tokens WHERE email = $1 AND context = $2`,
			token.Email, token.Context,
		); err != nil {
			return fmt.Errorf("failed to delete prior tokens: %w", err)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO otp_tokens (id, email, user_id, code_hash, context, attempts, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5, 0, $6, $7)
		`, token.ID, token.Email, token.UserID, token.CodeHash, token.Context, token.ExpiresAt, token.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return token, nil
}

// GetLatestByEmail returns the most recently created token for
// (email, context). If duplicate issuance ever occurs, only the newest is
// authoritative.
func (r *OtpTokenRepository) GetLatestByEmail(ctx context.Context, email, otpContext string) (*models.OtpToken, error) {
	query := `
		SELECT id, email, user_id, code_hash, context, attempts, expires_at, created_at
		FROM otp_tokens
		WHERE email = $1 AND context = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	return scanOtpTokenRow(r.db.Pool.QueryRow(ctx, query, email, otpContext))
}

// IncrementAttempts bumps the attempt counter after a failed verification.
// The token row itself stays in place.
func (r *OtpTokenRepository) IncrementAttempts(ctx context.Context, id string) error {
	query := `UPDATE otp_tokens SET attempts = attempts + 1 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment attempts: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteByEmail removes every token for (email, context): single-use
// consumption on success, or invalidation after the attempt budget runs out.
func (r *OtpTokenRepository) DeleteByEmail(ctx context.Context, email, otpContext string) error {
	query := `DELETE FROM otp_tokens WHERE email = $1 AND context = $2`

	_, err := r.db.Pool.Exec(ctx, query, email, otpContext)
	if err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}

	return nil
}

// CleanupExpired deletes tokens whose expiry has long passed. Expiry is
// otherwise only checked lazily at verification time.
func (r *OtpTokenRepository) CleanupExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM otp_tokens WHERE expires_at < NOW() - INTERVAL '1 day'`

	result, err := r.db.Pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired tokens: %w", err)
	}

	return result.RowsAffected(), nil
}
