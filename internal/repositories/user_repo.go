package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arjunmehra/coursegate/internal/database"
	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var phone *string
	var lastLoginAt *time.Time

	err := scanner.Scan(
		&user.ID, &user.Email, &user.Name, &phone,
		&user.Role, &user.EmailVerified, &lastLoginAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if phone != nil {
		user.Phone = *phone
	}
	user.LastLoginAt = lastLoginAt

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, name, phone, role, email_verified, last_login_at, created_at, updated_at
		FROM users WHERE id = $1
	`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, phone, role, email_verified, last_login_at, created_at, updated_at
		FROM users WHERE email = $1
	`

	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT id, email, name, phone, role, email_verified, last_login_at, created_at, updated_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	if !models.ValidRole(user.Role) {
		return nil, models.ErrBadRequest
	}

	query := `
		INSERT INTO users (id, email, name, phone, role, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, email, name, phone, role, email_verified, last_login_at, created_at, updated_at
	`

	var phone *string
	if user.Phone != "" {
		phone = &user.Phone
	}

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Name, phone,
		user.Role, user.EmailVerified, user.CreatedAt, user.UpdatedAt,
	))
}

// UpsertByEmail ensures a user row exists for a normalized email, creating
// one lazily on the first OTP request. The display name defaults to the
// email's local part.
func (r *UserRepository) UpsertByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}

	created, err := r.Create(ctx, &models.User{Email: email, Name: name})
	if errors.Is(err, models.ErrConflict) {
		// Lost a create race with a concurrent request for the same email
		return r.GetByEmail(ctx, email)
	}
	return created, err
}

func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if !models.ValidRole(user.Role) {
		return nil, models.ErrBadRequest
	}

	user.UpdatedAt = time.Now()

	query := `
		UPDATE users SET name = $1, phone = $2, role = $3, email_verified = $4, updated_at = $5
		WHERE id = $6
		RETURNING id, email, name, phone, role, email_verified, last_login_at, created_at, updated_at
	`

	var phone *string
	if user.Phone != "" {
		phone = &user.Phone
	}

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Name, phone, user.Role, user.EmailVerified, user.UpdatedAt, id,
	))
}

// MarkVerifiedLogin flags the email as verified and stamps last_login_at,
// the two mutations a successful OTP verification performs on the user.
func (r *UserRepository) MarkVerifiedLogin(ctx context.Context, email string, at time.Time) (*models.User, error) {
	query := `
		UPDATE users SET email_verified = TRUE, last_login_at = $1, updated_at = $1
		WHERE email = $2
		RETURNING id, email, name, phone, role, email_verified, last_login_at, created_at, updated_at
	`

	return scanUserRow(r.pool.QueryRow(ctx, query, at, email))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
