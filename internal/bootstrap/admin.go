package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arjunmehra/coursegate/internal/config"
	"github.com/arjunmehra/coursegate/internal/models"
	pkglogger "github.com/arjunmehra/coursegate/pkg/logger"
)

// UserStore is the slice of the user repository the bootstrap needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
}

// EnsureAdminUser makes sure the configured admin account exists with the
// ADMIN role. Safe to run on every startup: an existing admin is left
// untouched, an existing non-admin with the seed email is promoted, and a
// missing account is created already verified. An empty seed email disables
// the bootstrap entirely.
func EnsureAdminUser(ctx context.Context, users UserStore, seed config.AdminSeedConfig, logger *slog.Logger) error {
	if seed.Email == "" {
		return nil
	}

	existing, err := users.GetByEmail(ctx, seed.Email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("failed to look up admin user: %w", err)
		}

		created, err := users.Create(ctx, &models.User{
			Email:         seed.Email,
			Name:          seed.Name,
			Phone:         seed.Phone,
			Role:          models.RoleAdmin,
			EmailVerified: true,
		})
		if err != nil {
			if errors.Is(err, models.ErrConflict) {
				// concurrent instance won the race, nothing left to do
				return nil
			}
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("admin user created",
			slog.String("user_id", created.ID),
			slog.String("email", pkglogger.SanitizedEmail(created.Email)))
		return nil
	}

	if existing.Role == models.RoleAdmin {
		return nil
	}

	existing.Role = models.RoleAdmin
	if _, err := users.Update(ctx, existing.ID, existing); err != nil {
		return fmt.Errorf("failed to promote admin user: %w", err)
	}

	logger.Info("existing user promoted to admin",
		slog.String("user_id", existing.ID),
		slog.String("email", pkglogger.SanitizedEmail(existing.Email)))
	return nil
}
