package bootstrap

import (
	"context"
	"log/slog"
	"testing"

	"github.com/arjunmehra/coursegate/internal/config"
	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	created []*models.User
	updated []*models.User
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = "user_seeded"
	s.created = append(s.created, user)
	return user, nil
}

func (s *fakeUserStore) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	s.updated = append(s.updated, user)
	return user, nil
}

func TestEnsureAdminUser_CreatesMissingAdmin(t *testing.T) {
	store := &fakeUserStore{byEmail: map[string]*models.User{}}
	seed := config.AdminSeedConfig{Email: "mentor@coursegate.in", Name: "Lead Mentor", Phone: "+919876543210"}

	err := EnsureAdminUser(context.Background(), store, seed, slog.Default())
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, models.RoleAdmin, created.Role)
	assert.True(t, created.EmailVerified)
	assert.Equal(t, "Lead Mentor", created.Name)
	assert.Equal(t, "+919876543210", created.Phone)
}

func TestEnsureAdminUser_PromotesExistingUser(t *testing.T) {
	store := &fakeUserStore{byEmail: map[string]*models.User{
		"mentor@coursegate.in": {ID: "user_1", Email: "mentor@coursegate.in", Role: models.RoleStudent},
	}}
	seed := config.AdminSeedConfig{Email: "mentor@coursegate.in", Name: "Lead Mentor"}

	err := EnsureAdminUser(context.Background(), store, seed, slog.Default())
	require.NoError(t, err)

	assert.Empty(t, store.created)
	require.Len(t, store.updated, 1)
	assert.Equal(t, models.RoleAdmin, store.updated[0].Role)
}

func TestEnsureAdminUser_ExistingAdminUntouched(t *testing.T) {
	store := &fakeUserStore{byEmail: map[string]*models.User{
		"mentor@coursegate.in": {ID: "user_1", Email: "mentor@coursegate.in", Role: models.RoleAdmin},
	}}
	seed := config.AdminSeedConfig{Email: "mentor@coursegate.in"}

	err := EnsureAdminUser(context.Background(), store, seed, slog.Default())
	require.NoError(t, err)

	assert.Empty(t, store.created)
	assert.Empty(t, store.updated)
}

func TestEnsureAdminUser_NoSeedConfigured(t *testing.T) {
	store := &fakeUserStore{byEmail: map[string]*models.User{}}

	err := EnsureAdminUser(context.Background(), store, config.AdminSeedConfig{}, slog.Default())
	require.NoError(t, err)
	assert.Empty(t, store.created)
}
