package services

import (
	"context"
	"time"

	"github.com/arjunmehra/coursegate/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc           func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc        func(ctx context.Context, email string) (*models.User, error)
	UpsertByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	MarkVerifiedLoginFunc func(ctx context.Context, email string, at time.Time) (*models.User, error)
	CreateFunc            func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc            func(ctx context.Context, id string, user *models.User) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) UpsertByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.UpsertByEmailFunc != nil {
		return m.UpsertByEmailFunc(ctx, email)
	}
	return &models.User{ID: "user_123", Email: email, Role: models.RoleStudent}, nil
}

func (m *MockUserRepository) MarkVerifiedLogin(ctx context.Context, email string, at time.Time) (*models.User, error) {
	if m.MarkVerifiedLoginFunc != nil {
		return m.MarkVerifiedLoginFunc(ctx, email, at)
	}
	return &models.User{ID: "user_123", Email: email, Role: models.RoleStudent, EmailVerified: true, LastLoginAt: &at}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

// MockOtpTokenRepository implements OtpTokenRepository for testing
type MockOtpTokenRepository struct {
	ReplaceFunc           func(ctx context.Context, token *models.OtpToken) (*models.OtpToken, error)
	GetLatestByEmailFunc  func(ctx context.Context, email, otpContext string) (*models.OtpToken, error)
	IncrementAttemptsFunc func(ctx context.Context, id string) error
	DeleteByEmailFunc     func(ctx context.Context, email, otpContext string) error
	CleanupExpiredFunc    func(ctx context.Context) (int64, error)
}

func (m *MockOtpTokenRepository) Replace(ctx context.Context, token *models.OtpToken) (*models.OtpToken, error) {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, token)
	}
	token.ID = "token_123"
	token.CreatedAt = time.Now()
	return token, nil
}

func (m *MockOtpTokenRepository) GetLatestByEmail(ctx context.Context, email, otpContext string) (*models.OtpToken, error) {
	if m.GetLatestByEmailFunc != nil {
		return m.GetLatestByEmailFunc(ctx, email, otpContext)
	}
	return nil, models.ErrNotFound
}

func (m *MockOtpTokenRepository) IncrementAttempts(ctx context.Context, id string) error {
	if m.IncrementAttemptsFunc != nil {
		return m.IncrementAttemptsFunc(ctx, id)
	}
	return nil
}

func (m *MockOtpTokenRepository) DeleteByEmail(ctx context.Context, email, otpContext string) error {
	if m.DeleteByEmailFunc != nil {
		return m.DeleteByEmailFunc(ctx, email, otpContext)
	}
	return nil
}

func (m *MockOtpTokenRepository) CleanupExpired(ctx context.Context) (int64, error) {
	if m.CleanupExpiredFunc != nil {
		return m.CleanupExpiredFunc(ctx)
	}
	return 0, nil
}

// MockDeviceSessionRepository implements DeviceSessionRepository for testing
type MockDeviceSessionRepository struct {
	ListByUserFunc          func(ctx context.Context, userID string) ([]*models.DeviceSession, error)
	CreateFunc              func(ctx context.Context, session *models.DeviceSession) (*models.DeviceSession, error)
	RefreshFunc             func(ctx context.Context, id, userAgent, ipAddress string) error
	DeleteByIDsFunc         func(ctx context.Context, ids []string) error
	DeleteByUserAndHashFunc func(ctx context.Context, userID, deviceHash string) error
}

func (m *MockDeviceSessionRepository) ListByUser(ctx context.Context, userID string) ([]*models.DeviceSession, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.DeviceSession{}, nil
}

func (m *MockDeviceSessionRepository) Create(ctx context.Context, session *models.DeviceSession) (*models.DeviceSession, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	session.ID = "session_123"
	session.CreatedAt = time.Now()
	session.LastActiveAt = session.CreatedAt
	return session, nil
}

func (m *MockDeviceSessionRepository) Refresh(ctx context.Context, id, userAgent, ipAddress string) error {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, id, userAgent, ipAddress)
	}
	return nil
}

func (m *MockDeviceSessionRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, ids)
	}
	return nil
}

func (m *MockDeviceSessionRepository) DeleteByUserAndHash(ctx context.Context, userID, deviceHash string) error {
	if m.DeleteByUserAndHashFunc != nil {
		return m.DeleteByUserAndHashFunc(ctx, userID, deviceHash)
	}
	return nil
}

// MockNotificationLogRepository implements NotificationLogRepository for testing
type MockNotificationLogRepository struct {
	CreateFunc func(ctx context.Context, log *models.NotificationLog) error
}

func (m *MockNotificationLogRepository) Create(ctx context.Context, log *models.NotificationLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	return nil
}

// RecordingEmailSender captures sent codes for assertions
type RecordingEmailSender struct {
	To    []string
	Codes []string
	Err   error
}

func (s *RecordingEmailSender) SendLoginCode(ctx context.Context, to, code string, expiry time.Duration, ipAddress, userAgent string) error {
	s.To = append(s.To, to)
	s.Codes = append(s.Codes, code)
	return s.Err
}

// RecordingSMSSender captures sent codes for assertions
type RecordingSMSSender struct {
	To    []string
	Codes []string
	Err   error
}

func (s *RecordingSMSSender) SendLoginCode(ctx context.Context, to, code string, expiry time.Duration) error {
	s.To = append(s.To, to)
	s.Codes = append(s.Codes, code)
	return s.Err
}
