package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arjunmehra/coursegate/internal/auth"
	"github.com/arjunmehra/coursegate/internal/models"
	pkglogger "github.com/arjunmehra/coursegate/pkg/logger"
)

// OTPConfig holds the issuance and verification knobs.
type OTPConfig struct {
	Expiry      time.Duration // code lifetime (10 minutes)
	Digits      int           // code length (6)
	MaxAttempts int           // failed attempt budget before the token is invalidated
}

// OTPService implements the login flow: issue a one-time code, verify it,
// register the device and mint a session credential.
type OTPService struct {
	userRepo    UserRepository
	otpRepo     OtpTokenRepository
	devices     *DeviceService
	notifier    *NotificationService
	sessions    *auth.SessionManager
	timingDelay *auth.TimingDelay
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	env         string
	cfg         OTPConfig
}

// NewOTPService creates a new OTPService
func NewOTPService(
	userRepo UserRepository,
	otpRepo OtpTokenRepository,
	devices *DeviceService,
	notifier *NotificationService,
	sessions *auth.SessionManager,
	timingDelay *auth.TimingDelay,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
	env string,
	cfg OTPConfig,
) *OTPService {
	if cfg.Digits == 0 {
		cfg.Digits = 6
	}
	if cfg.Expiry == 0 {
		cfg.Expiry = 10 * time.Minute
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	return &OTPService{
		userRepo:    userRepo,
		otpRepo:     otpRepo,
		devices:     devices,
		notifier:    notifier,
		sessions:    sessions,
		timingDelay: timingDelay,
		logger:      logger,
		auditLogger: auditLogger,
		env:         env,
		cfg:         cfg,
	}
}

// NormalizeEmail lower-cases and trims an email address. Every storage key
// derived from an email goes through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestLoginOTP issues a one-time code for email and dispatches it. The
// caller-visible result never depends on whether the email was already
// registered. The returned code is non-empty only outside production, as a
// diagnostic convenience.
func (s *OTPService) RequestLoginOTP(ctx context.Context, email, userAgent, ipAddress string) (string, error) {
	email = NormalizeEmail(email)

	code, err := auth.GenerateCode(s.cfg.Digits)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	codeHash, err := auth.HashCode(code)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}

	user, err := s.userRepo.UpsertByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to upsert user: %w", err)
	}

	_, err = s.otpRepo.Replace(ctx, &models.OtpToken{
		Email:     email,
		UserID:    user.ID,
		CodeHash:  codeHash,
		Context:   models.OtpContextLogin,
		ExpiresAt: time.Now().Add(s.cfg.Expiry),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	// Delivery is decoupled from issuance: the stored token stays valid
	// even if both channels fail.
	s.notifier.DeliverLoginCode(ctx, user, code, s.cfg.Expiry, ipAddress, userAgent)

	s.auditLogger.LogLoginEvent(pkglogger.AuditEvent{
		EventType: "otp_requested",
		UserID:    user.ID,
		Email:     email,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Success:   true,
	})

	if s.env != "production" {
		return code, nil
	}
	return "", nil
}

// VerifyLoginOTP validates a submitted code and, on success, promotes the
// attempt to an authenticated session: the user's email is marked verified,
// the device is registered, all login tokens are consumed, and a session
// credential is returned alongside the user.
func (s *OTPService) VerifyLoginOTP(ctx context.Context, email, code, userAgent, ipAddress string) (*models.User, string, error) {
	email = NormalizeEmail(email)

	token, err := s.otpRepo.GetLatestByEmail(ctx, email, models.OtpContextLogin)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", s.fail(email, ipAddress, userAgent, "no_pending_code", models.ErrCodeNotFound)
		}
		return nil, "", fmt.Errorf("failed to look up token: %w", err)
	}

	if token.IsExpired() {
		return nil, "", s.fail(email, ipAddress, userAgent, "code_expired", models.ErrCodeExpired)
	}

	if token.Attempts >= s.cfg.MaxAttempts {
		// Budget exhausted: invalidate the token so further guessing within
		// the expiry window is pointless.
		if err := s.otpRepo.DeleteByEmail(ctx, email, models.OtpContextLogin); err != nil {
			s.logger.Error("failed to invalidate exhausted token", slog.Any("error", err))
		}
		return nil, "", s.fail(email, ipAddress, userAgent, "attempt_budget_exhausted", models.ErrTooManyAttempts)
	}

	if err := auth.CompareCode(token.CodeHash, code); err != nil {
		if err := s.otpRepo.IncrementAttempts(ctx, token.ID); err != nil {
			s.logger.Error("failed to increment attempts", slog.Any("error", err))
		}
		return nil, "", s.fail(email, ipAddress, userAgent, "code_mismatch", models.ErrCodeInvalid)
	}

	user, err := s.userRepo.MarkVerifiedLogin(ctx, email, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("failed to update user: %w", err)
	}

	deviceHash := auth.DeviceHash(userAgent, ipAddress)
	if err := s.devices.Register(ctx, user.ID, deviceHash, userAgent, ipAddress); err != nil {
		return nil, "", fmt.Errorf("failed to register device: %w", err)
	}

	// Single-use: the code cannot verify a second time.
	if err := s.otpRepo.DeleteByEmail(ctx, email, models.OtpContextLogin); err != nil {
		return nil, "", fmt.Errorf("failed to consume token: %w", err)
	}

	sessionToken, err := s.sessions.Issue(user.ID, user.Role, deviceHash)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session: %w", err)
	}

	s.auditLogger.LogLoginEvent(pkglogger.AuditEvent{
		EventType:  "login_succeeded",
		UserID:     user.ID,
		Email:      email,
		DeviceHash: deviceHash,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Success:    true,
	})

	if s.timingDelay != nil {
		s.timingDelay.Wait(true)
	}

	return user, sessionToken, nil
}

// Logout forgets the device row for the fingerprint. The session token
// itself is self-contained and remains valid until its own expiry; only the
// client discards it.
func (s *OTPService) Logout(ctx context.Context, userID, deviceHash string) error {
	return s.devices.Forget(ctx, userID, deviceHash)
}

// fail records a verification failure and pads it with the timing delay so
// the sub-reasons are not distinguishable from response latency.
func (s *OTPService) fail(email, ipAddress, userAgent, reason string, err error) error {
	s.auditLogger.LogLoginEvent(pkglogger.AuditEvent{
		EventType:     "login_failed",
		Email:         email,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
		Success:       false,
		FailureReason: reason,
	})

	if s.timingDelay != nil {
		s.timingDelay.Wait(false)
	}

	return err
}
