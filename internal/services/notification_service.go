package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/arjunmehra/coursegate/internal/models"
	pkglogger "github.com/arjunmehra/coursegate/pkg/logger"
)

// EmailSender defines the interface for the email channel
type EmailSender interface {
	SendLoginCode(ctx context.Context, to, code string, expiry time.Duration, ipAddress, userAgent string) error
}

// SMSSender defines the interface for the SMS channel
type SMSSender interface {
	SendLoginCode(ctx context.Context, to, code string, expiry time.Duration) error
}

// NotificationService dispatches login codes over email and SMS. Both
// channels are strictly best-effort: a provider outage is logged and
// recorded, never propagated, so code issuance completes regardless.
type NotificationService struct {
	email   EmailSender
	sms     SMSSender
	logRepo NotificationLogRepository
	logger  *slog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(email EmailSender, sms SMSSender, logRepo NotificationLogRepository, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		email:   email,
		sms:     sms,
		logRepo: logRepo,
		logger:  logger,
	}
}

// DeliverLoginCode sends the plaintext code to the user: email always, SMS
// only when a phone number is on file.
func (s *NotificationService) DeliverLoginCode(ctx context.Context, user *models.User, code string, expiry time.Duration, ipAddress, userAgent string) {
	err := s.email.SendLoginCode(ctx, user.Email, code, expiry, ipAddress, userAgent)
	if err != nil {
		s.logger.Error("failed to send OTP email",
			slog.String("email", pkglogger.SanitizedEmail(user.Email)),
			slog.Any("error", err))
	}
	s.record(ctx, user.ID, models.ChannelEmail, "login code", user.Email, err)

	if user.Phone == "" {
		return
	}

	err = s.sms.SendLoginCode(ctx, user.Phone, code, expiry)
	if err != nil {
		s.logger.Error("failed to send OTP SMS",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}
	s.record(ctx, user.ID, models.ChannelSMS, "login code", user.Phone, err)
}

func (s *NotificationService) record(ctx context.Context, userID, channel, subject, recipient string, sendErr error) {
	log := &models.NotificationLog{
		UserID:    userID,
		Channel:   channel,
		Subject:   subject,
		Recipient: recipient,
		Success:   sendErr == nil,
	}
	if sendErr != nil {
		log.Error = sendErr.Error()
	}

	if err := s.logRepo.Create(ctx, log); err != nil {
		s.logger.Warn("failed to record notification", slog.Any("error", err))
	}
}
