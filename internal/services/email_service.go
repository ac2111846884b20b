package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/arjunmehra/coursegate/pkg/logger"
)

// AWSSESEmailSender sends login codes using AWS SES
type AWSSESEmailSender struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESEmailSender creates a new AWS SES email sender
func NewAWSSESEmailSender(region, fromAddress string, logger *slog.Logger) (*AWSSESEmailSender, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailSender{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// SendLoginCode sends the one-time login code to the user
func (s *AWSSESEmailSender) SendLoginCode(ctx context.Context, to, code string, expiry time.Duration, ipAddress, userAgent string) error {
	minutes := int(expiry.Minutes())
	if ipAddress == "" {
		ipAddress = "Unknown"
	}
	if userAgent == "" {
		userAgent = "Unknown"
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .code { font-size: 32px; letter-spacing: 6px; font-weight: bold; text-align: center; padding: 16px; background-color: #f8f9fa; border-radius: 4px; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <p>Namaste,</p>
        <p>Your one-time password to access your course dashboard is:</p>
        <div class="code">%s</div>
        <p>This code will expire in %d minutes. Do not share it with anyone.</p>
        <p>Login request from IP: %s, device: %s.</p>
        <div class="footer">
            <p>If you did not request this code, you can ignore this email.</p>
        </div>
    </div>
</body>
</html>
`, code, minutes, ipAddress, userAgent)

	textBody := fmt.Sprintf(`Namaste,

Your one-time password to access your course dashboard is %s.

This code will expire in %d minutes. Do not share it with anyone.

Login request from IP: %s, device: %s.

If you did not request this code, you can ignore this email.
`, code, minutes, ipAddress, userAgent)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Your login code"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	if _, err := s.sesClient.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	s.logger.Info("login code email sent", slog.String("email", pkglogger.SanitizedEmail(to)))
	return nil
}

// MockEmailSender logs codes instead of sending them, for development
// without SES credentials.
type MockEmailSender struct {
	logger *slog.Logger
}

// NewMockEmailSender creates a log-only email sender
func NewMockEmailSender(logger *slog.Logger) *MockEmailSender {
	return &MockEmailSender{logger: logger}
}

func (s *MockEmailSender) SendLoginCode(ctx context.Context, to, code string, expiry time.Duration, ipAddress, userAgent string) error {
	s.logger.Info("email:mock",
		slog.String("to", pkglogger.SanitizedEmail(to)),
		slog.String("code", code),
	)
	return nil
}
