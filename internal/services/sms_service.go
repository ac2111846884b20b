package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMSSender sends login codes over SMS via Twilio
type TwilioSMSSender struct {
	client *twilio.RestClient
	from   string
	logger *slog.Logger
}

// NewTwilioSMSSender creates a new Twilio SMS sender
func NewTwilioSMSSender(accountSID, authToken, from string, logger *slog.Logger) (*TwilioSMSSender, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSSender{
		client: client,
		from:   from,
		logger: logger,
	}, nil
}

// SendLoginCode sends the one-time login code as an SMS
func (s *TwilioSMSSender) SendLoginCode(ctx context.Context, to, code string, expiry time.Duration) error {
	body := fmt.Sprintf("Your login code is %s. It expires in %d minutes.", code, int(expiry.Minutes()))

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp.Sid != nil {
		s.logger.Info("login code SMS sent", slog.String("sid", *resp.Sid))
	}
	return nil
}

// MockSMSSender logs codes instead of sending them, for development
// without Twilio credentials.
type MockSMSSender struct {
	logger *slog.Logger
}

// NewMockSMSSender creates a log-only SMS sender
func NewMockSMSSender(logger *slog.Logger) *MockSMSSender {
	return &MockSMSSender{logger: logger}
}

func (s *MockSMSSender) SendLoginCode(ctx context.Context, to, code string, expiry time.Duration) error {
	s.logger.Info("sms:mock",
		slog.String("to", to),
		slog.String("code", code),
	)
	return nil
}
