package services

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliverLoginCode_EmailOnly(t *testing.T) {
	email := &RecordingEmailSender{}
	sms := &RecordingSMSSender{}
	var logs []*models.NotificationLog
	logRepo := &MockNotificationLogRepository{
		CreateFunc: func(ctx context.Context, log *models.NotificationLog) error {
			logs = append(logs, log)
			return nil
		},
	}
	svc := NewNotificationService(email, sms, logRepo, slog.Default())

	user := &models.User{ID: "user_1", Email: "trader@example.com"}
	svc.DeliverLoginCode(context.Background(), user, "482913", 10*time.Minute, "203.0.113.9", "Mozilla/5.0")

	assert.Equal(t, []string{"trader@example.com"}, email.To)
	assert.Empty(t, sms.To)

	require.Len(t, logs, 1)
	assert.Equal(t, models.ChannelEmail, logs[0].Channel)
	assert.True(t, logs[0].Success)
}

func TestDeliverLoginCode_BothChannels(t *testing.T) {
	email := &RecordingEmailSender{}
	sms := &RecordingSMSSender{}
	svc := NewNotificationService(email, sms, &MockNotificationLogRepository{}, slog.Default())

	user := &models.User{ID: "user_1", Email: "trader@example.com", Phone: "+919876543210"}
	svc.DeliverLoginCode(context.Background(), user, "482913", 10*time.Minute, "", "")

	assert.Equal(t, []string{"trader@example.com"}, email.To)
	assert.Equal(t, []string{"+919876543210"}, sms.To)
	assert.Equal(t, "482913", sms.Codes[0])
}

func TestDeliverLoginCode_FailuresAreRecordedNotPropagated(t *testing.T) {
	email := &RecordingEmailSender{Err: fmt.Errorf("ses: throttled")}
	sms := &RecordingSMSSender{Err: fmt.Errorf("twilio: invalid number")}
	var logs []*models.NotificationLog
	logRepo := &MockNotificationLogRepository{
		CreateFunc: func(ctx context.Context, log *models.NotificationLog) error {
			logs = append(logs, log)
			return nil
		},
	}
	svc := NewNotificationService(email, sms, logRepo, slog.Default())

	user := &models.User{ID: "user_1", Email: "trader@example.com", Phone: "+919876543210"}
	svc.DeliverLoginCode(context.Background(), user, "482913", 10*time.Minute, "", "")

	require.Len(t, logs, 2)
	for _, log := range logs {
		assert.False(t, log.Success)
		assert.NotEmpty(t, log.Error)
	}
}
