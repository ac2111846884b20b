package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arjunmehra/coursegate/internal/models"
	pkglogger "github.com/arjunmehra/coursegate/pkg/logger"
)

// DeviceService enforces the per-user trusted device cap.
type DeviceService struct {
	deviceRepo  DeviceSessionRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	maxSessions int
}

// NewDeviceService creates a new DeviceService
func NewDeviceService(deviceRepo DeviceSessionRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger, maxSessions int) *DeviceService {
	if maxSessions <= 0 {
		maxSessions = models.MaxDeviceSessions
	}
	return &DeviceService{
		deviceRepo:  deviceRepo,
		logger:      logger,
		auditLogger: auditLogger,
		maxSessions: maxSessions,
	}
}

// Register records deviceHash as a trusted device for userID. A known
// fingerprint only refreshes its stored user-agent/IP; a new fingerprint at
// the cap evicts enough of the oldest-created rows that the count after
// insertion stays within the cap. Eviction is keyed to creation order, not
// last use.
func (s *DeviceService) Register(ctx context.Context, userID, deviceHash, userAgent, ipAddress string) error {
	sessions, err := s.deviceRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list device sessions: %w", err)
	}

	for _, session := range sessions {
		if session.DeviceHash == deviceHash {
			if err := s.deviceRepo.Refresh(ctx, session.ID, userAgent, ipAddress); err != nil {
				return fmt.Errorf("failed to refresh device session: %w", err)
			}
			return nil
		}
	}

	if len(sessions) >= s.maxSessions {
		// sessions is oldest-first; evict so the insert below lands at the cap
		toEvict := sessions[:len(sessions)-s.maxSessions+1]
		ids := make([]string, 0, len(toEvict))
		for _, session := range toEvict {
			ids = append(ids, session.ID)
		}

		if err := s.deviceRepo.DeleteByIDs(ctx, ids); err != nil {
			return fmt.Errorf("failed to evict device sessions: %w", err)
		}

		s.auditLogger.LogDeviceEviction(userID, len(ids))
	}

	_, err = s.deviceRepo.Create(ctx, &models.DeviceSession{
		UserID:     userID,
		DeviceHash: deviceHash,
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to create device session: %w", err)
	}

	return nil
}

// Forget removes the trusted device row for a fingerprint on logout.
func (s *DeviceService) Forget(ctx context.Context, userID, deviceHash string) error {
	if deviceHash == "" {
		return nil
	}
	return s.deviceRepo.DeleteByUserAndHash(ctx, userID, deviceHash)
}
