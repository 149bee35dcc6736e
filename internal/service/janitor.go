package service

import (
	"time"

	"go.uber.org/zap"
)

// SessionSweeper removes sessions untouched since a given time
type SessionSweeper interface {
	Sweep(olderThan time.Time) int
}

// JanitorService drops dialogs abandoned by their users
type JanitorService struct {
	sessions SessionSweeper
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewJanitorService creates a janitor removing sessions idle for longer than ttl
func NewJanitorService(sessions SessionSweeper, ttl time.Duration, logger *zap.Logger) *JanitorService {
	return &JanitorService{
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// CleanupStale removes idle sessions and returns how many were dropped
func (s *JanitorService) CleanupStale() int {
	cutoff := s.now().Add(-s.ttl)

	removed := s.sessions.Sweep(cutoff)
	if removed > 0 {
		s.logger.Info("Removed idle sessions",
			zap.Int("count", removed),
			zap.Duration("ttl", s.ttl),
		)
	}
	return removed
}
