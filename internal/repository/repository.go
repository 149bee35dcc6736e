package repository

import (
	"context"
	"time"

	"memebot/internal/domain"
)

// TemplateRepository defines catalog data operations
type TemplateRepository interface {
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	ListVideoSources(ctx context.Context) ([]domain.VideoSource, error)
}

// SessionRepository defines per-user dialog state operations
type SessionRepository interface {
	Lock(userID int64) (unlock func())
	Get(userID int64) (*domain.Session, bool)
	Start(userID int64) *domain.Session
	Save(session *domain.Session)
	Clear(userID int64)
	Sweep(olderThan time.Time) int
}
