package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"memebot/internal/domain"
)

// TemplateRepo implements repository.TemplateRepository
type TemplateRepo struct {
	db *sql.DB
}

// NewTemplateRepo creates a new template repository
func NewTemplateRepo(db *sql.DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

// ListTemplates returns all catalog entries in display order
func (r *TemplateRepo) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	query := `
		SELECT category, template_id, position
		FROM templates
		ORDER BY position, category
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.Template
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.Category, &t.TemplateID, &t.Position); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

// ListVideoSources returns video feeds ordered by category and fallback position
func (r *TemplateRepo) ListVideoSources(ctx context.Context) ([]domain.VideoSource, error) {
	query := `
		SELECT category, subreddit, position
		FROM video_sources
		ORDER BY category, position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query video sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.VideoSource
	for rows.Next() {
		var s domain.VideoSource
		if err := rows.Scan(&s.Category, &s.Subreddit, &s.Position); err != nil {
			return nil, fmt.Errorf("scan video source: %w", err)
		}
		sources = append(sources, s)
	}

	return sources, rows.Err()
}
