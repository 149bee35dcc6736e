package testutil

import (
	"fmt"
	"strings"

	"memebot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestTemplates creates n catalog entries named category0..categoryN-1
func NewTestTemplates(n int) []domain.Template {
	templates := make([]domain.Template, n)
	for i := range templates {
		templates[i] = domain.Template{
			Category:   fmt.Sprintf("category%d", i),
			TemplateID: fmt.Sprintf("%d", 1000+i),
			Position:   i,
		}
	}
	return templates
}

// RedditListing renders a listing body with one child per post JSON object
func RedditListing(posts ...string) string {
	children := make([]string, len(posts))
	for i, p := range posts {
		children[i] = `{"kind":"t3","data":` + p + `}`
	}
	return `{"kind":"Listing","data":{"children":[` + strings.Join(children, ",") + `]}}`
}
