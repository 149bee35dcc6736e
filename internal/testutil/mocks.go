package testutil

import (
	"context"
	"time"

	"memebot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockTemplateRepository is a mock for TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Template), args.Error(1)
}

func (m *MockTemplateRepository) ListVideoSources(ctx context.Context) ([]domain.VideoSource, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VideoSource), args.Error(1)
}

// MockCaptioner is a mock for the captioning fetcher
type MockCaptioner struct {
	mock.Mock
}

func (m *MockCaptioner) GenerateCaption(ctx context.Context, category, topText, bottomText string) domain.ContentResult {
	args := m.Called(ctx, category, topText, bottomText)
	return args.Get(0).(domain.ContentResult)
}

// MockContentFetcher is a mock for the random image and video fetchers
type MockContentFetcher struct {
	mock.Mock
}

func (m *MockContentFetcher) FetchRandomImage(ctx context.Context) domain.ContentResult {
	args := m.Called(ctx)
	return args.Get(0).(domain.ContentResult)
}

func (m *MockContentFetcher) FetchRandomVideo(ctx context.Context, category string) domain.ContentResult {
	args := m.Called(ctx, category)
	return args.Get(0).(domain.ContentResult)
}

// MockResponder is a mock for outbound actions
type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) SendText(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *MockResponder) SendChoices(ctx context.Context, text string, choices []domain.Choice) error {
	args := m.Called(ctx, text, choices)
	return args.Error(0)
}

func (m *MockResponder) SendImage(ctx context.Context, url, caption string) error {
	args := m.Called(ctx, url, caption)
	return args.Error(0)
}

func (m *MockResponder) SendVideo(ctx context.Context, url, caption string) error {
	args := m.Called(ctx, url, caption)
	return args.Error(0)
}

func (m *MockResponder) EditText(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

// MockSessionSweeper is a mock for the session sweep operation
type MockSessionSweeper struct {
	mock.Mock
}

func (m *MockSessionSweeper) Sweep(olderThan time.Time) int {
	args := m.Called(olderThan)
	return args.Int(0)
}
