package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"memebot/internal/domain"

	"go.uber.org/zap"
)

const captionFailedMessage = "Failed to create meme. Please try again later."

// CaptionService generates captioned images through the Imgflip API
type CaptionService struct {
	catalog    *CatalogService
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
	logger     *zap.Logger
}

// CaptionConfig holds the captioning endpoint and credentials
type CaptionConfig struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// NewCaptionService creates a new caption service
func NewCaptionService(catalog *CatalogService, cfg CaptionConfig, logger *zap.Logger) *CaptionService {
	return &CaptionService{
		catalog:    catalog,
		endpoint:   cfg.URL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type captionResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		URL     string `json:"url"`
		PageURL string `json:"page_url"`
	} `json:"data"`
	ErrorMessage string `json:"error_message"`
}

// GenerateCaption renders topText and bottomText onto the category's
// template. Texts are sent as given.
func (s *CaptionService) GenerateCaption(ctx context.Context, category, topText, bottomText string) domain.ContentResult {
	templateID, ok := s.catalog.Lookup(category)
	if !ok {
		return domain.InvalidCategory()
	}

	form := url.Values{
		"template_id": {templateID},
		"username":    {s.username},
		"password":    {s.password},
		"text0":       {topText},
		"text1":       {bottomText},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return s.fail(category, domain.ResultServiceError, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return s.fail(category, domain.ResultTransportFault, fmt.Errorf("caption request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.fail(category, domain.ResultTransportFault, fmt.Errorf("caption request: unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return s.fail(category, domain.ResultTransportFault, fmt.Errorf("read response: %w", err))
	}

	var result captionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return s.fail(category, domain.ResultServiceError, fmt.Errorf("parse response: %w", err))
	}

	if !result.Success {
		message := result.ErrorMessage
		if message == "" {
			message = "Unknown error"
		}
		s.logger.Warn("Captioning service rejected request",
			zap.String("category", category),
			zap.String("error_message", message),
		)
		return domain.ServiceError(message, fmt.Errorf("imgflip: %s", message))
	}

	if result.Data == nil || !strings.HasPrefix(result.Data.URL, "http") {
		return s.fail(category, domain.ResultServiceError, fmt.Errorf("parse response: missing image url"))
	}

	return domain.Image(result.Data.URL)
}

func (s *CaptionService) fail(category string, kind domain.ResultKind, err error) domain.ContentResult {
	s.logger.Error("Meme generation failed",
		zap.String("category", category),
		zap.Stringer("kind", kind),
		zap.Error(err),
	)
	if kind == domain.ResultTransportFault {
		return domain.TransportFault(captionFailedMessage, err)
	}
	return domain.ServiceError(captionFailedMessage, err)
}
