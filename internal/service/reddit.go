package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"memebot/internal/domain"

	"go.uber.org/zap"
)

// imageFeed is the general-purpose feed used for random images
const imageFeed = "memes"

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// errUnreachable marks listing failures caused by the network or the HTTP status
var errUnreachable = errors.New("listing unreachable")

const imageFailedMessage = "image listing unavailable"

// RedditService fetches random images and videos from subreddit listings
type RedditService struct {
	catalog    *CatalogService
	baseURL    string
	userAgent  string
	limit      int
	httpClient *http.Client
	pick       func(n int) int
	logger     *zap.Logger
}

// RedditConfig holds listing endpoint settings
type RedditConfig struct {
	BaseURL   string
	UserAgent string
	Limit     int
	Timeout   time.Duration
}

// NewRedditService creates a new listing fetcher
func NewRedditService(catalog *CatalogService, cfg RedditConfig, logger *zap.Logger) *RedditService {
	return &RedditService{
		catalog:    catalog,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		limit:      cfg.Limit,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		pick:       rand.Intn,
		logger:     logger,
	}
}

type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	URL     string `json:"url"`
	IsVideo bool   `json:"is_video"`
	Media   *struct {
		RedditVideo *struct {
			FallbackURL string `json:"fallback_url"`
		} `json:"reddit_video"`
	} `json:"media"`
}

func (p post) isImage() bool {
	lower := strings.ToLower(p.URL)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (p post) videoURL() (string, bool) {
	if p.IsVideo && strings.HasSuffix(p.URL, ".mp4") {
		return p.URL, true
	}
	if p.Media != nil && p.Media.RedditVideo != nil && p.Media.RedditVideo.FallbackURL != "" {
		return p.Media.RedditVideo.FallbackURL, true
	}
	return "", false
}

// FetchRandomImage picks a random static image from the hot listing of the
// image feed
func (s *RedditService) FetchRandomImage(ctx context.Context) domain.ContentResult {
	posts, err := s.list(ctx, imageFeed, "hot")
	if err != nil {
		s.logger.Error("Failed to fetch random image meme", zap.Error(err))
		if errors.Is(err, errUnreachable) {
			return domain.TransportFault(imageFailedMessage, err)
		}
		return domain.ServiceError(imageFailedMessage, err)
	}

	var urls []string
	for _, p := range posts {
		if p.isImage() {
			urls = append(urls, p.URL)
		}
	}

	if len(urls) == 0 {
		return domain.NotFound()
	}
	return domain.Image(urls[s.pick(len(urls))])
}

// FetchRandomVideo walks the category's video sources in order and picks a
// random video from the first one that has any. A failing source is skipped.
func (s *RedditService) FetchRandomVideo(ctx context.Context, category string) domain.ContentResult {
	sources := s.catalog.VideoSources(category)
	if len(sources) == 0 {
		s.logger.Warn("No video sources for category", zap.String("category", category))
		return domain.NotFound()
	}

	for _, source := range sources {
		posts, err := s.list(ctx, source, "top")
		if err != nil {
			s.logger.Error("Failed to fetch video listing",
				zap.String("source", source),
				zap.String("category", category),
				zap.Error(err),
			)
			continue
		}

		var urls []string
		for _, p := range posts {
			if u, ok := p.videoURL(); ok {
				urls = append(urls, u)
			}
		}

		if len(urls) > 0 {
			return domain.Video(urls[s.pick(len(urls))])
		}

		s.logger.Debug("No videos in listing",
			zap.String("source", source),
			zap.String("category", category),
		)
	}

	return domain.NotFound()
}

// list fetches up to s.limit posts of subreddit sorted by sort over the last week
func (s *RedditService) list(ctx context.Context, subreddit, sort string) ([]post, error) {
	query := url.Values{
		"limit": {strconv.Itoa(s.limit)},
		"t":     {"week"},
	}
	endpoint := fmt.Sprintf("%s/r/%s/%s.json?%s", s.baseURL, url.PathEscape(subreddit), sort, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w: %w", subreddit, errUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch r/%s: %w: unexpected status %d", subreddit, errUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read r/%s: %w: %w", subreddit, errUnreachable, err)
	}

	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("parse r/%s: %w", subreddit, err)
	}

	posts := make([]post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}
