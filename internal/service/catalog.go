package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"memebot/internal/domain"
	"memebot/internal/repository"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CatalogService is the read-only category → template mapping.
// Lookups are case-insensitive; Categories keeps the original spelling.
type CatalogService struct {
	templates []domain.Template
	byKey     map[string]domain.Template
	sources   map[string][]string
	video     []string
}

// DefaultTemplates is the built-in catalog
var DefaultTemplates = []domain.Template{
	{Category: "dark humor", TemplateID: "181913649", Position: 1},
	{Category: "wholesome", TemplateID: "8072285", Position: 2},
	{Category: "sarcastic", TemplateID: "61579", Position: 3},
	{Category: "nerdy", TemplateID: "61532", Position: 4},
	{Category: "trending", TemplateID: "93895088", Position: 5},
	{Category: "absurd", TemplateID: "222403160", Position: 6},
	{Category: "distracted", TemplateID: "112126428", Position: 7},
	{Category: "drake", TemplateID: "181913649", Position: 8},
	{Category: "gru", TemplateID: "124822590", Position: 9},
	{Category: "change my mind", TemplateID: "129242436", Position: 10},
}

// DefaultVideoSources lists the feeds behind the video-eligible categories
var DefaultVideoSources = []domain.VideoSource{
	{Category: "dark humor", Subreddit: "dankvideos", Position: 1},
	{Category: "dark humor", Subreddit: "DarkHumorAndMemes", Position: 2},
	{Category: "distracted", Subreddit: "DistractedVideos", Position: 1},
	{Category: "distracted", Subreddit: "FunnyVideos", Position: 2},
}

// NewCatalogService builds a catalog. Every video source must refer to a
// catalog category.
func NewCatalogService(templates []domain.Template, sources []domain.VideoSource) (*CatalogService, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	c := &CatalogService{
		byKey:   make(map[string]domain.Template, len(templates)),
		sources: make(map[string][]string),
	}

	ordered := append([]domain.Template(nil), templates...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	for _, t := range ordered {
		key := normalize(t.Category)
		if key == "" || t.TemplateID == "" {
			return nil, fmt.Errorf("catalog entry %q has no category or template id", t.Category)
		}
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate catalog category %q", t.Category)
		}
		c.byKey[key] = t
		c.templates = append(c.templates, t)
	}

	ordSources := append([]domain.VideoSource(nil), sources...)
	sort.SliceStable(ordSources, func(i, j int) bool { return ordSources[i].Position < ordSources[j].Position })

	for _, s := range ordSources {
		key := normalize(s.Category)
		if _, ok := c.byKey[key]; !ok {
			return nil, fmt.Errorf("%w: video source %q refers to %q", domain.ErrInvalidCategory, s.Subreddit, s.Category)
		}
		c.sources[key] = append(c.sources[key], s.Subreddit)
	}

	// video categories follow catalog order
	for _, t := range c.templates {
		if len(c.sources[normalize(t.Category)]) > 0 {
			c.video = append(c.video, t.Category)
		}
	}

	return c, nil
}

// NewDefaultCatalogService builds the built-in catalog
func NewDefaultCatalogService() *CatalogService {
	c, err := NewCatalogService(DefaultTemplates, DefaultVideoSources)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalogService reads the catalog from repo
func LoadCatalogService(ctx context.Context, repo repository.TemplateRepository) (*CatalogService, error) {
	templates, err := repo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	sources, err := repo.ListVideoSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("load video sources: %w", err)
	}
	return NewCatalogService(templates, sources)
}

// Lookup returns the template id for category
func (c *CatalogService) Lookup(category string) (string, bool) {
	t, ok := c.byKey[normalize(category)]
	return t.TemplateID, ok
}

// Resolve returns the category as spelled in the catalog
func (c *CatalogService) Resolve(category string) (string, bool) {
	t, ok := c.byKey[normalize(category)]
	return t.Category, ok
}

// IsVideoEligible reports whether category has video sources
func (c *CatalogService) IsVideoEligible(category string) bool {
	return len(c.sources[normalize(category)]) > 0
}

// Categories returns all categories in display order
func (c *CatalogService) Categories() []string {
	out := make([]string, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.Category
	}
	return out
}

// VideoCategories returns the video-eligible categories
func (c *CatalogService) VideoCategories() []string {
	return append([]string(nil), c.video...)
}

// CategoriesFor returns the categories offered in mode
func (c *CatalogService) CategoriesFor(mode domain.Mode) []string {
	if mode == domain.ModeVideo {
		return c.VideoCategories()
	}
	return c.Categories()
}

// VideoSources returns the ordered feeds for category
func (c *CatalogService) VideoSources(category string) []string {
	return append([]string(nil), c.sources[normalize(category)]...)
}

// Label returns the button text for category.
// A Caser is stateful, so one is made per call.
func (c *CatalogService) Label(category string) string {
	return cases.Title(language.English).String(category)
}

func normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
