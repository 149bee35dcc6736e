package domain

// Template maps a category to its captioning template
type Template struct {
	Category   string
	TemplateID string
	Position   int
}

// VideoSource is one feed consulted for a video category, lowest Position first
type VideoSource struct {
	Category  string
	Subreddit string
	Position  int
}
