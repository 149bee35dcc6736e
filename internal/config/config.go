package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken        string        `env:"BOT_TOKEN,required,notEmpty"`
	WelcomeImageURL string        `env:"WELCOME_IMAGE_URL" envDefault:"https://i.imgur.com/ExdKOOz.png"`
	ReconnectDelay  time.Duration `env:"RECONNECT_DELAY" envDefault:"5s"`
	PollTimeout     time.Duration `env:"POLL_TIMEOUT" envDefault:"10s"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	MigrationsURL   string        `env:"MIGRATIONS_URL" envDefault:"file://migrations"`

	Imgflip  ImgflipConfig  `envPrefix:"IMGFLIP_"`
	Reddit   RedditConfig   `envPrefix:"REDDIT_"`
	Database DatabaseConfig `envPrefix:"DB_"`
}

// ImgflipConfig holds captioning service settings
type ImgflipConfig struct {
	Username string        `env:"USERNAME"`
	Password string        `env:"PASSWORD"`
	URL      string        `env:"URL" envDefault:"https://api.imgflip.com/caption_image"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// RedditConfig holds content listing settings
type RedditConfig struct {
	BaseURL   string        `env:"BASE_URL" envDefault:"https://www.reddit.com"`
	UserAgent string        `env:"USER_AGENT" envDefault:"MemeBot/1.0"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"15s"`
	Limit     int           `env:"LIMIT" envDefault:"50"`
}

// DatabaseConfig holds the optional catalog database settings
type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	Name     string `env:"NAME" envDefault:"memebot"`
	User     string `env:"USER" envDefault:"memebot"`
	Password string `env:"PASSWORD"`
}

// Load reads configuration from .env and environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.ReconnectDelay <= 0 {
		return nil, fmt.Errorf("RECONNECT_DELAY must be positive")
	}
	if cfg.Reddit.Limit <= 0 {
		return nil, fmt.Errorf("REDDIT_LIMIT must be positive")
	}

	return cfg, nil
}

// HasImgflipCredentials reports whether both captioning credentials are set
func (c *Config) HasImgflipCredentials() bool {
	return c.Imgflip.Username != "" && c.Imgflip.Password != ""
}

// Enabled reports whether the catalog should be read from Postgres
func (d DatabaseConfig) Enabled() bool {
	return d.Password != ""
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
