package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memebot/internal/config"
	"memebot/internal/handler"
	"memebot/internal/repository/memory"
	"memebot/internal/repository/postgres"
	"memebot/internal/runner"
	"memebot/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const sweepInterval = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Meme Bot")

	if !cfg.HasImgflipCredentials() {
		logger.Warn("Imgflip credentials are not set, custom memes will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the template catalog
	catalog, closeDB, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	defer closeDB()

	logger.Info("Catalog loaded", zap.Int("categories", len(catalog.Categories())))

	// Initialize services
	sessions := memory.NewSessionStore()
	captionService := service.NewCaptionService(catalog, service.CaptionConfig{
		URL:      cfg.Imgflip.URL,
		Username: cfg.Imgflip.Username,
		Password: cfg.Imgflip.Password,
		Timeout:  cfg.Imgflip.Timeout,
	}, logger)
	redditService := service.NewRedditService(catalog, service.RedditConfig{
		BaseURL:   cfg.Reddit.BaseURL,
		UserAgent: cfg.Reddit.UserAgent,
		Limit:     cfg.Reddit.Limit,
		Timeout:   cfg.Reddit.Timeout,
	}, logger)
	conversationService := service.NewConversationService(
		sessions,
		catalog,
		captionService,
		redditService,
		cfg.WelcomeImageURL,
		logger,
	)
	janitorService := service.NewJanitorService(sessions, cfg.SessionTTL, logger)

	// Start cleanup job in background
	go runCleanupJob(ctx, janitorService, logger)

	dial := handler.NewDialer(handler.DialConfig{
		Token:       cfg.BotToken,
		PollTimeout: cfg.PollTimeout,
	}, conversationService, logger)

	logger.Info("Bot started successfully")

	// Serve until interrupted, reconnecting after every failure
	_ = runner.New(dial, cfg.ReconnectDelay, logger).Run(ctx)

	logger.Info("Bot stopped gracefully")
}

// newLogger builds a production logger at the given level
func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = atomicLevel
	return zapCfg.Build()
}

// loadCatalog reads the catalog from PostgreSQL when a database is
// configured and falls back to the built-in one otherwise
func loadCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service.CatalogService, func(), error) {
	if !cfg.Database.Enabled() {
		logger.Info("No database configured, using built-in catalog")
		return service.NewDefaultCatalogService(), func() {}, nil
	}

	// Connect to database with retries
	db, err := connectDatabase(ctx, cfg.DSN(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, cfg.MigrationsURL, logger); err != nil {
		db.Close()
		return nil, nil, err
	}

	catalog, err := service.LoadCatalogService(ctx, postgres.NewTemplateRepo(db))
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return catalog, func() { db.Close() }, nil
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			continue
		}

		// Test connection
		if err = db.PingContext(ctx); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			continue
		}

		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations creates and seeds the catalog tables
func runMigrations(db *sql.DB, sourceURL string, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runCleanupJob periodically drops idle sessions
func runCleanupJob(ctx context.Context, janitor *service.JanitorService, logger *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			janitor.CleanupStale()
		}
	}
}
