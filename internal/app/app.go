package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/api"
	"github.com/guttosm/stockpulse/internal/cache"
	"github.com/guttosm/stockpulse/internal/ingestion"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/provider"
	"github.com/guttosm/stockpulse/internal/service"
	"github.com/guttosm/stockpulse/internal/storage"
)

const migrateTimeout = time.Minute

// NewProvider builds the market data provider from configuration.
func NewProvider(cfg config.ProviderConfig) provider.Provider {
	return provider.NewYahooProvider(provider.YahooConfig{
		RatePerMinute: cfg.RatePerMinute,
		MaxRetries:    cfg.MaxRetries,
	})
}

// NewCache builds the HTTP response cache; nil when disabled by a
// non-positive TTL or size.
func NewCache(cfg config.CacheConfig) cache.Cache[[]byte] {
	if cfg.TTL <= 0 || cfg.Size <= 0 {
		return nil
	}
	return cache.NewTTLCache[[]byte](cfg.Size, cfg.TTL)
}

// RefreshOptions maps the refresh configuration to ingestion options,
// loading the universe file when one is configured.
func RefreshOptions(cfg config.RefreshConfig) (ingestion.Options, error) {
	universe, err := ingestion.LoadUniverse(cfg.UniverseFile)
	if err != nil {
		return ingestion.Options{}, err
	}
	return ingestion.Options{
		Days:     cfg.Days,
		Parallel: cfg.Parallel,
		Force:    cfg.Force,
		Universe: universe,
	}, nil
}

// RefreshJob returns the scheduled job refreshing the configured universe.
func RefreshJob(repo storage.StockRepository, p provider.Provider, opts ingestion.Options) ingestion.Job {
	return func(ctx context.Context) (ingestion.Result, error) {
		return ingestion.Refresh(ctx, repo, p, opts)
	}
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres() and optionally applies migrations.
//   - Initializes the repository, provider, service and cache layers.
//   - Creates the HTTP handler layer and configures the Gin router.
//   - Registers health and readiness probes.
//   - Starts the refresh scheduler when REFRESH_SCHEDULE is set.
//   - Provides a cleanup function to stop the scheduler and close the DB.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Connect to PostgreSQL
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	if cfg.Postgres.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
		err := Migrate(ctx, db, "up")
		cancel()
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	// Initialize repository layer (responsible for DB access)
	repo := storage.NewStockRepository(db)
	p := NewProvider(cfg.Provider)

	// Initialize service layer (business logic)
	svc := service.NewStockService(repo, p)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc, NewCache(cfg.Cache))

	// Setup Gin router with routes
	router := api.NewRouter(handler, cfg.Server)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(db.PingContext)
	healthHandler.Register(router)

	sched, err := startScheduler(cfg.Refresh, repo, p)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	// Cleanup resources on shutdown
	cleanup := func() {
		if sched != nil {
			sched.Stop()
		}
		_ = db.Close()
	}

	return router, cleanup, nil
}

func startScheduler(cfg config.RefreshConfig, repo storage.StockRepository, p provider.Provider) (*ingestion.Scheduler, error) {
	if cfg.Schedule == "" {
		return nil, nil
	}
	opts, err := RefreshOptions(cfg)
	if err != nil {
		return nil, err
	}
	sched, err := ingestion.NewScheduler(context.Background(), cfg.Schedule, RefreshJob(repo, p, opts))
	if err != nil {
		return nil, err
	}
	sched.Start()
	logger.L().Info().Str("schedule", cfg.Schedule).Int("companies", len(opts.Universe)).Msg("refresh scheduler enabled")
	return sched, nil
}

// OpenStore connects to PostgreSQL and returns the repository together with
// the handle for the caller to close. Used by the command line tools.
func OpenStore(cfg config.Config) (*sql.DB, storage.StockRepository, error) {
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	return db, storage.NewStockRepository(db), nil
}
