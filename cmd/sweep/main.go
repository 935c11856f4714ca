package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mohamedkhairy/argus/internal/cache"
	"github.com/mohamedkhairy/argus/internal/config"
	"github.com/mohamedkhairy/argus/internal/marketdata"
	sig "github.com/mohamedkhairy/argus/internal/signal"
	"github.com/mohamedkhairy/argus/internal/storage"
	"github.com/mohamedkhairy/argus/internal/universe"
	"github.com/mohamedkhairy/argus/pkg/logger"
)

// One-shot signal detection sweep across the active universe, intended for
// manual runs and external cron.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting signal sweep",
		logger.Int("concurrency", cfg.Signals.SweepConcurrency),
		logger.Duration("dedupe_window", cfg.Signals.DedupeWindow),
	)

	// Initialize cache store
	cacheStore, err := cache.NewRedisStore(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize Redis cache",
			logger.ErrorField(err),
		)
	}
	defer cacheStore.Close()

	ttl := cache.NewTTLPolicy(cfg.Cache)

	// Initialize durable store
	db, err := storage.NewPostgresClient(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize PostgreSQL",
			logger.ErrorField(err),
		)
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("Failed to ensure database schema",
			logger.ErrorField(err),
		)
	}

	// Initialize market data provider
	provider := marketdata.NewYahooProvider(cfg.MarketData)

	universeService := universe.NewService(db, cacheStore, ttl, provider)
	detector := sig.NewDetector(cfg.Signals)
	acceptor := sig.NewAcceptor(db, cfg.Signals.DedupeWindow)
	sweeper := sig.NewSweeper(detector, acceptor, universeService, provider, cfg.Signals.SweepConcurrency)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	result, err := sweeper.Run(ctx)
	if err != nil {
		logger.Fatal("Signal sweep failed",
			logger.ErrorField(err),
		)
	}

	logger.Info("Signal sweep finished",
		logger.Int("scanned", result.Scanned),
		logger.Int("accepted", result.Accepted),
		logger.Int("failed", result.Failed),
	)
}
