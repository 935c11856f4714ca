package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mohamedkhairy/argus/internal/api"
	"github.com/mohamedkhairy/argus/internal/cache"
	"github.com/mohamedkhairy/argus/internal/config"
	"github.com/mohamedkhairy/argus/internal/marketdata"
	"github.com/mohamedkhairy/argus/internal/scheduler"
	sig "github.com/mohamedkhairy/argus/internal/signal"
	"github.com/mohamedkhairy/argus/internal/screener"
	"github.com/mohamedkhairy/argus/internal/stocks"
	"github.com/mohamedkhairy/argus/internal/storage"
	"github.com/mohamedkhairy/argus/internal/universe"
	"github.com/mohamedkhairy/argus/pkg/logger"
)

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

	logger.Info("Starting REST API service",
		logger.Int("port", cfg.API.Port),
		logger.Bool("scheduler", cfg.Scheduler.Enabled),
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

	// Initialize services
	universeService := universe.NewService(db, cacheStore, ttl, provider)
	stocksService := stocks.NewService(provider, cacheStore, ttl)
	screenerService := screener.NewScreener(cfg.Screener, universeService, provider, cacheStore, ttl)

	detector := sig.NewDetector(cfg.Signals)
	acceptor := sig.NewAcceptor(db, cfg.Signals.DedupeWindow)
	sweeper := sig.NewSweeper(detector, acceptor, universeService, provider, cfg.Signals.SweepConcurrency)

	// Seed the universe on first boot
	if err := universeService.Initialize(context.Background()); err != nil {
		logger.Warn("Failed to seed universe",
			logger.ErrorField(err),
		)
	}

	// Start the sweep scheduler
	sched := scheduler.New(cfg.Scheduler, sweeper, universeService)
	if err := sched.Start(); err != nil {
		logger.Fatal("Failed to start scheduler",
			logger.ErrorField(err),
		)
	}
	defer sched.Stop()

	// Set up router
	router := api.NewRouter(
		api.NewStockHandler(stocksService),
		api.NewScreenerHandler(screenerService),
		api.NewSignalHandler(db, sweeper),
		api.NewUniverseHandler(universeService),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.API.Port),
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed",
				logger.ErrorField(err),
			)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down REST API service")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed",
			logger.ErrorField(err),
		)
	}
}
