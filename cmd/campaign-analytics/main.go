package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/config"
	"github.com/radiusdt/campaign-analytics/internal/database"
	"github.com/radiusdt/campaign-analytics/internal/geo"
	"github.com/radiusdt/campaign-analytics/internal/httpserver"
	"github.com/radiusdt/campaign-analytics/internal/metrics"
	"github.com/radiusdt/campaign-analytics/internal/middleware"
	"github.com/radiusdt/campaign-analytics/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Can't use logger yet
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	logger, err := middleware.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("starting campaign-analytics",
		zap.String("env", cfg.Server.Env),
		zap.String("addr", cfg.Server.Addr),
		zap.String("store", cfg.Store.Driver),
	)

	if cfg.IsProduction() && !cfg.Auth.Enabled {
		logger.Warn("API key authentication is disabled in production")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics(cfg.Metrics.Namespace, nil)
	}

	// Stores
	var stores *storage.Stores
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.NewPostgresDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
		}
		defer db.Close()

		if cfg.Store.EnsureSchema {
			if err := storage.EnsurePostgresSchema(ctx, db.Pool); err != nil {
				logger.Fatal("failed to create schema", zap.Error(err))
			}
		}
		stores = storage.NewPostgresStores(db)

	case config.StoreMongo:
		mdb, err := database.NewMongoDB(ctx, cfg.Mongo, logger)
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			_ = mdb.Close(closeCtx)
		}()

		if cfg.Store.EnsureSchema {
			if err := storage.EnsureMongoIndexes(ctx, mdb.DB); err != nil {
				logger.Fatal("failed to create indexes", zap.Error(err))
			}
		}
		stores = storage.NewMongoStores(mdb.DB)

	default:
		stores = storage.NewInMemoryStores()
	}

	deps := &httpserver.Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		Stores:  stores,
	}

	// City cache
	if cfg.Redis.Enabled {
		redis, err := database.NewRedisDB(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redis.Close()
		deps.CityCache = geo.NewRedisCityCache(redis.Client, cfg.Geo.CacheTTL)
	}

	// Reverse geocoding
	if cfg.Geo.Enabled {
		google, err := geo.NewGoogleGeocoder(cfg.Geo.APIKey, cfg.Geo.BaseURL, nil)
		if err != nil {
			logger.Fatal("failed to create geocoder", zap.Error(err))
		}
		deps.Geocoder = geo.NewBreakerGeocoder(google, geo.BreakerConfig{
			Name:         "geocoder",
			MinRequests:  cfg.Geo.BreakerMinRequests,
			FailureRatio: cfg.Geo.BreakerFailureRatio,
			OpenTimeout:  cfg.Geo.BreakerOpenTimeout,
		}, logger, m)
	} else {
		logger.Warn("geocoding disabled, location events will be rejected")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpserver.NewServer(deps),
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("HTTP server starting", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	cancel()

	logger.Info("server stopped")
}
