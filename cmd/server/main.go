package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/crm-insights/internal/api"
	"github.com/ignite/crm-insights/internal/cache"
	"github.com/ignite/crm-insights/internal/config"
	"github.com/ignite/crm-insights/internal/export"
	"github.com/ignite/crm-insights/internal/gateway"
	gwmemory "github.com/ignite/crm-insights/internal/gateway/memory"
	gwpostgres "github.com/ignite/crm-insights/internal/gateway/postgres"
	"github.com/ignite/crm-insights/internal/pkg/logger"
	"github.com/ignite/crm-insights/internal/report"
	"github.com/ignite/crm-insights/internal/validate"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	// .env is optional; env vars win either way
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logger.DEBUG)
	}

	var gw gateway.Gateway
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			logger.Error("database open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(ctx); err != nil {
			cancel()
			logger.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		cancel()
		gw = gwpostgres.New(db)
		logger.Info("using postgres gateway")
	} else {
		gw = gwmemory.New()
		logger.Warn("DATABASE_URL not set, using empty in-memory gateway")
	}

	var reports cache.Cache = cache.NewMemory()
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, falling back to in-process cache", "error", err)
		} else {
			reports = cache.NewRedis(client)
			logger.Info("using redis report cache", "addr", cfg.Redis.Addr)
		}
		cancel()
	}

	exporter := export.NewExporter(gw)
	exporter.SetChunkSize(cfg.Reports.ExportChunkSize)

	handlers := api.NewHandlers(
		report.NewAggregator(gw),
		exporter,
		reports,
		validate.NewDuplicateChecker(gw),
		cfg.Reports.CacheTTL(),
	)
	server := api.NewServer(cfg.Server, handlers)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
