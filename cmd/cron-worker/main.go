package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/orderdesk-backend/internal/cron"
	"github.com/angelmondragon/orderdesk-backend/internal/ingest"
	"github.com/angelmondragon/orderdesk-backend/pkg/config"
	"github.com/angelmondragon/orderdesk-backend/pkg/db"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
	"github.com/angelmondragon/orderdesk-backend/pkg/metrics"
	"github.com/angelmondragon/orderdesk-backend/pkg/migrate"
	"github.com/angelmondragon/orderdesk-backend/pkg/outbox"
	"github.com/angelmondragon/orderdesk-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockName(cfg.App.Env)), cfg.Ingest.SweepInterval)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	sweeper, err := ingest.NewSweeper(ingest.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create ingest sweeper", err)
		os.Exit(1)
	}
	staleJob, err := cron.NewStaleIngestJob(cron.StaleIngestJobParams{
		Logger:     logg,
		Sweeper:    sweeper,
		StaleAfter: cfg.Ingest.StaleAfter,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stale ingest job", err)
		os.Exit(1)
	}
	retentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:      logg,
		DB:          dbClient,
		Repository:  outbox.NewRepository(dbClient.DB()),
		Retention:   cfg.Outbox.Retention,
		MinAttempts: cfg.Outbox.MaxAttempts,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(staleJob, retentionJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Ingest.SweepInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockName(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("cron-worker:%s", env)
}
