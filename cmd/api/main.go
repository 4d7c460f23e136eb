package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/orderdesk-backend/api/routes"
	"github.com/angelmondragon/orderdesk-backend/internal/ingest"
	"github.com/angelmondragon/orderdesk-backend/internal/orders"
	"github.com/angelmondragon/orderdesk-backend/internal/parser"
	"github.com/angelmondragon/orderdesk-backend/internal/realtime"
	"github.com/angelmondragon/orderdesk-backend/pkg/config"
	"github.com/angelmondragon/orderdesk-backend/pkg/db"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
	"github.com/angelmondragon/orderdesk-backend/pkg/metrics"
	"github.com/angelmondragon/orderdesk-backend/pkg/migrate"
	"github.com/angelmondragon/orderdesk-backend/pkg/outbox"
	"github.com/angelmondragon/orderdesk-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	loc, err := cfg.Parser.Location()
	if err != nil {
		logg.Error(ctx, "invalid parser timezone", err)
		os.Exit(1)
	}

	publisher, err := realtime.NewRedisPublisher(redisClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create realtime publisher", err)
		os.Exit(1)
	}
	notifier := realtime.NewNotifier(publisher, logg)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	ordersRepo := orders.NewRepository(dbClient.DB())

	writer, err := orders.NewWriter(ordersRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(ctx, "failed to create order writer", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(ordersRepo, dbClient, outboxService, notifier)
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gateOpts := []ingest.GateOption{ingest.WithMetrics(metrics.NewIngestMetrics(registry))}
	if cfg.FeatureFlags.InFlightGuard {
		guard, err := ingest.NewInFlightGuard(redisClient, cfg.Webhook.InFlightTTL)
		if err != nil {
			logg.Error(ctx, "failed to create in-flight guard", err)
			os.Exit(1)
		}
		gateOpts = append(gateOpts, ingest.WithInFlightGuard(guard))
	}

	ingestRepo := ingest.NewRepository(dbClient.DB())
	gate, err := ingest.NewGate(ingestRepo, parser.New(parser.Options{Location: loc}), writer, notifier, logg, gateOpts...)
	if err != nil {
		logg.Error(ctx, "failed to create ingest gate", err)
		os.Exit(1)
	}
	ledger, err := ingest.NewLedger(ingestRepo)
	if err != nil {
		logg.Error(ctx, "failed to create ingest ledger", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	runCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"timezone": loc.String(),
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, gate, ordersService, ledger, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(runCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(runCtx, "api server shutdown failed", err)
		}
	}
}
