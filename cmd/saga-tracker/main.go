package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/draftea/saga-tracker/shared/telemetry"
	"github.com/draftea/saga-tracker/tracker-service/config"
	"github.com/draftea/saga-tracker/tracker-service/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.ReadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := telemetry.InitLogger(cfg.ServiceName, cfg.LogLevel)
	logger.Info("starting service",
		slog.String("env", cfg.Env),
		slog.String("port", cfg.Port),
		slog.String("database_driver", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	deps, err := config.BuildDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Error("error closing dependencies", slog.String("error", err.Error()))
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if deps.EventSubscriber != nil {
		g.Go(func() error {
			telCtx := telemetry.WithTelemetry(gctx, deps.Telemetry)
			if err := deps.EventSubscriber.Subscribe(telCtx, deps.SagaEventHandlers); err != nil {
				return err
			}
			<-gctx.Done()
			return nil
		})
	} else {
		logger.Warn("no queue configured, event consumption disabled")
	}

	g.Go(func() error {
		return deps.ActiveSagaPoller.Run(telemetry.WithTelemetry(gctx, deps.Telemetry))
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("service stopped")
}

func setupRouter(deps *config.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// Telemetry middleware (inject telemetry into context)
	if deps.Telemetry != nil {
		r.Use(telemetry.Middleware(deps.Telemetry))
	}

	// Metrics endpoint for Prometheus
	r.Handle("/metrics", handlers.NewMetricsHandler())

	// Register saga routes and /health
	deps.SagaHandlers.RegisterRoutes(r)

	return r
}
