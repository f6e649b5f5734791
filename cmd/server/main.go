// Motobot - WhatsApp assistant for MoMo payments, bookings and moto insurance.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akagera/motobot/internal/api"
	"github.com/akagera/motobot/internal/config"
	"github.com/akagera/motobot/internal/engine"
	"github.com/akagera/motobot/internal/middleware"
	"github.com/akagera/motobot/internal/nearby"
	"github.com/akagera/motobot/internal/ocr"
	"github.com/akagera/motobot/internal/qrgen"
	"github.com/akagera/motobot/internal/store"
	"github.com/akagera/motobot/internal/sweep"
	"github.com/akagera/motobot/internal/whatsapp"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// External collaborators, all with the same bounded timeout.
	gateway := whatsapp.NewClient(cfg.WAToken, cfg.WAPhoneNumberID, cfg.HTTPTimeout)
	qrClient := qrgen.NewClient(cfg.QRGenURL, cfg.HTTPTimeout)
	nearbyClient := nearby.NewClient(cfg.NearbyURL, cfg.HTTPTimeout)
	ocrClient := ocr.NewClient(cfg.OCRURL, cfg.HTTPTimeout)

	eng := engine.New(repo, gateway, qrClient, nearbyClient, ocrClient)

	// Initialize handlers.
	webhookHandler := api.NewWebhookHandler(eng, cfg.WAVerifyToken, cfg.WAAppSecret)
	adminHandler := api.NewAdminHandler(repo, gateway)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	webhookHandler.RegisterRoutes(r)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireToken(cfg.AdminToken))
		adminHandler.RegisterRoutes(r)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start sweeper.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweep.Start(ctx, repo, sweep.Policy{
		Interval:       cfg.SweepInterval,
		SessionIdleTTL: cfg.SessionIdleTTL,
		DedupRetention: cfg.DedupRetention,
	})

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
