// Command api is the Liga Flag API server.
//
// Usage:
//
//	liga-api
//	API_PORT=8080 liga-api

// @title Liga Flag API
// @version 1.0.0
// @description Coordination API for live flag-football matches: lifecycle, play ledger and derived score, jersey-number resolution, and round-robin fixture generation.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/ligaflagmx/liga-api/internal/api"
	"github.com/ligaflagmx/liga-api/internal/api/handler"
	"github.com/ligaflagmx/liga-api/internal/config"
	"github.com/ligaflagmx/liga-api/internal/db"
	"github.com/ligaflagmx/liga-api/internal/directory"
	"github.com/ligaflagmx/liga-api/internal/live"
	"github.com/ligaflagmx/liga-api/internal/roster"
	"github.com/ligaflagmx/liga-api/internal/service"
	"github.com/ligaflagmx/liga-api/internal/store"

	_ "github.com/ligaflagmx/liga-api/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Live score mirror (optional)
	mirror, err := live.New(cfg.RedisAddr, logger)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	if mirror != nil {
		defer mirror.Close()
		logger.Info("Live score mirror enabled", "addr", cfg.RedisAddr)
	} else {
		logger.Info("Live score mirror disabled (no REDIS_ADDR)")
	}

	// Wire collaborators and services
	dir := directory.NewPG(pool.Pool)
	auth := directory.NewRoleSet(cfg.PrivilegedRoles)
	matchStore := store.New(pool.Pool)
	resolver := roster.NewResolver(dir)
	matches := service.NewMatchService(matchStore, dir,
		directory.TournamentView{PG: dir}, directory.RefereeView{PG: dir},
		auth, resolver, mirror, logger)
	schedules := service.NewScheduleService(matchStore, dir,
		directory.TournamentView{PG: dir}, auth, logger)

	// Create router
	h := handler.New(pool, mirror, cfg, matches, schedules)
	router := api.NewRouter(h, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Liga Flag API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
