package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hwalker900/Trading-Signal-Bot/internal/config"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/database"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/ledger"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/logger"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/pairs"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/report"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/scheduler"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/server"
	sig "github.com/Hwalker900/Trading-Signal-Bot/internal/signal"
	"github.com/Hwalker900/Trading-Signal-Bot/internal/telegram"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded", zap.Int("pairs", len(cfg.Trading.Pairs)))

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	// Core components
	registry := pairs.NewRegistry(cfg.Trading.Pairs)
	tradeLedger := ledger.NewLedger(db, registry)
	buffer := sig.NewBuffer()
	notifier := telegram.NewClient(&cfg.Telegram, log)
	aggregator := report.NewAggregator(cfg.Trading.RiskPerTrade)
	intake := sig.NewService(log, registry, tradeLedger, buffer, notifier, cfg.Trading.RiskPerTrade)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start the report scheduler loop
	sched := scheduler.NewScheduler(log, cfg.Scheduler, tradeLedger, aggregator, buffer, notifier)
	go sched.Run(ctx)

	// Start the webhook server
	handler := server.NewHandler(log, intake, tradeLedger, aggregator)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler.Router(),
	}

	go func() {
		log.Info("Starting webhook server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Webhook server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	log.Info("Bot has been shut down.")
}
