/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll settlement server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, then flags)
  2. Initialize logger and SQLite store
  3. Build notification dispatchers (in-app, WhatsApp when configured)
  4. Create settlement service and API handler
  5. Start pay-day scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

ENVIRONMENT:
  See config/config.go for the full list (PORT, DB_PATH, LOG_LEVEL,
  CORS_ORIGINS, SETTLEMENT_MAX_ATTEMPTS, STRICT_REPAYMENT_PERIOD,
  PAYDAY_CHECK_INTERVAL, PAYDAY_SCHEDULER, WA_API_URL, WA_ACCESS_TOKEN,
  WA_TEMPLATE, CURRENCY_LABEL).

SEE ALSO:
  - api/server.go: Router configuration
  - settlement/service.go: Settlement workflow
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/notify"
	"github.com/warp/payroll-engine/settlement"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	// Flags override the environment
	port := flag.Int("port", cfg.App.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Database.Path, "SQLite database path")
	flag.Parse()

	logger := config.NewLogger(cfg.App.LogLevel, os.Stdout)

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	// Notifications
	dispatchers := notify.Multi{notify.NewInApp(store)}
	if cfg.WhatsApp.Enabled() {
		dispatchers = append(dispatchers, notify.NewWhatsApp(cfg.WhatsApp.URL, cfg.WhatsApp.Token, cfg.WhatsApp.Template))
		logger.Info("whatsapp notifications enabled")
	}

	// Settlement
	svc := settlement.NewService(store, dispatchers, logger)
	svc.MaxAttempts = cfg.Settlement.MaxAttempts
	svc.Calculator.StrictRepaymentPeriod = cfg.Settlement.StrictRepaymentPeriod
	svc.Currency = cfg.App.CurrencyLabel

	handler := api.NewHandler(store, svc, logger)
	router := api.NewRouter(handler, cfg.App.CORSOrigins)

	// Pay-day reminders
	scheduler := api.NewPaydayScheduler(store, dispatchers, logger)
	scheduler.CheckInterval = cfg.App.PaydayCheck
	scheduler.Enabled = cfg.App.SchedulerOn
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{"port": *port, "db": *dbPath}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}

	logger.Info("server stopped")
}
