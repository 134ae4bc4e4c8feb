package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bilancio/internal/amqp"
	"bilancio/internal/analysis"
	"bilancio/internal/config"
	"bilancio/internal/core"
	applog "bilancio/internal/log"
	"bilancio/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting alerts-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	analyzer := analysis.NewAnalyzer(repo, cfg.ProjectionMonths)

	// AMQP is optional: without a broker the worker still runs analysis
	// passes and logs the results.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in log-only mode", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled, alert digests will not be published")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Alert analysis configured",
		"interval", cfg.AnalysisInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.AnalysisInterval)
	defer ticker.Stop()

	structured := applog.NewStructuredLogger(logger)

	// Run an initial pass on startup so a fresh deployment does not wait a
	// full interval before the first digest.
	runAnalysisPass(ctx, logger, structured, analyzer, amqpClient)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runAnalysisPass(ctx, logger, structured, analyzer, amqpClient)
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down alerts-worker...")
	cancel()

	// Give the in-flight pass a moment to finish
	time.Sleep(2 * time.Second)
	logger.Info("Alerts-worker shutdown complete")
}

// runAnalysisPass generates the full alert set for today and publishes a
// digest when a broker is configured.
func runAnalysisPass(ctx context.Context, logger *applog.Logger, structured *applog.StructuredLogger, analyzer *analysis.Analyzer, amqpClient *amqp.Client) {
	now := time.Now()
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())

	alerts, err := analyzer.GenerateAllAlerts(ctx, today)
	if err != nil {
		structured.LogError(ctx, "Alert generation failed", err,
			applog.ComponentAlerts, applog.OpAnalyze, applog.NewFields())
		return
	}

	summary := analysis.SummarizeAlerts(alerts)
	byPriority := make(map[string]int, len(summary.ByPriority))
	for priority, count := range summary.ByPriority {
		byPriority[string(priority)] = count
	}
	structured.LogAlertPass(ctx, summary.Total, byPriority)

	if amqpClient == nil || len(alerts) == 0 {
		return
	}

	msg := amqp.NewAlertDigestMessage(today, alerts, summary.ByPriority)
	if err := amqpClient.PublishAlertDigest(ctx, msg); err != nil {
		logger.Error("Failed to publish alert digest", "error", err, "date", today.ISO())
		return
	}
	logger.Info("Alert digest published", "date", today.ISO(), "alert_count", summary.Total)
}
