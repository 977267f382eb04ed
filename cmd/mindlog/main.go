package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MikeSquared-Agency/mindlog/internal/analytics"
	"github.com/MikeSquared-Agency/mindlog/internal/api"
	"github.com/MikeSquared-Agency/mindlog/internal/config"
	"github.com/MikeSquared-Agency/mindlog/internal/events"
	"github.com/MikeSquared-Agency/mindlog/internal/experiment"
	"github.com/MikeSquared-Agency/mindlog/internal/sentiment"
	"github.com/MikeSquared-Agency/mindlog/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("mindlog starting", "port", cfg.Port)

	// Response templates are static config; a hole in the table must
	// stop the binary here, never surface at request time.
	if err := experiment.ValidateResponses(); err != nil {
		slog.Error("invalid response templates", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected")

	// Sentiment scorer
	scorer := sentiment.NewClient(cfg.SentimentURL)
	slog.Info("sentiment scorer ready", "url", cfg.SentimentURL)

	// NATS publisher (optional; the service runs without eventing)
	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		publisher, err = events.NewPublisher(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without event publishing")
	}

	// Triage engine
	detector := experiment.NewCrisisDetector(cfg.CrisisKeywords)
	assigner := experiment.NewAssigner(nil)
	engine := experiment.NewEngine(scorer, detector, assigner, slog.Default())

	// Analyzer
	opts := []analytics.Option{analytics.WithConfidence(cfg.Confidence)}
	if cfg.ExcludePending {
		opts = append(opts, analytics.WithExcludePending())
	}
	analyzer := analytics.New(db, opts...)

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, engine, db, analyzer, publisher, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("mindlog ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("mindlog stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
