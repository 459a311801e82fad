package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/obskit/bufr2geojson/internal/adapter/ecdump"
	httpadapter "github.com/obskit/bufr2geojson/internal/adapter/http"
	kafkaadapter "github.com/obskit/bufr2geojson/internal/adapter/kafka"
	"github.com/obskit/bufr2geojson/internal/config"
	"github.com/obskit/bufr2geojson/internal/observability"
	"github.com/obskit/bufr2geojson/internal/pipeline"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Run the conversion service: poll a directory and convert dumps as they arrive",
		Description: `Run the long-lived conversion service. New or changed .json dumps in the
watch directory are converted to GeoJSON documents in the output directory,
and optionally published to a Kafka topic.

The service is configured through environment variables:

  WATCH_DIR         directory polled for decoded dumps (required)
  OUTPUT_DIR        directory receiving .geojson documents (required)
  POLL_INTERVAL     scan interval, default 10s
  WORKERS           messages converted concurrently, default 4
  CSV_ENABLED       also write a per-input observations CSV, default false
  KAFKA_BROKERS     comma-separated brokers; publishing is off when unset
  KAFKA_TOPIC       topic for published features
  HTTP_ADDR         health/metrics listen address, default :8080
  LOG_LEVEL         default info
  LOG_FORMAT        text or json, default json
  SHUTDOWN_TIMEOUT  default 10s

The HTTP server exposes /healthz, /readyz, /statusz and /metrics.`,
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	runner, err := pipeline.NewRunner(ecdump.NewDecoder(), logger, cfg.Workers)
	if err != nil {
		return err
	}

	// Kafka publishing is feature-flagged via KAFKA_BROKERS / KAFKA_TOPIC.
	var shared []pipeline.FeatureSink
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		shared = append(shared, publisher)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	watcher, err := pipeline.NewWatcher(runner, pipeline.WatcherConfig{
		WatchDir:     cfg.WatchDir,
		OutputDir:    cfg.OutputDir,
		PollInterval: cfg.PollInterval,
		CSVEnabled:   cfg.CSVEnabled,
	}, logger, metrics, shared...)
	if err != nil {
		return err
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, watcher, watcher, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start directory watcher.
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		if err := watcher.Run(ctx); err != nil {
			logger.Error("watcher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	// Let any in-flight conversion finish before the publisher closes.
	select {
	case <-watcherDone:
	case <-shutdownCtx.Done():
		logger.Warn("watcher did not stop within shutdown timeout")
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
