// Command stations builds the station reference tables: it downloads the BOM
// station listing, keeps the stations that are still reporting, checks their
// observation feeds, and writes the URL and location tables to OUTPUT_DIR.
//
// All settings come from the environment; see internal/config.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/station-catalog-etl/internal/adapter/fetch"
	kafkaadapter "github.com/couchcryptid/station-catalog-etl/internal/adapter/kafka"
	"github.com/couchcryptid/station-catalog-etl/internal/adapter/parquet"
	"github.com/couchcryptid/station-catalog-etl/internal/adapter/probe"
	"github.com/couchcryptid/station-catalog-etl/internal/config"
	"github.com/couchcryptid/station-catalog-etl/internal/observability"
	"github.com/couchcryptid/station-catalog-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("catalog build failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	sinks := []pipeline.Sink{parquet.NewWriter(cfg.OutputDir, logger)}

	// Catalog publishing is feature-flagged via KAFKA_BROKERS.
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sinks = append(sinks, writer)
		logger.Info("catalog publishing enabled", "topic", cfg.KafkaCatalogTopic)
	}

	p := pipeline.New(
		fetch.NewClient(cfg.SourceURL, cfg.ScratchDir, cfg.FetchTimeout, logger),
		pipeline.NewTransformer(cfg.FeedBaseURL, cfg.StrictParse, logger, metrics),
		probe.NewClient(cfg.ProbeTimeout, logger),
		sinks,
		logger,
		metrics,
	)

	_, runErr := p.Run(ctx)

	// Pushed on failure as well.
	if cfg.PushgatewayURL != "" {
		pushCtx, pushCancel := context.WithTimeout(context.Background(), cfg.ProbeTimeout)
		defer pushCancel()
		if err := metrics.Push(pushCtx, cfg.PushgatewayURL); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}
	return runErr
}
