package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/doppelganger-engine/internal/adapter/census"
	firestoreadapter "github.com/couchcryptid/doppelganger-engine/internal/adapter/firestore"
	"github.com/couchcryptid/doppelganger-engine/internal/adapter/gemini"
	httpadapter "github.com/couchcryptid/doppelganger-engine/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/doppelganger-engine/internal/adapter/kafka"
	"github.com/couchcryptid/doppelganger-engine/internal/config"
	"github.com/couchcryptid/doppelganger-engine/internal/lookup"
	"github.com/couchcryptid/doppelganger-engine/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	generator, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout, metrics, logger)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}

	fetcher := census.NewClient(cfg.CensusBaseURL, cfg.CensusTimeout, metrics, logger)

	// Initialize the cache (feature-flagged via CACHE_ENABLED / FIRESTORE_PROJECT_ID).
	// An init failure is not fatal; every lookup is just recomputed.
	var cache lookup.CacheStore
	var store *firestoreadapter.Store
	if cfg.CacheEnabled {
		store, err = firestoreadapter.NewStore(ctx, cfg.FirestoreProject, cfg.CacheCollection, logger)
		if err != nil {
			logger.Error("firestore init failed, running without cache", "error", err)
		} else {
			cache = store
			metrics.CacheEnabled.Set(1)
			logger.Info("firestore cache enabled", "project", cfg.FirestoreProject, "collection", cfg.CacheCollection)
		}
	} else {
		logger.Info("firestore cache disabled")
	}

	var audit lookup.AuditPublisher
	var publisher *kafkaadapter.Publisher
	if cfg.AuditEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		audit = publisher
		logger.Info("lookup auditing enabled", "topic", cfg.KafkaAuditTopic)
	} else {
		logger.Info("lookup auditing disabled")
	}

	svc := lookup.New(fetcher, generator, generator, cache, audit, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("firestore close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
