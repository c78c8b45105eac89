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

	badgerstore "github.com/couchcryptid/neo-impact-service/internal/adapter/badger"
	httpadapter "github.com/couchcryptid/neo-impact-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/neo-impact-service/internal/adapter/kafka"
	"github.com/couchcryptid/neo-impact-service/internal/adapter/neows"
	"github.com/couchcryptid/neo-impact-service/internal/config"
	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/history"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
	"github.com/couchcryptid/neo-impact-service/internal/service"
	"golang.org/x/sync/errgroup"
)

const historyGCInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Catalog: live NeoWs, or the embedded sample set as a documented degraded mode.
	var catalog domain.Catalog
	var client *neows.Client
	if cfg.CatalogMode == config.CatalogModeSample {
		sample, err := neows.NewSampleCatalog()
		if err != nil {
			logger.Error("failed to load sample catalog", "error", err)
			os.Exit(1)
		}
		catalog = sample
		logger.Warn("serving embedded sample catalog, asteroid data is not live")
	} else {
		client = neows.NewClient(cfg.NeoWsBaseURL, cfg.NeoWsAPIKey, cfg.NeoWsTimeout, logger, metrics)
		catalog = client
		logger.Info("neows catalog enabled", "base_url", cfg.NeoWsBaseURL, "timeout", cfg.NeoWsTimeout)
	}

	store, err := badgerstore.Open(badgerstore.Config{
		Path:       cfg.HistoryPath,
		InMemory:   cfg.HistoryInMemory,
		SyncWrites: !cfg.HistoryInMemory,
		Logger:     logger.With("component", "badger"),
	})
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}

	sinks := []history.NamedSink{{Name: "badger", Sink: store}}
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		sinks = append(sinks, history.NamedSink{Name: "kafka", Sink: publisher})
		logger.Info("kafka simulation publisher enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSimulationTopic)
	}

	recorder := history.NewRecorder(cfg.HistoryQueueSize, logger, metrics, sinks...)
	svc := service.New(catalog, recorder, store, cfg.HistoryLimit, logger, metrics)

	dataSource := config.CatalogModeLive
	if client == nil {
		dataSource = config.CatalogModeSample
	}
	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:        cfg.HTTPAddr,
		CORSOrigins: cfg.CORSOrigins,
		DataSource:  dataSource,
	}, svc, recorder, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The recorder outlives the HTTP server so in-flight simulations are flushed.
	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	defer stopRecorder()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return recorder.Run(recorderCtx)
	})

	g.Go(func() error {
		store.RunGC(gctx, historyGCInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		stopRecorder()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
	}

	if client != nil {
		client.Close()
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("history store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
