package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rahulverma-dev/medstock-backend/api/routes"
	"github.com/rahulverma-dev/medstock-backend/internal/catalog"
	"github.com/rahulverma-dev/medstock-backend/internal/grn"
	"github.com/rahulverma-dev/medstock-backend/internal/numbering"
	"github.com/rahulverma-dev/medstock-backend/internal/purchasing"
	"github.com/rahulverma-dev/medstock-backend/internal/receiving"
	"github.com/rahulverma-dev/medstock-backend/internal/taxledger"
	"github.com/rahulverma-dev/medstock-backend/pkg/config"
	"github.com/rahulverma-dev/medstock-backend/pkg/db"
	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
	"github.com/rahulverma-dev/medstock-backend/pkg/metrics"
	"github.com/rahulverma-dev/medstock-backend/pkg/migrate"
	"github.com/rahulverma-dev/medstock-backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	numberingMetrics := metrics.NewNumberingMetrics(registry)
	receivingMetrics := metrics.NewReceivingMetrics(registry)

	grnRepo := grn.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	inventoryRepo := receiving.NewInventoryRepository(dbClient.DB())
	purchasingRepo := purchasing.NewRepository(dbClient.DB())

	engine, err := receiving.NewEngine(catalogRepo, inventoryRepo, purchasingRepo, grnRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create receiving engine", err)
		os.Exit(1)
	}

	numbers, err := numbering.NewGenerator(grnRepo, logg, numberingMetrics, cfg.Numbering)
	if err != nil {
		logg.Error(context.Background(), "failed to create number generator", err)
		os.Exit(1)
	}

	var taxSink grn.TaxEventSink
	if cfg.PubSub.TaxLedgerTopic != "" {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		taxSink, err = taxledger.NewPubSubSink(psClient.TaxLedgerPublisher(), logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create tax ledger sink", err)
			os.Exit(1)
		}
	}

	grnService, err := grn.NewService(grnRepo, purchasingRepo, dbClient, engine, numbers, taxSink, logg, grn.ServiceOptions{
		CompletionTimeout: cfg.Receiving.CompletionTimeout,
		Metrics:           receivingMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create grn service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, metricsHandler, grnService, purchasingRepo),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
