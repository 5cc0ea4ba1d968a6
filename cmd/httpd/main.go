// Command httpd runs the complaint triage HTTP service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/civicgrid/triage/internal/api"
	"github.com/civicgrid/triage/internal/classify"
	"github.com/civicgrid/triage/internal/config"
	"github.com/civicgrid/triage/internal/database"
	"github.com/civicgrid/triage/internal/duplicate"
	"github.com/civicgrid/triage/internal/keywords"
	"github.com/civicgrid/triage/internal/language"
	"github.com/civicgrid/triage/internal/logging"
	"github.com/civicgrid/triage/internal/model"
	"github.com/civicgrid/triage/internal/routing"
	"github.com/civicgrid/triage/internal/storage"
	"github.com/civicgrid/triage/internal/telemetry"
	"github.com/civicgrid/triage/internal/triage"
	"github.com/civicgrid/triage/internal/urgency"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig(config.GetConfigPath("config.yml"))
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure at exit is harmless

	logger.Info("starting triage service",
		logging.String("version", cfg.Service.Version),
		logging.Int("port", cfg.Service.Port))

	// The classifier artifacts are required. A service that cannot
	// classify has no reason to accept traffic.
	bundle, err := model.Load(cfg.Model.Dir)
	if err != nil {
		logger.Fatal("failed to load model artifacts",
			logging.String("dir", cfg.Model.Dir),
			logging.Error(err))
	}
	logger.Info("model artifacts loaded", logging.String("version", bundle.Version()))

	matcher := keywords.NewMatcher()
	classifier := classify.New(bundle, matcher, cfg.Model.FallbackThreshold, logger)

	var translator language.Translator
	if cfg.Language.TranslatorURL != "" {
		translator = language.NewClient(cfg.Language.TranslatorURL, cfg.Language.Timeout, cfg.Language.TranslatorRPS)
		logger.Info("translator enabled", logging.String("url", cfg.Language.TranslatorURL))
	}
	langHandler := language.NewHandler(language.NewDetector(), translator, cfg.Language.WorkingLanguage, logger)

	engine := triage.NewEngine(langHandler, classifier, urgency.NewScorer(matcher), matcher, logger)
	batch := triage.NewBatchProcessor(engine, cfg.Service.BatchConcurrency, logger)
	detector := duplicate.NewDetector(logger)
	router := routing.NewEngine(logger)

	var store api.ComplaintStore
	var roster api.OfficerRoster
	if cfg.Database.Enabled {
		db, dbErr := database.NewPostgresConnection(database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.Database,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxConnections,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if dbErr != nil {
			logger.Fatal("failed to connect to database", logging.Error(dbErr))
		}
		defer db.Close()
		store = database.NewComplaintsRepository(db)
		roster = database.NewOfficersRepository(db)
		logger.Info("database connected",
			logging.String("host", cfg.Database.Host),
			logging.String("database", cfg.Database.Database))
	}

	var indexer api.ComplaintIndexer
	if cfg.Elasticsearch.Enabled {
		esClient, esErr := es.NewClient(es.Config{
			Addresses: []string{cfg.Elasticsearch.URL},
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
		})
		if esErr != nil {
			logger.Fatal("failed to create elasticsearch client", logging.Error(esErr))
		}

		complaintIndexer := storage.NewComplaintIndexer(esClient, cfg.Elasticsearch.Index)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Elasticsearch.Timeout)
		if ensureErr := complaintIndexer.EnsureIndex(ctx); ensureErr != nil {
			// Indexing is best effort; the service still runs on Postgres alone.
			logger.Error("failed to ensure elasticsearch index", logging.Error(ensureErr))
		}
		cancel()
		indexer = complaintIndexer
		logger.Info("elasticsearch indexing enabled", logging.String("index", cfg.Elasticsearch.Index))
	}

	tel := telemetry.NewProvider()
	handler := api.NewHandler(engine, batch, detector, router, store, roster, indexer, tel, logger, cfg.Service.Version)

	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, tel.Handler(), logger)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("server error", logging.Error(err))
	case sig := <-shutdown:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", logging.Error(err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	}
}
