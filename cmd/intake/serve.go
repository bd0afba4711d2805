package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/caseflow-systems/caseflow-intake/internal/audit"
	"github.com/caseflow-systems/caseflow-intake/internal/classifier"
	"github.com/caseflow-systems/caseflow-intake/internal/clients/attachments"
	"github.com/caseflow-systems/caseflow-intake/internal/clients/minting"
	"github.com/caseflow-systems/caseflow-intake/internal/clients/threadsync"
	"github.com/caseflow-systems/caseflow-intake/internal/config"
	"github.com/caseflow-systems/caseflow-intake/internal/handlers"
	"github.com/caseflow-systems/caseflow-intake/internal/logging"
	"github.com/caseflow-systems/caseflow-intake/internal/middleware"
	"github.com/caseflow-systems/caseflow-intake/internal/normalizer"
	"github.com/caseflow-systems/caseflow-intake/internal/pipeline"
	"github.com/caseflow-systems/caseflow-intake/internal/planner"
	"github.com/caseflow-systems/caseflow-intake/internal/routing"
	"github.com/caseflow-systems/caseflow-intake/internal/server"
	"github.com/caseflow-systems/caseflow-intake/internal/trust"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the intake HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)
	logger = logger.With(logging.Service("intake"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Classifier backend; without an API key every classification
	// degrades to the documented defaults.
	var analyzer classifier.Analyzer
	if cfg.Classifier.APIKey != "" {
		gemini, err := classifier.NewGeminiAnalyzer(ctx, cfg.Classifier.APIKey, cfg.Classifier.Model, cfg.Classifier.Timeout)
		if err != nil {
			return fmt.Errorf("init classifier backend: %w", err)
		}
		analyzer = gemini
	} else {
		logger.Warn("classifier API key not configured, all classifications will default")
	}
	cls := classifier.New(analyzer, logger)

	// Trust evaluator with optional Redis verdict cache.
	trustOpts := []trust.Option{trust.WithContentLimit(cfg.Trust.ContentLimit)}
	if cfg.Trust.CacheEnabled {
		cache, err := trust.NewCache(cfg.Redis.URL, cfg.Trust.CacheTTL)
		if err != nil {
			logger.Warn("trust cache unavailable, continuing without it", logging.Error(err))
		} else {
			defer cache.Close()
			trustOpts = append(trustOpts, trust.WithCache(cache))
		}
	}
	trustEval := trust.NewEvaluator(cfg.Trust.URL, cfg.Trust.Authority, cfg.Trust.Timeout, logger, trustOpts...)

	table, err := routing.LoadTable(cfg.Routing.TablePath)
	if err != nil {
		return fmt.Errorf("load routing table: %w", err)
	}
	router := routing.NewEngine(table, cfg.Trust.QuarantineRoute, cfg.Trust.Threshold, logger, routing.MailRefiner{})

	minter := minting.New(cfg.Minting.URL, cfg.Minting.Timeout)
	syncer := threadsync.New(cfg.ThreadSync.URL, cfg.ThreadSync.Timeout)
	pln := planner.New(minter, syncer, cfg.Planner.AutoResponseFloor, logger)

	var attachmentAnalyzer attachments.Analyzer
	if cfg.Attachment.URL != "" {
		attachmentAnalyzer = attachments.New(cfg.Attachment.URL, cfg.Attachment.Timeout)
	}

	sinks, cleanup, err := buildSinks(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var signer *audit.RecordSigner
	if cfg.Audit.Secret != "" {
		signer = audit.NewRecordSigner(cfg.Audit.Secret)
	}
	recorder := audit.NewRecorder(signer, cfg.Audit.ContentLimit, logger, sinks...)

	pipe := pipeline.New(
		normalizer.DefaultRegistry(),
		cls, trustEval, router, pln, attachmentAnalyzer, recorder, logger,
	)

	handler := handlers.NewIntakeHandler(pipe)
	auth := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Enabled)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(handler, auth),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("intake service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", logging.Error(err))
	}
	return nil
}

// buildSinks assembles the configured audit sinks, defaulting to the
// in-memory sink when nothing durable is enabled.
func buildSinks(ctx context.Context, cfg *config.Config, logger *logging.Logger) ([]audit.Sink, func(), error) {
	var sinks []audit.Sink
	var closers []func()

	if cfg.Audit.JetStream.Enabled {
		js, err := audit.NewJetStreamSink(ctx, cfg.Audit.JetStream.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("init jetstream audit sink: %w", err)
		}
		sinks = append(sinks, js)
		closers = append(closers, js.Close)
	}

	if cfg.Audit.Postgres.Enabled {
		connString := cfg.Audit.Postgres.ConnString()

		logger.Info("running audit database migrations")
		m, err := migrate.New("file://migrations", connString)
		if err != nil {
			return nil, nil, fmt.Errorf("init migrations: %w", err)
		}
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}

		pg, err := audit.NewPostgresSink(ctx, connString)
		if err != nil {
			return nil, nil, fmt.Errorf("init postgres audit sink: %w", err)
		}
		sinks = append(sinks, pg)
		closers = append(closers, pg.Close)
	}

	if cfg.Audit.OpenSearch.Enabled {
		os, err := audit.NewOpenSearchSink(audit.OpenSearchConfig{
			URL:           cfg.Audit.OpenSearch.URL,
			Username:      cfg.Audit.OpenSearch.Username,
			Password:      cfg.Audit.OpenSearch.Password,
			TLSSkipVerify: cfg.Audit.OpenSearch.TLSSkipVerify,
			Index:         cfg.Audit.OpenSearch.Index,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init opensearch audit sink: %w", err)
		}
		sinks = append(sinks, os)
	}

	if len(sinks) == 0 {
		logger.Warn("no durable audit sink configured, using in-memory sink")
		sinks = append(sinks, audit.NewMemorySink())
	}

	cleanup := func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}
	return sinks, cleanup, nil
}
