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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	api "github.com/mind-engage/mindengage-batches/internal/api/http"
	auth "github.com/mind-engage/mindengage-batches/internal/auth/middleware"
	"github.com/mind-engage/mindengage-batches/internal/config"
	"github.com/mind-engage/mindengage-batches/internal/db"
	"github.com/mind-engage/mindengage-batches/internal/logging"
	"github.com/mind-engage/mindengage-batches/internal/metrics"
	"github.com/mind-engage/mindengage-batches/internal/plan"
	"github.com/mind-engage/mindengage-batches/internal/rbac"
	"github.com/mind-engage/mindengage-batches/internal/runlog"
	"github.com/mind-engage/mindengage-batches/internal/storage"
	"github.com/mind-engage/mindengage-batches/internal/topics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "error", "text").Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	// routes chi's access log (std log) through the same handler
	slog.SetDefault(logger.Slog())
	if err := run(cfg, logger); err != nil {
		logger.Error("gateway stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logging.SlogLogger) error {
	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	defer dbh.Close()

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		return err
	}

	if cfg.RBACPolicyFile != "" {
		checker, err := rbac.LoadPolicy(cfg.RBACPolicyFile)
		if err != nil {
			return err
		}
		rbac.Default = checker
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewPrometheus(reg, "batches")

	topicStore := topics.NewSQLStore(dbh)
	resolver := topics.Resolver{Store: topicStore, File: cfg.TopicsFile, UseDefaults: true}
	runs := runlog.NewRepo(dbh, cfg.SiteID)
	svc := plan.NewService(
		plan.WithLogger(logger),
		plan.WithMetrics(collector),
		plan.WithJournal(runs),
		plan.WithCacheTTL(cfg.PlanCacheTTL),
	)

	router := api.NewRouter(api.RouterConfig{
		Auth: auth.NewAuthService(cfg.AuthHMACSecret),
		Accounts: auth.Accounts{
			AdminUser:     cfg.AdminUser,
			AdminPassHash: cfg.AdminPassHash,
			AllowDevUsers: cfg.Mode == config.ModeOffline,
		},
		EnableLocalAuth: cfg.EnableLocalAuth,
		CORSOrigins:     cfg.CORSOrigins(),
		Plans: api.PlanHandlers{
			Service:      svc,
			Topics:       resolver,
			DefaultWeeks: cfg.PlanWeeks,
			Blobs:        bs,
			Logger:       logger,
		},
		TopicStore: topicStore,
		Blobs:      bs,
		Runs:       runs,
		Metrics:    promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Ready:      dbh.PingContext,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCtx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
