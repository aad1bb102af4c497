// Package main runs the watcher daemon: it polls market data for the
// watch-list, evaluates every token through the filter and trust
// stages, records decisions to the ledger, triggers buys and surfaces
// anomalies over the accumulated history.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dexsentry/internal/config"
	"dexsentry/internal/discovery"
	"dexsentry/internal/logger"
	"dexsentry/internal/marketdata"
	"dexsentry/internal/notify"
	"dexsentry/internal/observability"
	"dexsentry/internal/orchestrator"
	"dexsentry/internal/pipeline"
	"dexsentry/internal/storage"
	chstore "dexsentry/internal/storage/clickhouse"
	"dexsentry/internal/storage/memory"
	"dexsentry/internal/storage/migrations"
	pgstore "dexsentry/internal/storage/postgres"
	"dexsentry/internal/trade"
	"dexsentry/internal/trust"
)

func main() {
	// Load .env if present; values feed the config's env overrides.
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	dryRun := flag.Bool("dry-run", false, "Use in-memory storage and skip config persistence")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals; a second signal forces exit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
		sig = <-sigCh
		log.Warn("forcing exit", zap.String("signal", sig.String()))
		os.Exit(1)
	}()

	ledger, archive, cleanup, err := createStores(ctx, cfg, *dryRun, log)
	if err != nil {
		log.Fatal("create stores", zap.Error(err))
	}
	defer cleanup()

	// Outbound service clients
	market := marketdata.NewClient(cfg.MarketData.Endpoint, cfg.MarketData.APIKey,
		marketdata.WithTimeout(cfg.MarketData.Timeout()))
	fakeVolume := trust.NewFakeVolumeCheck(cfg.FakeVolume.Endpoint, cfg.FakeVolume.APIKey,
		trust.WithTimeout(cfg.FakeVolume.Timeout()))
	contractSafety := trust.NewContractSafetyCheck(cfg.ContractSafety.Endpoint, cfg.ContractSafety.APIKey,
		trust.WithTimeout(cfg.ContractSafety.Timeout()))
	notifier := notify.NewWebhook(cfg.Notify.Endpoint, cfg.Notify.APIKey,
		notify.WithTimeout(cfg.Notify.Timeout()))
	trader := trade.NewExecutor(cfg.Trade.Endpoint, cfg.Trade.APIKey,
		trade.WithTimeout(cfg.Trade.Timeout()))

	// Optional new-pair discovery feed
	var discovered <-chan string
	if cfg.Discovery.Enabled() {
		feed, err := discovery.NewFeed(ctx, cfg.Discovery.WSURL, log, nil)
		if err != nil {
			log.Fatal("connect discovery feed", zap.Error(err))
		}
		defer feed.Close()
		discovered = feed.Addresses()
	}

	obs := observability.New("", nil)
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, log)
	}

	// Blacklist updates rewrite the config file unless running dry.
	savePath := *configPath
	if *dryRun {
		savePath = ""
		log.Info("dry run: storage in memory, config persistence off")
	}

	orch := orchestrator.New(orchestrator.Options{
		Config:     cfg,
		ConfigPath: savePath,
		Market:     market,
		Evaluator:  pipeline.NewEvaluator(fakeVolume, contractSafety),
		Ledger:     ledger,
		Archive:    archive,
		Notifier:   notifier,
		Trader:     trader,
		Discovered: discovered,
		Metrics:    obs,
		Logger:     log,
	})

	if err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("watcher failed", zap.Error(err))
	}
	log.Info("shutdown complete")
}

// createStores connects the ledger and the optional snapshot archive.
// Dry runs get memory stores; otherwise migrations are applied before
// the stores are handed out.
func createStores(ctx context.Context, cfg *config.Config, dryRun bool, log *zap.Logger) (storage.EvaluationStore, storage.SnapshotArchive, func(), error) {
	if dryRun {
		return memory.NewEvaluationStore(), memory.NewSnapshotArchive(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}
	ledger := pgstore.NewEvaluationStore(pool)

	if cfg.ClickHouse.DSN == "" {
		log.Info("snapshot archive disabled")
		return ledger, nil, func() { pool.Close() }, nil
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouse.DSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}
	archive := chstore.NewSnapshotArchive(conn)

	cleanup := func() {
		conn.Close()
		pool.Close()
	}
	return ledger, archive, cleanup, nil
}

// serveMetrics exposes /health and /metrics.
func serveMetrics(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())

	log.Info("metrics server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server failed", zap.Error(err))
	}
}
