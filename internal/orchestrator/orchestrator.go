// Package orchestrator drives the polling watcher.
// Each cycle: drain discovered addresses → fetch and evaluate the
// watch-list one address at a time → archive snapshots → anomaly pass.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"dexsentry/internal/anomaly"
	"dexsentry/internal/config"
	"dexsentry/internal/domain"
	"dexsentry/internal/idhash"
	"dexsentry/internal/metrics"
	"dexsentry/internal/observability"
	"dexsentry/internal/pipeline"
	"dexsentry/internal/storage"
	"dexsentry/internal/trade"
)

// MarketSource fetches the current snapshot for one token address.
type MarketSource interface {
	Fetch(ctx context.Context, address string) (*domain.TokenSnapshot, error)
}

// NotificationSink delivers free-text operator messages.
type NotificationSink interface {
	Send(ctx context.Context, message string) error
}

// TradeExecutor submits orders for accepted tokens.
type TradeExecutor interface {
	Execute(ctx context.Context, orderID, address, action string) error
}

// Orchestrator owns the watch-list, the blacklist and every side
// effect. Evaluation itself is delegated to the pipeline; the
// orchestrator applies what the pipeline decided.
type Orchestrator struct {
	cfg        *config.Config
	configPath string

	market    MarketSource
	evaluator *pipeline.Evaluator
	ledger    storage.EvaluationStore
	archive   storage.SnapshotArchive

	notifier NotificationSink
	trader   TradeExecutor

	aggregator *metrics.Aggregator
	discovered <-chan string

	watchlist []string
	watchSet  map[string]struct{}

	// Guards blacklist mutation and the config rewrite it triggers.
	mu sync.Mutex

	obs    *observability.Metrics
	logger *zap.Logger
}

// Options for creating Orchestrator.
type Options struct {
	// Required
	Config    *config.Config
	Market    MarketSource
	Evaluator *pipeline.Evaluator
	Ledger    storage.EvaluationStore
	Notifier  NotificationSink
	Trader    TradeExecutor

	// ConfigPath is where blacklist updates are persisted. Empty
	// disables persistence (dry-run mode); the in-memory blacklist
	// still grows.
	ConfigPath string

	// Archive receives every fetched snapshot. Nil disables archiving.
	Archive storage.SnapshotArchive

	// Discovered delivers watch-list additions between evaluations.
	// Nil disables the feed.
	Discovered <-chan string

	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// New creates an Orchestrator over the given dependencies.
func New(opts Options) *Orchestrator {
	obs := opts.Metrics
	if obs == nil {
		obs = observability.New("", prometheus.NewRegistry())
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	o := &Orchestrator{
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		market:     opts.Market,
		evaluator:  opts.Evaluator,
		ledger:     opts.Ledger,
		archive:    opts.Archive,
		notifier:   opts.Notifier,
		trader:     opts.Trader,
		aggregator: metrics.NewAggregator(opts.Ledger, anomaly.NewAnalyzer()),
		discovered: opts.Discovered,
		watchSet:   make(map[string]struct{}),
		obs:        obs,
		logger:     log.Named("orchestrator"),
	}
	for _, addr := range opts.Config.Watchlist {
		if _, ok := o.watchSet[addr]; ok {
			continue
		}
		o.watchSet[addr] = struct{}{}
		o.watchlist = append(o.watchlist, addr)
	}
	o.obs.WatchlistSize.Set(float64(len(o.watchlist)))
	o.obs.BlacklistSize.Set(float64(len(o.cfg.Blacklist.Coins) + len(o.cfg.Blacklist.Devs)))
	return o
}

// CycleResult contains per-cycle counters for logging and tests.
type CycleResult struct {
	CycleID   string
	Evaluated int
	Accepted  int
	Rejected  int
	Skipped   int // fetch failures and malformed snapshots
	Recorded  int
	Trades    int
	Flagged   int // anomaly flags over the full ledger
	Errors    []string
}

// Run executes cycles until ctx is cancelled, sleeping the configured
// interval between them.
func (o *Orchestrator) Run(ctx context.Context) error {
	interval := o.cfg.UpdateInterval()
	o.logger.Info("watcher running",
		zap.Duration("interval", interval),
		zap.Int("watchlist", len(o.watchlist)))

	for {
		if _, err := o.RunCycle(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// RunCycle executes exactly one cycle. The returned error is non-nil
// only when ctx was cancelled mid-cycle; everything else is absorbed
// into the result.
func (o *Orchestrator) RunCycle(ctx context.Context) (*CycleResult, error) {
	result := &CycleResult{CycleID: uuid.NewString()}
	log := o.logger.With(zap.String("cycle_id", result.CycleID))
	started := time.Now()

	o.drainDiscovered(log)
	log.Debug("cycle started", zap.Int("watchlist", len(o.watchlist)))

	var points []*domain.SnapshotPoint

	// Additions land on the slice tail and are picked up next cycle;
	// the range below iterates the list as it was when it started.
	for _, address := range o.watchlist {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		o.drainDiscovered(log)

		snap, err := o.market.Fetch(ctx, address)
		if err != nil {
			result.Skipped++
			o.obs.FetchErrors.Inc()
			log.Warn("fetch failed", zap.String("address", address), zap.Error(err))
			continue
		}
		if err := pipeline.ValidateSnapshot(snap); err != nil {
			result.Skipped++
			o.obs.FetchErrors.Inc()
			log.Warn("malformed snapshot", zap.String("address", address), zap.Error(err))
			continue
		}
		points = append(points, snap.ArchivePoint())

		outcome := o.evaluator.Evaluate(ctx, snap, o.cfg.Filters, &o.cfg.Blacklist)
		result.Evaluated++
		o.obs.TokensEvaluated.Inc()
		o.applyOutcome(ctx, log, snap, outcome, result)
	}

	o.archiveSnapshots(ctx, log, points, result)
	o.reportAnomalies(ctx, log, result)

	elapsed := time.Since(started)
	o.obs.CyclesTotal.Inc()
	o.obs.CycleDuration.Observe(elapsed.Seconds())
	log.Info("cycle completed",
		zap.Int("evaluated", result.Evaluated),
		zap.Int("accepted", result.Accepted),
		zap.Int("rejected", result.Rejected),
		zap.Int("skipped", result.Skipped),
		zap.Int("recorded", result.Recorded),
		zap.Int("trades", result.Trades),
		zap.Int("flagged", result.Flagged),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("elapsed", elapsed))
	return result, nil
}

// applyOutcome turns one pipeline decision into its side effects:
// ledger append, blacklist update, trade, notification.
func (o *Orchestrator) applyOutcome(ctx context.Context, log *zap.Logger, snap *domain.TokenSnapshot, outcome *pipeline.Outcome, result *CycleResult) {
	if !outcome.Accepted {
		result.Rejected++
		o.obs.RejectionsTotal.WithLabelValues(string(outcome.Reason)).Inc()
		log.Info("token rejected",
			zap.String("address", snap.Address),
			zap.String("symbol", snap.Symbol),
			zap.String("reason", string(outcome.Reason)),
			zap.Error(outcome.Cause))
	}

	if outcome.Record != nil {
		if err := o.ledger.Append(ctx, outcome.Record); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				log.Debug("evaluation already recorded",
					zap.String("evaluation_id", outcome.Record.EvaluationID))
				return
			}
			result.Errors = append(result.Errors, fmt.Sprintf("append %s: %v", snap.Address, err))
			o.obs.AppendErrors.Inc()
			log.Error("ledger append failed", zap.String("address", snap.Address), zap.Error(err))
			return
		}
		result.Recorded++
	}

	if outcome.BlacklistCoin != "" || outcome.BlacklistDev != "" {
		o.applyBlacklist(log, outcome.BlacklistCoin, outcome.BlacklistDev, result)
	}

	if !outcome.Accepted {
		return
	}
	result.Accepted++
	o.obs.Accepted.Inc()
	log.Info("token accepted",
		zap.String("address", snap.Address),
		zap.String("symbol", snap.Symbol),
		zap.String("event", string(outcome.Event)))

	orderID := idhash.ComputeOrderID(outcome.Record.EvaluationID, trade.ActionBuy)
	if err := o.trader.Execute(ctx, orderID, snap.Address, trade.ActionBuy); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("trade %s: %v", snap.Address, err))
		o.obs.SideEffectErrors.WithLabelValues("trade").Inc()
		log.Error("trade failed", zap.String("address", snap.Address), zap.Error(err))
		return
	}
	result.Trades++
	o.obs.TradesExecuted.Inc()

	o.notify(ctx, log, acceptMessage(outcome.Record))
}

// applyBlacklist adds the instructed addresses and rewrites the config
// file. Additions are idempotent; an unchanged blacklist is not saved.
func (o *Orchestrator) applyBlacklist(log *zap.Logger, coin, dev string, result *CycleResult) {
	o.mu.Lock()
	defer o.mu.Unlock()

	changed := o.cfg.Blacklist.AddCoin(coin)
	if o.cfg.Blacklist.AddDev(dev) {
		changed = true
	}
	if !changed {
		return
	}
	o.obs.BlacklistSize.Set(float64(len(o.cfg.Blacklist.Coins) + len(o.cfg.Blacklist.Devs)))
	log.Info("blacklist updated", zap.String("coin", coin), zap.String("dev", dev))

	if o.configPath == "" {
		return
	}
	if err := o.cfg.Save(o.configPath); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("save config: %v", err))
		o.obs.SideEffectErrors.WithLabelValues("config_save").Inc()
		log.Error("config save failed", zap.Error(err))
	}
}

// archiveSnapshots bulk-inserts the cycle's fetched snapshots.
func (o *Orchestrator) archiveSnapshots(ctx context.Context, log *zap.Logger, points []*domain.SnapshotPoint, result *CycleResult) {
	if o.archive == nil || len(points) == 0 {
		return
	}
	if err := o.archive.InsertBulk(ctx, points); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("archive: %v", err))
		o.obs.ArchiveErrors.Inc()
		log.Error("snapshot archive failed", zap.Int("points", len(points)), zap.Error(err))
		return
	}
	log.Debug("snapshots archived", zap.Int("points", len(points)))
}

// reportAnomalies runs the anomaly pass over the full ledger and
// surfaces the summary. Flagged records trigger a notification.
func (o *Orchestrator) reportAnomalies(ctx context.Context, log *zap.Logger, result *CycleResult) {
	summary, err := o.aggregator.ComputeSummary(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("anomaly pass: %v", err))
		log.Error("anomaly pass failed", zap.Error(err))
		return
	}
	result.Flagged = summary.Flagged
	o.obs.AnomalyFlags.Set(float64(summary.Flagged))
	log.Info("anomaly report",
		zap.Int("records", summary.TotalRecords),
		zap.Int("modeled", summary.ModeledRecords),
		zap.Int("flagged", summary.Flagged),
		zap.Float64("score_p90", summary.ScoreP90))

	if summary.Flagged > 0 {
		o.notify(ctx, log, anomalyMessage(summary))
	}
}

// drainDiscovered consumes pending watch-list additions without
// blocking. A closed feed is dropped.
func (o *Orchestrator) drainDiscovered(log *zap.Logger) {
	if o.discovered == nil {
		return
	}
	for {
		select {
		case addr, ok := <-o.discovered:
			if !ok {
				o.discovered = nil
				return
			}
			o.addWatch(log, addr)
		default:
			return
		}
	}
}

// addWatch appends a discovered address to the watch-list if absent.
func (o *Orchestrator) addWatch(log *zap.Logger, addr string) {
	if !domain.ValidAddress(addr) {
		log.Warn("discovered address invalid", zap.String("address", addr))
		return
	}
	if _, ok := o.watchSet[addr]; ok {
		return
	}
	o.watchSet[addr] = struct{}{}
	o.watchlist = append(o.watchlist, addr)
	o.obs.WatchlistSize.Set(float64(len(o.watchlist)))
	log.Info("watch-list addition", zap.String("address", addr))
}

func (o *Orchestrator) notify(ctx context.Context, log *zap.Logger, message string) {
	if err := o.notifier.Send(ctx, message); err != nil {
		o.obs.SideEffectErrors.WithLabelValues("notify").Inc()
		log.Warn("notification failed", zap.Error(err))
		return
	}
	o.obs.NotificationsSent.Inc()
}

func acceptMessage(rec *domain.EvaluationRecord) string {
	return fmt.Sprintf("accepted %s (%s): price=%.8g volume24h=%.8g liquidity=%.8g event=%s",
		rec.Symbol, rec.Address, rec.Price, rec.Volume24h, rec.LiquidityUSD, rec.Event)
}

func anomalyMessage(s *metrics.Summary) string {
	return fmt.Sprintf("anomaly report: %d of %d records flagged (max score %.3f)",
		s.Flagged, s.TotalRecords, s.ScoreMax)
}
