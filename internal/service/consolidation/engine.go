package consolidation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"order-consolidation/internal/domain"
	"order-consolidation/internal/logx"
)

// Engine defaults.
const (
	DefaultWorkers   = 8
	DefaultBatchSize = 32
)

// Config tunes a consolidation Engine.
type Config struct {
	Window          time.Duration
	ToleranceM      float64
	ProviderTimeout time.Duration
	Workers         int
	BatchSize       int
	CacheRoutes     bool
	CacheSize       int
}

// Engine evaluates every unordered pair of a snapshot and keeps the combinable ones.
// It holds no state between runs.
type Engine struct {
	window  TimeWindow
	checker *RouteChecker
	cfg     Config
	rec     Recorder
	logger  logx.Logger
}

// NewEngine builds an Engine over provider. Zero config values fall back to package defaults.
func NewEngine(provider RouteProvider, cfg Config, rec Recorder, logger logx.Logger) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Engine{
		window:  NewTimeWindow(cfg.Window),
		checker: NewRouteChecker(provider, cfg.ToleranceM, cfg.ProviderTimeout),
		cfg:     cfg,
		rec:     rec,
		logger:  logger,
	}
}

type pair struct{ a, b int }

type pairStats struct {
	invalidTimestamps int
	routeFailures     int
	interrupted       bool
}

type batchOutcome struct {
	pairs             []domain.PairVerdict
	evaluated         int
	invalidTimestamps int
	routeFailures     int
}

// Run evaluates all C(N,2) pairs of orders. Batches of pairs are spread over a bounded
// worker pool. When ctx is done no new pairs or provider calls are started and the
// verdicts gathered so far are returned with Partial set.
func (e *Engine) Run(ctx context.Context, orders []domain.Order) domain.ConsolidationResult {
	start := time.Now()
	pairs := enumeratePairs(len(orders))
	batches := splitBatches(pairs, e.cfg.BatchSize)

	var cache *RouteCache
	if e.cfg.CacheRoutes {
		cache = NewRouteCache(e.cfg.CacheSize, e.rec)
	}

	outcomes := make([]batchOutcome, len(batches))
	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	for i := range batches {
		i := i
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcomes[i] = e.runBatch(ctx, orders, batches[i], cache)
			return nil
		})
	}
	_ = g.Wait()

	res := domain.ConsolidationResult{
		Pairs:      make([]domain.PairVerdict, 0),
		TotalPairs: len(pairs),
		StartedAt:  start,
	}
	for _, o := range outcomes {
		res.Pairs = append(res.Pairs, o.pairs...)
		res.EvaluatedPairs += o.evaluated
		res.InvalidTimestamps += o.invalidTimestamps
		res.RouteLookupFailures += o.routeFailures
	}
	res.Partial = res.EvaluatedPairs < res.TotalPairs
	res.Duration = time.Since(start)
	return res
}

func (e *Engine) runBatch(ctx context.Context, orders []domain.Order, batch []pair, cache *RouteCache) batchOutcome {
	var out batchOutcome
	for _, p := range batch {
		if ctx.Err() != nil {
			return out
		}
		a, b := orders[p.a], orders[p.b]
		v, st := e.evaluate(ctx, a, b, cache)
		if st.interrupted {
			return out
		}
		out.evaluated++
		out.invalidTimestamps += st.invalidTimestamps
		out.routeFailures += st.routeFailures
		if v.Combinable {
			e.rec.PairCombinable(v.Reason)
			out.pairs = append(out.pairs, domain.PairVerdict{OrderA: a.ID, OrderB: b.ID, Verdict: v})
		}
	}
	return out
}

// evaluate applies the time gate, then the identical endpoints shortcut,
// then route containment in both directions.
func (e *Engine) evaluate(ctx context.Context, a, b domain.Order, cache *RouteCache) (domain.Verdict, pairStats) {
	var st pairStats

	w, err := e.window.Evaluate(a.DateCreated, b.DateCreated)
	if err != nil {
		st.invalidTimestamps++
		e.logger.Debug("pair skipped",
			logx.Int64("order_a", a.ID),
			logx.Int64("order_b", b.ID),
			logx.Err(err),
		)
		return domain.NotCombinable(), st
	}
	if !w.Within {
		return domain.NotCombinable(), st
	}

	if SameEndpoints(a, b) {
		return domain.Verdict{Combinable: true, Reason: domain.ReasonIdenticalEndpoints}, st
	}

	for _, dir := range [2][2]domain.Order{{a, b}, {b, a}} {
		c, ok, err := e.checker.Contains(ctx, dir[0], dir[1], cache)
		if err != nil {
			if ctx.Err() != nil {
				st.interrupted = true
				return domain.NotCombinable(), st
			}
			st.routeFailures++
			e.logger.Warn("route containment failed",
				logx.Int64("base_order", dir[0].ID),
				logx.Int64("candidate_order", dir[1].ID),
				logx.Err(err),
			)
			continue
		}
		if ok {
			return domain.Verdict{
				Combinable:  true,
				Reason:      domain.ReasonRouteContained,
				Containment: &c,
			}, st
		}
	}
	return domain.NotCombinable(), st
}

func enumeratePairs(n int) []pair {
	if n < 2 {
		return nil
	}
	out := make([]pair, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, pair{a: i, b: j})
		}
	}
	return out
}

func splitBatches(pairs []pair, size int) [][]pair {
	if len(pairs) == 0 {
		return nil
	}
	out := make([][]pair, 0, (len(pairs)+size-1)/size)
	for start := 0; start < len(pairs); start += size {
		end := min(start+size, len(pairs))
		out = append(out, pairs[start:end])
	}
	return out
}
