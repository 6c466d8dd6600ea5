package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"order-consolidation/internal/domain"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewDirectionsRetriesTotal returns a Prometheus counter for retry attempts against the directions API
func NewDirectionsRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "directions_retries_total",
		Help: "Total number of retry attempts performed against the directions API",
	})
}

// NewDirectionsLatency returns a histogram of directions lookups labelled by outcome
func NewDirectionsLatency() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "directions_request_duration_seconds",
		Help:    "Directions API call latency by outcome",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
}

// Consolidation collects statistics of consolidation runs.
type Consolidation struct {
	runs        *prometheus.CounterVec
	pairs       prometheus.Counter
	combinable  *prometheus.CounterVec
	duration    prometheus.Histogram
	cacheLookup *prometheus.CounterVec
	cacheSkip   prometheus.Counter
}

// NewConsolidation builds unregistered consolidation collectors.
func NewConsolidation() *Consolidation {
	return &Consolidation{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "consolidation_runs_total",
			Help: "Consolidation runs by outcome",
		}, []string{"outcome"}),
		pairs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "consolidation_pairs_evaluated_total",
			Help: "Order pairs evaluated by consolidation runs",
		}),
		combinable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "consolidation_combinable_pairs_total",
			Help: "Combinable order pairs by reason",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "consolidation_run_duration_seconds",
			Help:    "Consolidation run duration",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		cacheLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "consolidation_route_cache_lookups_total",
			Help: "Route cache lookups by result",
		}, []string{"result"}),
		cacheSkip: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "consolidation_route_cache_skipped_total",
			Help: "Fetched routes not cached because the route cache was full",
		}),
	}
}

// Collectors lists everything that must be registered.
func (c *Consolidation) Collectors() []prometheus.Collector {
	return []prometheus.Collector{c.runs, c.pairs, c.combinable, c.duration, c.cacheLookup, c.cacheSkip}
}

// Register registers every collector with reg. Collectors already
// registered under the same names are adopted in place of the new ones.
func (c *Consolidation) Register(reg prometheus.Registerer) error {
	var err error
	if c.runs, err = Register(reg, c.runs); err != nil {
		return err
	}
	if c.pairs, err = Register(reg, c.pairs); err != nil {
		return err
	}
	if c.combinable, err = Register(reg, c.combinable); err != nil {
		return err
	}
	if c.duration, err = Register(reg, c.duration); err != nil {
		return err
	}
	if c.cacheLookup, err = Register(reg, c.cacheLookup); err != nil {
		return err
	}
	if c.cacheSkip, err = Register(reg, c.cacheSkip); err != nil {
		return err
	}
	return nil
}

// Register registers c with reg and returns the collector to use: c itself,
// or the existing one when an equal collector is already registered.
func Register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// RunFinished records a finished run.
func (c *Consolidation) RunFinished(outcome string, evaluatedPairs int, elapsed time.Duration) {
	c.runs.WithLabelValues(outcome).Inc()
	c.pairs.Add(float64(evaluatedPairs))
	c.duration.Observe(elapsed.Seconds())
}

// PairCombinable records a combinable pair.
func (c *Consolidation) PairCombinable(reason domain.Reason) {
	c.combinable.WithLabelValues(string(reason)).Inc()
}

// RouteCacheLookup records a cache hit or miss.
func (c *Consolidation) RouteCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookup.WithLabelValues(result).Inc()
}

// RouteCacheSkipped records a route that did not fit in the cache.
func (c *Consolidation) RouteCacheSkipped() {
	c.cacheSkip.Inc()
}
