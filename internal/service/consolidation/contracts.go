package consolidation

import (
	"context"
	"time"

	"order-consolidation/internal/domain"
)

// RouteProvider returns the driving route between two coordinates.
type RouteProvider interface {
	Route(ctx context.Context, origin, destination domain.Coordinate) (domain.Route, error)
}

// OrderLister supplies the snapshot a consolidation run works on.
type OrderLister interface {
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

// ResultPublisher forwards finished runs to interested consumers.
type ResultPublisher interface {
	Publish(ctx context.Context, res domain.ConsolidationResult) error
}

// Recorder receives run statistics.
type Recorder interface {
	RunFinished(outcome string, evaluatedPairs int, elapsed time.Duration)
	PairCombinable(reason domain.Reason)
	RouteCacheLookup(hit bool)
	RouteCacheSkipped()
}

type nopRecorder struct{}

func (nopRecorder) RunFinished(string, int, time.Duration) {}
func (nopRecorder) PairCombinable(domain.Reason)           {}
func (nopRecorder) RouteCacheLookup(bool)                  {}
func (nopRecorder) RouteCacheSkipped()                     {}

// List of run outcomes reported to the Recorder
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
)
