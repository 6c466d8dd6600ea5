package consolidation_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"order-consolidation/internal/domain"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func order(id int64, from, to string, fromPt, toPt domain.Coordinate, created time.Time) domain.Order {
	return domain.Order{
		ID:          id,
		Name:        "order",
		Sender:      domain.Party{Name: "s", Location: from, Point: fromPt},
		Recipient:   domain.Party{Name: "r", Location: to, Point: toPt},
		DateCreated: created,
	}
}

func pt(lat, lng float64) domain.Coordinate { return domain.Coordinate{Lat: lat, Lng: lng} }

// lineProvider returns the straight segment between origin and destination.
type lineProvider struct {
	calls atomic.Int64
	errFn func(origin, dest domain.Coordinate) error
}

func (p *lineProvider) Route(ctx context.Context, origin, dest domain.Coordinate) (domain.Route, error) {
	p.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.errFn != nil {
		if err := p.errFn(origin, dest); err != nil {
			return nil, err
		}
	}
	return domain.Route{origin, dest}, nil
}

// blockingProvider waits until the call context is done.
type blockingProvider struct {
	calls atomic.Int64
}

func (p *blockingProvider) Route(ctx context.Context, _, _ domain.Coordinate) (domain.Route, error) {
	p.calls.Add(1)
	<-ctx.Done()
	return nil, ctx.Err()
}

type recorderStub struct {
	mu         sync.Mutex
	outcomes   []string
	evaluated  int
	combinable map[domain.Reason]int
	hits       int
	misses     int
	skipped    int
}

func newRecorderStub() *recorderStub {
	return &recorderStub{combinable: map[domain.Reason]int{}}
}

func (r *recorderStub) RunFinished(outcome string, evaluated int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
	r.evaluated += evaluated
}

func (r *recorderStub) PairCombinable(reason domain.Reason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.combinable[reason]++
}

func (r *recorderStub) RouteCacheLookup(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
		return
	}
	r.misses++
}

func (r *recorderStub) RouteCacheSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

func pairKey(v domain.PairVerdict) [2]int64 {
	if v.OrderA > v.OrderB {
		return [2]int64{v.OrderB, v.OrderA}
	}
	return [2]int64{v.OrderA, v.OrderB}
}

func verdictsByPair(pairs []domain.PairVerdict) map[[2]int64]domain.Verdict {
	out := make(map[[2]int64]domain.Verdict, len(pairs))
	for _, p := range pairs {
		out[pairKey(p)] = p.Verdict
	}
	return out
}
