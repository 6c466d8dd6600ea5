package directions

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"order-consolidation/internal/domain"
)

// InstrumentedProvider records route lookup latency by outcome.
type InstrumentedProvider struct {
	next    provider
	latency *prometheus.HistogramVec
	now     func() time.Time
}

// NewInstrumentedProvider wraps next. The histogram must have one "outcome" label.
func NewInstrumentedProvider(next provider, latency *prometheus.HistogramVec) *InstrumentedProvider {
	return &InstrumentedProvider{next: next, latency: latency, now: time.Now}
}

func (p *InstrumentedProvider) Route(ctx context.Context, origin, destination domain.Coordinate) (domain.Route, error) {
	start := p.now()
	route, err := p.next.Route(ctx, origin, destination)
	if p.latency != nil {
		p.latency.WithLabelValues(outcome(err)).Observe(p.now().Sub(start).Seconds())
	}
	return route, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoRoute):
		return "no_route"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
