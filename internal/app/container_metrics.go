package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"order-consolidation/internal/http/middleware"
	"order-consolidation/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
	DirectionsRetriesTotal prometheus.Counter `name:"directions_retries_total"`
	DirectionsLatency      *prometheus.HistogramVec
	Consolidation          *metrics.Consolidation
	HTTP                   *middleware.HTTPMetrics
}

func provideMetrics(reg prometheus.Registerer) (metricsOut, error) {
	var (
		out metricsOut
		err error
	)

	if out.RateLimitExceededTotal, err = metrics.Register(reg, metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, fmt.Errorf("register rate_limit_exceeded_total: %w", err)
	}
	if out.DirectionsRetriesTotal, err = metrics.Register(reg, metrics.NewDirectionsRetriesTotal()); err != nil {
		return metricsOut{}, fmt.Errorf("register directions_retries_total: %w", err)
	}
	if out.DirectionsLatency, err = metrics.Register(reg, metrics.NewDirectionsLatency()); err != nil {
		return metricsOut{}, fmt.Errorf("register directions_request_duration_seconds: %w", err)
	}

	out.Consolidation = metrics.NewConsolidation()
	if err := out.Consolidation.Register(reg); err != nil {
		return metricsOut{}, fmt.Errorf("register consolidation metrics: %w", err)
	}

	if out.HTTP, err = middleware.NewHTTPMetrics(reg); err != nil {
		return metricsOut{}, fmt.Errorf("register http metrics: %w", err)
	}
	return out, nil
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, provideMetrics)
}
