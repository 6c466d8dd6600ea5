package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"order-consolidation/internal/config"
	"order-consolidation/internal/gateway/directions"
	"order-consolidation/internal/logx"
	"order-consolidation/internal/metrics"
	"order-consolidation/internal/service/consolidation"
	"order-consolidation/internal/service/orders"
	"order-consolidation/internal/transport/kafka"
)

type directionsIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"directions_retries_total"`
	Latency *prometheus.HistogramVec
}

// newRouteProvider chains Google -> retries -> latency histogram.
// Without an API key containment checks always fail closed.
func newRouteProvider(in directionsIn) (consolidation.RouteProvider, error) {
	dc := in.Config.Directions
	logger := in.Logger.With(logx.String("component", "directions"))

	if dc.APIKey == "" {
		logger.Warn("directions api key is empty, route containment disabled")
		return directions.Disabled{}, nil
	}

	google, err := directions.NewGoogleProvider(directions.Config{
		BaseURL: dc.BaseURL,
		APIKey:  dc.APIKey,
		Mode:    dc.Mode,
		Timeout: dc.Timeout,
	}, nil)
	if err != nil {
		return nil, err
	}

	retrying := directions.NewRetryingProvider(google, logger, in.Retries, directions.RetryConfig{
		MaxAttempts: dc.MaxAttempts,
		BaseDelay:   dc.BaseDelay,
		MaxDelay:    dc.MaxDelay,
	})
	return directions.NewInstrumentedProvider(retrying, in.Latency), nil
}

func newEngine(
	cfg *config.Config,
	provider consolidation.RouteProvider,
	rec *metrics.Consolidation,
	logger logx.Logger,
) *consolidation.Engine {
	cc := cfg.Consolidation
	return consolidation.NewEngine(provider, consolidation.Config{
		Window:          cc.Window,
		ToleranceM:      cc.ToleranceM,
		ProviderTimeout: cc.ProviderTimeout,
		Workers:         cc.Workers,
		BatchSize:       cc.BatchSize,
		CacheRoutes:     cc.CacheRoutes,
		CacheSize:       cc.CacheSize,
	}, rec, logger.With(logx.String("component", "consolidation")))
}

func newResultPublisher(cfg *config.Config, logger logx.Logger) (*kafka.ResultPublisher, error) {
	return kafka.NewResultPublisher(logger, cfg.Kafka.Brokers, cfg.Kafka.ResultsTopic)
}

type consolidationIn struct {
	dig.In

	Config    *config.Config
	Orders    *orders.Service
	Engine    *consolidation.Engine
	Publisher *kafka.ResultPublisher
	Recorder  *metrics.Consolidation
	Logger    logx.Logger
}

func newConsolidationService(in consolidationIn) *consolidation.Service {
	var publisher consolidation.ResultPublisher
	if in.Publisher != nil {
		publisher = in.Publisher
	}
	return consolidation.NewService(
		in.Orders,
		in.Engine,
		publisher,
		in.Recorder,
		in.Logger.With(logx.String("component", "consolidation")),
		in.Config.Consolidation.RunTimeout,
	)
}

func registerDomainServices(container *dig.Container) error {
	if err := registerOrders(container); err != nil {
		return err
	}
	return provideAll(container,
		newRouteProvider,
		newEngine,
		newResultPublisher,
		newConsolidationService,
	)
}
