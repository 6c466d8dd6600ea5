package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"order-consolidation/internal/config"
	"order-consolidation/internal/http/handlers"
	"order-consolidation/internal/http/middleware"
	"order-consolidation/internal/http/middleware/ratelimit"
	"order-consolidation/internal/http/pprofserver"
	"order-consolidation/internal/http/router"
	"order-consolidation/internal/logx"
)

const (
	serverWriteTimeout = 15 * time.Second
	matchTimeoutSlack  = 5 * time.Second
)

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucketLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock{}
}

type rateLimitIn struct {
	dig.In
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter)
}

// matchTimeout leaves the run deadline room to return a partial result.
func matchTimeout(cfg *config.Config) time.Duration {
	return cfg.Consolidation.RunTimeout + matchTimeoutSlack
}

type routerIn struct {
	dig.In

	Config    *config.Config
	Logger    logx.Logger
	Metrics   *middleware.HTTPMetrics
	RateLimit *ratelimit.Middleware
	Base      *handlers.Handlers
	Orders    *handlers.OrderHandler
	Match     *handlers.MatchHandler
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Base:          in.Base,
		Orders:        in.Orders,
		Match:         in.Match,
		Observability: middleware.Observability(in.Logger, in.Metrics),
		RateLimit:     in.RateLimit.Handler(),
		Metrics:       promhttp.Handler(),
		MatchTimeout:  matchTimeout(in.Config),
	})
}

func newServer(cfg *config.Config, mux http.Handler) *http.Server {
	writeTimeout := serverWriteTimeout
	if mt := matchTimeout(cfg) + matchTimeoutSlack; mt > writeTimeout {
		writeTimeout = mt
	}
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

func newPprofServer(cfg *config.Config) pprofOut {
	if !cfg.Pprof.Enabled {
		return pprofOut{}
	}
	return pprofOut{Server: pprofserver.NewServer(pprofserver.Config{
		Addr: cfg.Pprof.Addr,
		User: cfg.Pprof.User,
		Pass: cfg.Pprof.Pass,
	})}
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		handlers.NewOrderUsecase,
		handlers.NewOrderHandler,
		handlers.NewMatchUsecase,
		handlers.NewMatchHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		newServer,
		newPprofServer,
	)
}
