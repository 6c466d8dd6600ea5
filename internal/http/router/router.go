package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"order-consolidation/internal/http/handlers"
)

// DefaultTimeout bounds every route except the consolidation run.
const DefaultTimeout = 5 * time.Second

// Deps groups what the router mounts. Nil middlewares and a nil Metrics
// handler are skipped.
type Deps struct {
	Base   *handlers.Handlers
	Orders *handlers.OrderHandler
	Match  *handlers.MatchHandler

	Observability func(http.Handler) http.Handler
	RateLimit     func(http.Handler) http.Handler
	Metrics       http.Handler

	// MatchTimeout bounds GET /orders/match. Zero falls back to DefaultTimeout.
	MatchTimeout time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.Observability != nil {
		r.Use(d.Observability)
	}

	matchTimeout := d.MatchTimeout
	if matchTimeout <= 0 {
		matchTimeout = DefaultTimeout
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(matchTimeout))
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		r.Get("/orders/match", d.Match.Match)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(DefaultTimeout))

		r.Get("/ping", d.Base.Ping)
		r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
		if d.Metrics != nil {
			r.Method(http.MethodGet, "/metrics", d.Metrics)
		}

		r.Get("/orders", d.Orders.Search)
		r.Post("/orders/create", d.Orders.Create)
		r.Get("/orders/all", d.Orders.All)
		r.Get("/orders/pages", d.Orders.Pages)
		r.Get("/orders/{id}", d.Orders.GetByID)
		r.Put("/orders/{id}", d.Orders.Update)
		r.Delete("/orders/{id}", d.Orders.Delete)
	})

	r.NotFound(d.Base.NotFound)
	r.MethodNotAllowed(d.Base.MethodNotAllowed)

	return r
}
