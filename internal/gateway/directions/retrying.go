package directions

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"order-consolidation/internal/domain"
	"order-consolidation/internal/logx"
)

type provider interface {
	Route(ctx context.Context, origin, destination domain.Coordinate) (domain.Route, error)
}

type counter interface {
	Inc()
}

// RetryConfig describes RetryingProvider behaviour.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingProvider retries transient directions failures with exponential backoff.
type RetryingProvider struct {
	next    provider
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingProvider returns nil when next is nil.
func NewRetryingProvider(next provider, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingProvider {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &RetryingProvider{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Route calls the wrapped provider until it succeeds, the error is permanent,
// attempts run out or ctx is done.
func (p *RetryingProvider) Route(ctx context.Context, origin, destination domain.Coordinate) (domain.Route, error) {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		route, err := p.next.Route(ctx, origin, destination)
		if err == nil {
			return route, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == p.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(p.cfg.BaseDelay, p.cfg.MaxDelay, attempt)
		if p.retries != nil {
			p.retries.Inc()
		}
		p.logger.Warn("directions retry",
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return nil, lastErr
}

// isRetryable reports whether err is worth another attempt.
func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status == "OVER_QUERY_LIMIT" || ae.Status == "UNKNOWN_ERROR"
	}
	var ne net.Error
	return errors.As(err, &ne)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d < 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
