package consolidation

import (
	"context"
	"fmt"
	"time"

	"order-consolidation/internal/apperr"
	"order-consolidation/internal/domain"
)

// Defaults for route containment.
const (
	DefaultToleranceM      = 50.0
	DefaultProviderTimeout = 3 * time.Second
)

// RouteChecker decides whether a candidate order can be served along a base order's route.
type RouteChecker struct {
	provider   RouteProvider
	toleranceM float64
	timeout    time.Duration
}

// NewRouteChecker creates a RouteChecker. Non-positive tolerance or timeout fall back to defaults.
func NewRouteChecker(provider RouteProvider, toleranceM float64, timeout time.Duration) *RouteChecker {
	if toleranceM <= 0 {
		toleranceM = DefaultToleranceM
	}
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &RouteChecker{provider: provider, toleranceM: toleranceM, timeout: timeout}
}

// ToleranceM returns the containment tolerance in meters.
func (c *RouteChecker) ToleranceM() float64 { return c.toleranceM }

// Contains fetches the sender to recipient route of base and reports whether
// both the pickup and the drop-off of candidate lie within tolerance of it.
// Any lookup problem is returned as apperr.ErrRouteLookupFailed.
func (c *RouteChecker) Contains(
	ctx context.Context,
	base, candidate domain.Order,
	cache *RouteCache,
) (domain.Containment, bool, error) {
	if !base.Sender.Point.Valid() || !base.Recipient.Point.Valid() {
		return domain.Containment{}, false,
			fmt.Errorf("%w: order %d has invalid coordinates", apperr.ErrRouteLookupFailed, base.ID)
	}
	if !candidate.Sender.Point.Valid() || !candidate.Recipient.Point.Valid() {
		return domain.Containment{}, false,
			fmt.Errorf("%w: order %d has invalid coordinates", apperr.ErrRouteLookupFailed, candidate.ID)
	}
	if err := ctx.Err(); err != nil {
		return domain.Containment{}, false, fmt.Errorf("%w: %w", apperr.ErrRouteLookupFailed, err)
	}

	route, err := cache.Get(ctx, base.ID, func(ctx context.Context) (domain.Route, error) {
		return c.lookup(ctx, base)
	})
	if err != nil {
		return domain.Containment{}, false, err
	}

	res := domain.Containment{
		BaseOrderID:      base.ID,
		Pickup:           candidate.Sender.Point,
		Dropoff:          candidate.Recipient.Point,
		PickupDistanceM:  distanceToRouteM(candidate.Sender.Point, route),
		DropoffDistanceM: distanceToRouteM(candidate.Recipient.Point, route),
		ToleranceM:       c.toleranceM,
	}
	return res, res.PickupDistanceM <= c.toleranceM && res.DropoffDistanceM <= c.toleranceM, nil
}

func (c *RouteChecker) lookup(ctx context.Context, base domain.Order) (domain.Route, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	route, err := c.provider.Route(callCtx, base.Sender.Point, base.Recipient.Point)
	if err != nil {
		return nil, fmt.Errorf("%w: order %d: %w", apperr.ErrRouteLookupFailed, base.ID, err)
	}
	if len(route) == 0 {
		return nil, fmt.Errorf("%w: order %d: empty route", apperr.ErrRouteLookupFailed, base.ID)
	}
	return route, nil
}
