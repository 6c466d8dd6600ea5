package directions

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-consolidation/internal/domain"
	testlog "order-consolidation/internal/testutil"
)

type fakeProvider struct {
	calls   atomic.Int32
	routeFn func(call int32) (domain.Route, error)
}

func (f *fakeProvider) Route(context.Context, domain.Coordinate, domain.Coordinate) (domain.Route, error) {
	return f.routeFn(f.calls.Add(1))
}

type counterStub struct{ n atomic.Int64 }

func (c *counterStub) Inc()         { c.n.Add(1) }
func (c *counterStub) Count() int64 { return c.n.Load() }

var okRoute = domain.Route{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}

func TestNewRetryingProvider_NilNext(t *testing.T) {
	t.Parallel()

	require.Nil(t, NewRetryingProvider(nil, nil, nil, RetryConfig{}))
}

func TestRetryingProvider_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	next := &fakeProvider{routeFn: func(call int32) (domain.Route, error) {
		switch call {
		case 1:
			return nil, &StatusError{Code: http.StatusServiceUnavailable}
		case 2:
			return nil, &APIError{Status: "OVER_QUERY_LIMIT"}
		default:
			return okRoute, nil
		}
	}}
	ctr := &counterStub{}

	p := NewRetryingProvider(next, rec.Logger(), ctr, RetryConfig{MaxAttempts: 5})
	got, err := p.Route(context.Background(), domain.Coordinate{}, domain.Coordinate{})
	require.NoError(t, err)
	assert.Equal(t, okRoute, got)
	assert.EqualValues(t, 3, next.calls.Load())
	assert.EqualValues(t, 2, ctr.Count())
	assert.True(t, rec.Has("warn", "directions retry"))
}

func TestRetryingProvider_NoRetryOnPermanent(t *testing.T) {
	t.Parallel()

	for _, perm := range []error{
		ErrNoRoute,
		&APIError{Status: "REQUEST_DENIED"},
		&StatusError{Code: http.StatusBadRequest},
		errors.New("boom"),
	} {
		perm := perm
		next := &fakeProvider{routeFn: func(int32) (domain.Route, error) { return nil, perm }}
		ctr := &counterStub{}

		p := NewRetryingProvider(next, nil, ctr, RetryConfig{MaxAttempts: 5})
		_, err := p.Route(context.Background(), domain.Coordinate{}, domain.Coordinate{})
		require.ErrorIs(t, err, perm)
		assert.EqualValues(t, 1, next.calls.Load(), "%v", perm)
		assert.EqualValues(t, 0, ctr.Count())
	}
}

func TestRetryingProvider_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	want := &StatusError{Code: http.StatusTooManyRequests}
	next := &fakeProvider{routeFn: func(int32) (domain.Route, error) { return nil, want }}
	ctr := &counterStub{}

	p := NewRetryingProvider(next, nil, ctr, RetryConfig{MaxAttempts: 3})
	_, err := p.Route(context.Background(), domain.Coordinate{}, domain.Coordinate{})
	require.ErrorIs(t, err, want)
	assert.EqualValues(t, 3, next.calls.Load())
	assert.EqualValues(t, 2, ctr.Count())
}

func TestRetryingProvider_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	next := &fakeProvider{routeFn: func(int32) (domain.Route, error) {
		cancel()
		return nil, &StatusError{Code: http.StatusBadGateway}
	}}

	p := NewRetryingProvider(next, nil, nil, RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: time.Second})
	_, err := p.Route(ctx, domain.Coordinate{}, domain.Coordinate{})
	require.Error(t, err)
	assert.EqualValues(t, 1, next.calls.Load())
}

func TestRetryingProvider_StopsDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	next := &fakeProvider{routeFn: func(int32) (domain.Route, error) {
		return nil, &StatusError{Code: http.StatusBadGateway}
	}}

	p := NewRetryingProvider(next, nil, nil, RetryConfig{MaxAttempts: 5, BaseDelay: time.Minute, MaxDelay: time.Minute})
	start := time.Now()
	_, err := p.Route(ctx, domain.Coordinate{}, domain.Coordinate{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.EqualValues(t, 1, next.calls.Load())
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	base, max := 100*time.Millisecond, time.Second
	assert.Equal(t, 100*time.Millisecond, backoff(base, max, 1))
	assert.Equal(t, 200*time.Millisecond, backoff(base, max, 2))
	assert.Equal(t, 400*time.Millisecond, backoff(base, max, 3))
	assert.Equal(t, time.Second, backoff(base, max, 5))
}
