package directions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	polyline "github.com/twpayne/go-polyline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-consolidation/internal/domain"
)

func newTestProvider(t *testing.T, h http.HandlerFunc) *GoogleProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewGoogleProvider(Config{BaseURL: srv.URL, APIKey: "k"}, srv.Client())
	require.NoError(t, err)
	return p
}

func writeBody(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewGoogleProvider_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewGoogleProvider(Config{APIKey: "  "}, nil)
	require.Error(t, err)
}

func TestGoogleProvider_Route_QueryAndOverview(t *testing.T) {
	t.Parallel()

	points := string(polyline.EncodeCoords([][]float64{{38.5, -120.2}, {40.7, -120.95}, {43.252, -126.453}}))

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "38.5,-120.2", q.Get("origin"))
		assert.Equal(t, "43.252,-126.453", q.Get("destination"))
		assert.Equal(t, "driving", q.Get("mode"))
		assert.Equal(t, "k", q.Get("key"))

		writeBody(t, w, map[string]any{
			"status": "OK",
			"routes": []any{map[string]any{
				"overview_polyline": map[string]any{"points": points},
			}},
		})
	})

	route, err := p.Route(context.Background(),
		domain.Coordinate{Lat: 38.5, Lng: -120.2},
		domain.Coordinate{Lat: 43.252, Lng: -126.453})
	require.NoError(t, err)
	require.Len(t, route, 3)
	assert.InDelta(t, 40.7, route[1].Lat, 1e-5)
	assert.InDelta(t, -120.95, route[1].Lng, 1e-5)
}

func TestGoogleProvider_Route_PrefersStepPolylines(t *testing.T) {
	t.Parallel()

	step1 := string(polyline.EncodeCoords([][]float64{{1, 1}, {1, 2}}))
	step2 := string(polyline.EncodeCoords([][]float64{{1, 2}, {2, 2}}))
	overview := string(polyline.EncodeCoords([][]float64{{1, 1}, {2, 2}}))

	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(t, w, map[string]any{
			"status": "OK",
			"routes": []any{map[string]any{
				"overview_polyline": map[string]any{"points": overview},
				"legs": []any{map[string]any{"steps": []any{
					map[string]any{"polyline": map[string]any{"points": step1}},
					map[string]any{"polyline": map[string]any{"points": step2}},
				}}},
			}},
		})
	})

	route, err := p.Route(context.Background(), domain.Coordinate{Lat: 1, Lng: 1}, domain.Coordinate{Lat: 2, Lng: 2})
	require.NoError(t, err)
	require.Len(t, route, 3, "shared vertex between steps is kept once")
	assert.InDelta(t, 1.0, route[1].Lat, 1e-5)
	assert.InDelta(t, 2.0, route[1].Lng, 1e-5)
}

func TestGoogleProvider_Route_StepEndpointsFallback(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(t, w, map[string]any{
			"status": "OK",
			"routes": []any{map[string]any{
				"legs": []any{map[string]any{"steps": []any{
					map[string]any{
						"start_location": map[string]any{"lat": 1, "lng": 1},
						"end_location":   map[string]any{"lat": 1, "lng": 2},
					},
					map[string]any{
						"start_location": map[string]any{"lat": 1, "lng": 2},
						"end_location":   map[string]any{"lat": 2, "lng": 2},
					},
				}}},
			}},
		})
	})

	route, err := p.Route(context.Background(), domain.Coordinate{Lat: 1, Lng: 1}, domain.Coordinate{Lat: 2, Lng: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.Route{{Lat: 1, Lng: 1}, {Lat: 1, Lng: 2}, {Lat: 2, Lng: 2}}, route)
}

func TestGoogleProvider_Route_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		code  int
		body  map[string]any
		check func(t *testing.T, err error)
	}{
		{
			name: "zero results",
			code: http.StatusOK,
			body: map[string]any{"status": "ZERO_RESULTS", "routes": []any{}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoRoute)
			},
		},
		{
			name: "empty routes",
			code: http.StatusOK,
			body: map[string]any{"status": "OK", "routes": []any{}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoRoute)
			},
		},
		{
			name: "api status",
			code: http.StatusOK,
			body: map[string]any{"status": "REQUEST_DENIED", "error_message": "bad key"},
			check: func(t *testing.T, err error) {
				var ae *APIError
				require.True(t, errors.As(err, &ae))
				assert.Equal(t, "REQUEST_DENIED", ae.Status)
				assert.Equal(t, "bad key", ae.Message)
			},
		},
		{
			name: "http status",
			code: http.StatusServiceUnavailable,
			body: map[string]any{"status": "UNKNOWN_ERROR"},
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusServiceUnavailable, se.Code)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
				_ = json.NewEncoder(w).Encode(tt.body)
			})

			route, err := p.Route(context.Background(), domain.Coordinate{Lat: 1, Lng: 1}, domain.Coordinate{Lat: 2, Lng: 2})
			require.Error(t, err)
			assert.Nil(t, route)
			tt.check(t, err)
		})
	}
}

func TestGoogleProvider_Route_BadJSON(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})

	_, err := p.Route(context.Background(), domain.Coordinate{Lat: 1, Lng: 1}, domain.Coordinate{Lat: 2, Lng: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestDisabled_Route(t *testing.T) {
	t.Parallel()

	_, err := Disabled{}.Route(context.Background(), domain.Coordinate{}, domain.Coordinate{})
	require.ErrorIs(t, err, ErrNotConfigured)
}
