package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	polyline "github.com/twpayne/go-polyline"

	"order-consolidation/internal/domain"
)

// Config stores Google Directions client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Mode    string
	Timeout time.Duration
}

// GoogleProvider fetches driving routes from the Google Directions API.
// It is safe for concurrent use.
type GoogleProvider struct {
	session *http.Client
	baseURL string
	apiKey  string
	mode    string
}

// NewGoogleProvider creates a provider. A nil client gets one with cfg.Timeout.
func NewGoogleProvider(cfg Config, client *http.Client) (*GoogleProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("directions api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://maps.googleapis.com"
	}
	if cfg.Mode == "" {
		cfg.Mode = "driving"
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &GoogleProvider{
		session: client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		mode:    cfg.Mode,
	}, nil
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type encodedPolyline struct {
	Points string `json:"points"`
}

type apiStep struct {
	StartLocation latLng          `json:"start_location"`
	EndLocation   latLng          `json:"end_location"`
	Polyline      encodedPolyline `json:"polyline"`
}

type apiRoute struct {
	OverviewPolyline encodedPolyline `json:"overview_polyline"`
	Legs             []struct {
		Steps []apiStep `json:"steps"`
	} `json:"legs"`
}

type apiResponse struct {
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message"`
	Routes       []apiRoute `json:"routes"`
}

// Route returns the path from origin to destination.
func (g *GoogleProvider) Route(ctx context.Context, origin, destination domain.Coordinate) (domain.Route, error) {
	req, err := g.newRequest(ctx, origin, destination)
	if err != nil {
		return nil, err
	}
	resp, err := g.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("directions: decode response: %w", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return nil, ErrNoRoute
	default:
		return nil, &APIError{Status: body.Status, Message: body.ErrorMessage}
	}
	if len(body.Routes) == 0 {
		return nil, ErrNoRoute
	}

	route, err := body.Routes[0].path()
	if err != nil {
		return nil, err
	}
	if len(route) == 0 {
		return nil, ErrNoRoute
	}
	return route, nil
}

func (g *GoogleProvider) newRequest(ctx context.Context, origin, destination domain.Coordinate) (*http.Request, error) {
	q := url.Values{}
	q.Set("origin", formatLatLng(origin))
	q.Set("destination", formatLatLng(destination))
	q.Set("mode", g.mode)
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/maps/api/directions/json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("directions: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (g *GoogleProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := g.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// path prefers the detailed step polylines, then the simplified overview,
// then the bare step endpoints.
func (r apiRoute) path() (domain.Route, error) {
	var out domain.Route
	for _, leg := range r.Legs {
		for _, st := range leg.Steps {
			if st.Polyline.Points == "" {
				continue
			}
			pts, err := decode(st.Polyline.Points)
			if err != nil {
				return nil, err
			}
			out = appendDedup(out, pts...)
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	if r.OverviewPolyline.Points != "" {
		return decode(r.OverviewPolyline.Points)
	}

	for _, leg := range r.Legs {
		for _, st := range leg.Steps {
			out = appendDedup(out,
				domain.Coordinate{Lat: st.StartLocation.Lat, Lng: st.StartLocation.Lng},
				domain.Coordinate{Lat: st.EndLocation.Lat, Lng: st.EndLocation.Lng},
			)
		}
	}
	return out, nil
}

func decode(points string) (domain.Route, error) {
	coords, _, err := polyline.DecodeCoords([]byte(points))
	if err != nil {
		return nil, fmt.Errorf("directions: decode polyline: %w", err)
	}
	out := make(domain.Route, 0, len(coords))
	for _, c := range coords {
		out = append(out, domain.Coordinate{Lat: c[0], Lng: c[1]})
	}
	return out, nil
}

func appendDedup(route domain.Route, pts ...domain.Coordinate) domain.Route {
	for _, p := range pts {
		if n := len(route); n > 0 && route[n-1] == p {
			continue
		}
		route = append(route, p)
	}
	return route
}

func formatLatLng(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// Disabled is used when no API key is configured. Every lookup fails,
// so only identical-endpoint matches are found.
type Disabled struct{}

// Route always returns ErrNotConfigured.
func (Disabled) Route(context.Context, domain.Coordinate, domain.Coordinate) (domain.Route, error) {
	return nil, ErrNotConfigured
}
