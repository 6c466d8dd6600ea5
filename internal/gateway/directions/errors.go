package directions

import (
	"errors"
	"fmt"
)

// ErrNoRoute is returned when the provider finds no route between the points.
var ErrNoRoute = errors.New("directions: no route")

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("directions: provider not configured")

// StatusError is a non-2xx HTTP response from the directions API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("directions: http %d: %s", e.Code, e.Body)
}

// APIError is a response whose status field is not OK.
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "directions: " + e.Status
	}
	return fmt.Sprintf("directions: %s: %s", e.Status, e.Message)
}
