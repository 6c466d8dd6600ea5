package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTimestamp marks an order whose date_created is missing or malformed.
// It only disqualifies the pair being evaluated.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ErrRouteLookupFailed marks a directions lookup that errored, timed out or came back empty.
// It only disqualifies the pair being evaluated.
var ErrRouteLookupFailed = errors.New("route lookup failed")

// ErrStoreUnavailable means the order store could not be reached.
// A consolidation run cannot proceed without its snapshot.
var ErrStoreUnavailable = errors.New("order store unavailable")
