package consolidation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"order-consolidation/internal/apperr"
)

// DefaultWindow is how far apart two orders may be created and still be combined.
const DefaultWindow = 60 * time.Minute

// TimeWindow gates pairs by the distance between their creation times.
type TimeWindow struct {
	Threshold time.Duration
}

// WindowResult carries the gate decision and the measured gap.
type WindowResult struct {
	Within  bool
	Minutes float64
}

// NewTimeWindow returns a TimeWindow, falling back to DefaultWindow for non-positive thresholds.
func NewTimeWindow(threshold time.Duration) TimeWindow {
	if threshold <= 0 {
		threshold = DefaultWindow
	}
	return TimeWindow{Threshold: threshold}
}

// Evaluate compares the full instants a and b, date included.
// A gap equal to the threshold is still within the window.
func (w TimeWindow) Evaluate(a, b time.Time) (WindowResult, error) {
	if a.IsZero() || b.IsZero() {
		return WindowResult{}, apperr.ErrInvalidTimestamp
	}
	d := a.Sub(b)
	if d < 0 {
		d = -d
		if d < 0 {
			d = math.MaxInt64
		}
	}
	return WindowResult{
		Within:  d <= w.Threshold,
		Minutes: d.Minutes(),
	}, nil
}

// ParseTimestamp parses an RFC 3339 instant.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty", apperr.ErrInvalidTimestamp)
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperr.ErrInvalidTimestamp, raw)
	}
	return ts, nil
}
