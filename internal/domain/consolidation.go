package domain

import "time"

// Reason explains why a pair of orders was or was not combined.
type Reason string

// List of consolidation reasons
const (
	ReasonIdenticalEndpoints Reason = "identical_endpoints"
	ReasonRouteContained     Reason = "route_contained"
	ReasonNone               Reason = "none"
)

// Containment records how a candidate order was found on a base order's route.
type Containment struct {
	BaseOrderID      int64
	Pickup           Coordinate
	Dropoff          Coordinate
	PickupDistanceM  float64
	DropoffDistanceM float64
	ToleranceM       float64
}

// Verdict is the outcome of evaluating one pair of orders.
type Verdict struct {
	Combinable  bool
	Reason      Reason
	Containment *Containment
}

// NotCombinable is the verdict for every failed, skipped or negative check.
func NotCombinable() Verdict {
	return Verdict{Reason: ReasonNone}
}

// PairVerdict binds a verdict to the unordered pair it was computed for.
type PairVerdict struct {
	OrderA  int64
	OrderB  int64
	Verdict Verdict
}

// ConsolidationResult summarizes one consolidation run.
type ConsolidationResult struct {
	RunID               string
	Pairs               []PairVerdict
	TotalPairs          int
	EvaluatedPairs      int
	InvalidTimestamps   int
	RouteLookupFailures int
	Partial             bool
	StartedAt           time.Time
	Duration            time.Duration
}
