package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// degrees accepts a JSON number or a numeric string.
type degrees float64

func (d *degrees) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return errors.New("coordinate is null")
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.New("coordinate is not a number")
		}
		*d = degrees(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*d = degrees(v)
	return nil
}

type orderDTO struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	SenderName        string    `json:"sender_name"`
	SenderLocation    string    `json:"sender_location"`
	SenderLat         float64   `json:"sender_lat"`
	SenderLong        float64   `json:"sender_long"`
	RecipientName     string    `json:"recipient_name"`
	RecipientLocation string    `json:"recipient_location"`
	RecipientLat      float64   `json:"recipient_lat"`
	RecipientLong     float64   `json:"recipient_long"`
	DateCreated       time.Time `json:"date_created"`
	LastModified      time.Time `json:"last_modified"`
}

type createOrderRequest struct {
	Name              string   `json:"name" validate:"required"`
	SenderName        string   `json:"sender_name"`
	SenderLocation    string   `json:"sender_location" validate:"required"`
	SenderLat         *degrees `json:"sender_lat" validate:"required,latitude"`
	SenderLong        *degrees `json:"sender_long" validate:"required,longitude"`
	RecipientName     string   `json:"recipient_name"`
	RecipientLocation string   `json:"recipient_location" validate:"required"`
	RecipientLat      *degrees `json:"recipient_lat" validate:"required,latitude"`
	RecipientLong     *degrees `json:"recipient_long" validate:"required,longitude"`
}

type updateOrderRequest struct {
	Name              *string  `json:"name,omitempty" validate:"omitnil,min=1"`
	SenderName        *string  `json:"sender_name,omitempty"`
	SenderLocation    *string  `json:"sender_location,omitempty"`
	SenderLat         *degrees `json:"sender_lat,omitempty" validate:"omitnil,latitude"`
	SenderLong        *degrees `json:"sender_long,omitempty" validate:"omitnil,longitude"`
	RecipientName     *string  `json:"recipient_name,omitempty"`
	RecipientLocation *string  `json:"recipient_location,omitempty"`
	RecipientLat      *degrees `json:"recipient_lat,omitempty" validate:"omitnil,latitude"`
	RecipientLong     *degrees `json:"recipient_long,omitempty" validate:"omitnil,longitude"`
}

type pageDTO struct {
	Docs           []orderDTO `json:"docs"`
	Page           int        `json:"page"`
	PerPage        int        `json:"per_page"`
	TotalPages     int        `json:"total_pages"`
	TotalDocsCount int        `json:"total_docs_count"`
}

type containmentDTO struct {
	BaseOrderID      int64   `json:"base_order_id"`
	PickupLat        float64 `json:"pickup_lat"`
	PickupLong       float64 `json:"pickup_long"`
	DropoffLat       float64 `json:"dropoff_lat"`
	DropoffLong      float64 `json:"dropoff_long"`
	PickupDistanceM  float64 `json:"pickup_distance_m"`
	DropoffDistanceM float64 `json:"dropoff_distance_m"`
	ToleranceM       float64 `json:"tolerance_m"`
}

type pairDTO struct {
	OrderA      int64           `json:"order_a"`
	OrderB      int64           `json:"order_b"`
	Combinable  bool            `json:"combinable"`
	Reason      string          `json:"reason"`
	Containment *containmentDTO `json:"containment,omitempty"`
}

type matchDTO struct {
	RunID               string    `json:"run_id"`
	Partial             bool      `json:"partial"`
	TotalPairs          int       `json:"total_pairs"`
	EvaluatedPairs      int       `json:"evaluated_pairs"`
	InvalidTimestamps   int       `json:"invalid_timestamps"`
	RouteLookupFailures int       `json:"route_lookup_failures"`
	StartedAt           time.Time `json:"started_at"`
	DurationMS          int64     `json:"duration_ms"`
	Pairs               []pairDTO `json:"pairs"`
}
