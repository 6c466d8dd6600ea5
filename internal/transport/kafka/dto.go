package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"order-consolidation/internal/apperr"
	"order-consolidation/internal/service/consolidation"
	"order-consolidation/internal/service/orders"
)

// ErrEmptyOrderID is returned when an event carries no order_id.
var ErrEmptyOrderID = errors.New("empty order_id")

// EventDTO is a data transfer object for orders.Event.
// order_id may be a JSON number or a string holding one, surrounding blanks allowed.
type EventDTO struct {
	Type      string             `json:"type"`
	OrderID   json.RawMessage    `json:"order_id"`
	Order     *orders.EventOrder `json:"order,omitempty"`
	CreatedAt string             `json:"created_at,omitempty"`
}

func parseOrderID(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return 0, ErrEmptyOrderID
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return 0, fmt.Errorf("%w: order_id %s", apperr.ErrInvalid, s)
		}
		s = strings.TrimSpace(str)
	}
	if s == "" {
		return 0, ErrEmptyOrderID
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: order_id %q", apperr.ErrInvalid, s)
	}
	return id, nil
}

// ToDomain converts EventDTO to orders.Event
func ToDomain(dto EventDTO) (orders.Event, error) {
	id, err := parseOrderID(dto.OrderID)
	if err != nil {
		return orders.Event{}, err
	}

	ev := orders.Event{
		Type:    strings.ToLower(strings.TrimSpace(dto.Type)),
		OrderID: id,
		Order:   dto.Order,
	}
	if strings.TrimSpace(dto.CreatedAt) != "" {
		ts, err := consolidation.ParseTimestamp(dto.CreatedAt)
		if err != nil {
			return orders.Event{}, err
		}
		ev.CreatedAt = ts
	}
	return ev, nil
}
