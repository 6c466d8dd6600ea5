package orders

import (
	"fmt"
	"time"

	"order-consolidation/internal/apperr"
	"order-consolidation/internal/domain"
)

// Event types understood by the Processor.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// EventParty is a partially specified sender or recipient.
type EventParty struct {
	Name     *string  `json:"name,omitempty"`
	Location *string  `json:"location,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
}

// EventOrder carries order attributes. Updates only set what changed.
type EventOrder struct {
	Name      *string     `json:"name,omitempty"`
	Sender    *EventParty `json:"sender,omitempty"`
	Recipient *EventParty `json:"recipient,omitempty"`
}

// Event is a single order event
type Event struct {
	Type      string      `json:"type"`
	OrderID   int64       `json:"order_id"`
	Order     *EventOrder `json:"order,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// party converts p into a domain.Party. Both coordinates are required.
func (p *EventParty) party() (domain.Party, error) {
	if p == nil || p.Lat == nil || p.Lng == nil {
		return domain.Party{}, fmt.Errorf("%w: party coordinates are required", apperr.ErrInvalid)
	}
	return domain.Party{
		Name:     deref(p.Name),
		Location: deref(p.Location),
		Point:    domain.Coordinate{Lat: *p.Lat, Lng: *p.Lng},
	}, nil
}

// toOrder builds the order to create. A non-zero CreatedAt becomes its creation stamp.
func (e Event) toOrder() (*domain.Order, error) {
	if e.Order == nil {
		return nil, fmt.Errorf("%w: order %d has no attributes", apperr.ErrInvalid, e.OrderID)
	}
	sender, err := e.Order.Sender.party()
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	recipient, err := e.Order.Recipient.party()
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	return &domain.Order{
		ID:          e.OrderID,
		Name:        deref(e.Order.Name),
		Sender:      sender,
		Recipient:   recipient,
		DateCreated: e.CreatedAt,
	}, nil
}

// toPatch builds the update for the event's order.
func (e Event) toPatch() domain.OrderPatch {
	p := domain.OrderPatch{ID: e.OrderID}
	if e.Order == nil {
		return p
	}
	p.Name = e.Order.Name
	if s := e.Order.Sender; s != nil {
		p.SenderName, p.SenderLocation, p.SenderLat, p.SenderLng = s.Name, s.Location, s.Lat, s.Lng
	}
	if r := e.Order.Recipient; r != nil {
		p.RecipientName, p.RecipientLocation, p.RecipientLat, p.RecipientLng = r.Name, r.Location, r.Lat, r.Lng
	}
	return p
}
