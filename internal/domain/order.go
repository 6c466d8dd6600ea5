package domain

import "time"

// Party is one end of a delivery: who and where.
type Party struct {
	Name     string
	Location string
	Point    Coordinate
}

// Order represents a delivery order from sender to recipient.
type Order struct {
	ID           int64
	Name         string
	Sender       Party
	Recipient    Party
	DateCreated  time.Time
	LastModified time.Time
}

// OrderPatch carries optional fields to update an order.
// A nil field means "do not change" that attribute.
type OrderPatch struct {
	ID                int64
	Name              *string
	SenderName        *string
	SenderLocation    *string
	SenderLat         *float64
	SenderLng         *float64
	RecipientName     *string
	RecipientLocation *string
	RecipientLat      *float64
	RecipientLng      *float64
}

// Empty reports whether the patch changes nothing.
func (p OrderPatch) Empty() bool {
	return p.Name == nil &&
		p.SenderName == nil && p.SenderLocation == nil && p.SenderLat == nil && p.SenderLng == nil &&
		p.RecipientName == nil && p.RecipientLocation == nil && p.RecipientLat == nil && p.RecipientLng == nil
}

// OrderFilter selects orders by two independent predicates.
// An order matches when its sender or recipient location contains Location,
// or when its recipient name contains Recipient. Matching is case-insensitive.
// The zero filter matches every order.
type OrderFilter struct {
	Location  string
	Recipient string
}

// IsZero reports whether the filter matches everything.
func (f OrderFilter) IsZero() bool {
	return f.Location == "" && f.Recipient == ""
}

// OrderPage is one page of a filtered order listing.
type OrderPage struct {
	Items      []Order
	Page       int
	PerPage    int
	TotalPages int
	TotalCount int
}
