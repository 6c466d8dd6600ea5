package consolidation

import (
	"strings"

	"order-consolidation/internal/domain"
)

// SameEndpoints reports whether a and b go between the same named places.
// Locations are trimmed and compared case-sensitively; a blank location never matches.
func SameEndpoints(a, b domain.Order) bool {
	return sameLocation(a.Sender.Location, b.Sender.Location) &&
		sameLocation(a.Recipient.Location, b.Recipient.Location)
}

func sameLocation(x, y string) bool {
	x = strings.TrimSpace(x)
	if x == "" {
		return false
	}
	return x == strings.TrimSpace(y)
}
