package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RuleRepository is the read-only port to the rule set owned by the external
// rule-management collaborator.
type RuleRepository interface {
	// FindByHotel returns every rule configured for a hotel.
	FindByHotel(ctx context.Context, hotelID uuid.UUID) ([]*Rule, error)

	// FindByHotelAndRange returns the hotel's date-agnostic rules plus the
	// date-ranged rules whose [start,end] window overlaps [from, to].
	FindByHotelAndRange(ctx context.Context, hotelID uuid.UUID, from, to time.Time) ([]*Rule, error)
}
