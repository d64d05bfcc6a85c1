package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence port for the Booking aggregate.
type Repository interface {
	// FindByID returns the booking or a NotFound domain error.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Save persists a new booking aggregate.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes with optimistic locking; returns a Conflict
	// domain error when the stored version does not match.
	Update(ctx context.Context, b *Booking) error

	// ListByHotel returns a page of the hotel's bookings plus the total count.
	ListByHotel(ctx context.Context, hotelID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll returns a page of all bookings plus the total count.
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
