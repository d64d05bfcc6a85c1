package room

import (
	"context"

	"github.com/google/uuid"
)

// Catalog is the port to the external room catalog collaborator.
type Catalog interface {
	// FindByID returns the room or a NotFound domain error.
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindByHotel returns all rooms belonging to a hotel.
	FindByHotel(ctx context.Context, hotelID uuid.UUID) ([]*Room, error)
}
