package room

import (
	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	"github.com/google/uuid"
)

// Room is the read model consumed from the room catalog. This service never
// creates or mutates rooms; it only needs pricing and capacity facts.
type Room struct {
	ID         uuid.UUID `json:"id"`
	HotelID    uuid.UUID `json:"hotel_id"`
	Capacity   int       `json:"capacity"`
	BasePrice  float64   `json:"base_price"`
	TotalRooms int       `json:"total_rooms"`
}

// Validate checks the catalog invariants this service relies on.
func (r Room) Validate() error {
	if r.TotalRooms < 0 {
		return domain.NewInvalidInputError("room total_rooms must not be negative")
	}
	if r.BasePrice < 0 {
		return domain.NewInvalidInputError("room base_price must not be negative")
	}
	return nil
}
