package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics shared with the other services on the bus.
const (
	TopicBookingEvents = "booking.events"
	TopicRoomEvents    = "room.events"
)

// Event types.
const (
	BookingConfirmed = "booking.confirmed"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"
	RoomDeleted      = "room.deleted"
)

// BookingConfirmedEvent is published when a booking reaches confirmed.
type BookingConfirmedEvent struct {
	BookingID      uuid.UUID   `json:"booking_id"`
	UserID         uuid.UUID   `json:"user_id"`
	RoomID         uuid.UUID   `json:"room_id"`
	HotelID        uuid.UUID   `json:"hotel_id"`
	CheckIn        time.Time   `json:"check_in"`
	CheckOut       time.Time   `json:"check_out"`
	Guests         int         `json:"guests"`
	RoomsBooked    int         `json:"rooms_booked"`
	FinalPrice     float64     `json:"final_price"`
	AppliedRuleIDs []uuid.UUID `json:"applied_rule_ids"`
	OccurredAt     time.Time   `json:"occurred_at"`
}

// BookingUpdatedEvent is published when a booking is rescheduled.
type BookingUpdatedEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	RoomID      uuid.UUID `json:"room_id"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	Guests      int       `json:"guests"`
	RoomsBooked int       `json:"rooms_booked"`
	FinalPrice  float64   `json:"final_price"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled.
type BookingCancelledEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	RoomID     uuid.UUID `json:"room_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RoomDeletedEvent arrives from the room-catalog service when a room is
// removed; the ledger purges the room's records in response.
type RoomDeletedEvent struct {
	RoomID     uuid.UUID `json:"room_id"`
	HotelID    uuid.UUID `json:"hotel_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
