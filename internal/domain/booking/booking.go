package booking

import (
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/stay"
	"github.com/google/uuid"
)

// Status represents the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is the aggregate root for a stay reservation. Allowed transitions:
// pending -> confirmed, pending -> cancelled, confirmed -> cancelled.
// Nothing leaves cancelled; cancellation is a transition, never a deletion.
type Booking struct {
	id             uuid.UUID
	userID         uuid.UUID
	roomID         uuid.UUID
	hotelID        uuid.UUID
	stay           stay.DateRange
	guests         int
	roomsBooked    int
	finalPrice     float64
	appliedRuleIDs []uuid.UUID
	status         Status
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

// NewBooking creates a pending booking after validating the request shape.
func NewBooking(userID, roomID, hotelID uuid.UUID, stayRange stay.DateRange, guests, roomsBooked int, finalPrice float64, appliedRuleIDs []uuid.UUID) (*Booking, error) {
	if guests <= 0 {
		return nil, domain.NewInvalidInputError("guests must be positive")
	}
	if roomsBooked <= 0 {
		return nil, domain.NewInvalidInputError("rooms_booked must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		id:             uuid.New(),
		userID:         userID,
		roomID:         roomID,
		hotelID:        hotelID,
		stay:           stayRange,
		guests:         guests,
		roomsBooked:    roomsBooked,
		finalPrice:     finalPrice,
		appliedRuleIDs: appliedRuleIDs,
		status:         StatusPending,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Confirm transitions pending -> confirmed.
func (b *Booking) Confirm() error {
	if b.status != StatusPending {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions pending or confirmed -> cancelled.
func (b *Booking) Cancel() error {
	if b.status == StatusCancelled {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// Reschedule replaces the stay details and price on a live booking.
func (b *Booking) Reschedule(stayRange stay.DateRange, guests, roomsBooked int, finalPrice float64, appliedRuleIDs []uuid.UUID) error {
	if b.status == StatusCancelled {
		return domain.NewInvalidStateError(string(b.status), string(b.status))
	}
	if guests <= 0 {
		return domain.NewInvalidInputError("guests must be positive")
	}
	if roomsBooked <= 0 {
		return domain.NewInvalidInputError("rooms_booked must be positive")
	}
	b.stay = stayRange
	b.guests = guests
	b.roomsBooked = roomsBooked
	b.finalPrice = finalPrice
	b.appliedRuleIDs = appliedRuleIDs
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) RoomID() uuid.UUID            { return b.roomID }
func (b *Booking) HotelID() uuid.UUID           { return b.hotelID }
func (b *Booking) Stay() stay.DateRange         { return b.stay }
func (b *Booking) Guests() int                  { return b.guests }
func (b *Booking) RoomsBooked() int             { return b.roomsBooked }
func (b *Booking) FinalPrice() float64          { return b.finalPrice }
func (b *Booking) AppliedRuleIDs() []uuid.UUID  { return b.appliedRuleIDs }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) Version() int64               { return b.version }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

// Reconstitute rebuilds a Booking from persisted data.
func Reconstitute(
	id, userID, roomID, hotelID uuid.UUID,
	stayRange stay.DateRange,
	guests, roomsBooked int,
	finalPrice float64,
	appliedRuleIDs []uuid.UUID,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		userID:         userID,
		roomID:         roomID,
		hotelID:        hotelID,
		stay:           stayRange,
		guests:         guests,
		roomsBooked:    roomsBooked,
		finalPrice:     finalPrice,
		appliedRuleIDs: appliedRuleIDs,
		status:         status,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}
