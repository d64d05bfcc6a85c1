package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ledger is the persistence port for the per-room per-date counters. Every
// multi-date mutation is a single all-or-nothing transaction: either every date
// in the batch is updated or none is, and concurrent writers to the same
// (room, date) rows are serialized with row locks.
type Ledger interface {
	// FindByRoomAndDates returns the existing records for the given dates.
	// Dates with no record are simply absent from the result.
	FindByRoomAndDates(ctx context.Context, roomID uuid.UUID, dates []time.Time) ([]Record, error)

	// FindByRoomsAndDates returns existing records across several rooms.
	FindByRoomsAndDates(ctx context.Context, roomIDs []uuid.UUID, dates []time.Time) ([]Record, error)

	// ApplyDelta decreases available by delta on every date (negative delta
	// releases capacity). Rows are seeded from totalRooms on first touch.
	// Returns a CapacityExceeded domain error and rolls back the whole batch
	// if any date would go negative; releases clamp at totalRooms.
	ApplyDelta(ctx context.Context, roomID uuid.UUID, totalRooms int, dates []time.Time, delta int) error

	// TransferHold atomically releases a hold on the old dates and acquires one
	// on the new dates. Used when a booking moves, so its own prior hold never
	// blocks the new range.
	TransferHold(ctx context.Context, roomID uuid.UUID, totalRooms int, oldDates []time.Time, oldRooms int, newDates []time.Time, newRooms int) error

	// BlockDates zeroes available on every date in the batch.
	BlockDates(ctx context.Context, roomID uuid.UUID, dates []time.Time) error

	// RecomputeDates recomputes available from totalRooms minus the rooms held
	// by non-cancelled bookings covering each date, floored at zero.
	RecomputeDates(ctx context.Context, roomID uuid.UUID, totalRooms int, dates []time.Time) error

	// PurgeRoom deletes every record of a room. Only called when the catalog
	// reports the room itself was deleted.
	PurgeRoom(ctx context.Context, roomID uuid.UUID) (int64, error)
}
