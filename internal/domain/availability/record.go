package availability

import (
	"time"

	"github.com/google/uuid"
)

// Record is one per-room per-date available-room counter. Records are sparse:
// the absence of a record for a date means the room is fully available there
// (available == totalRooms). Records are created lazily on first mutation and
// only ever deleted when the owning room is deleted.
type Record struct {
	RoomID    uuid.UUID
	Date      time.Time
	Available int
}
