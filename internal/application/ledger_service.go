package application

import (
	"context"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/availability"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/room"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/stay"
	"github.com/RoamStay-Hotels/service-booking/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService exposes the availability ledger use cases: point and range
// checks, inventory adjustment, block/unblock and the hotel-wide ratio.
type LedgerService struct {
	ledger  availability.Ledger
	catalog room.Catalog
	logger  *zap.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledger availability.Ledger, catalog room.Catalog, logger *zap.Logger) *LedgerService {
	return &LedgerService{ledger: ledger, catalog: catalog, logger: logger}
}

// IsAvailable reports whether the room has capacity on the date: true when no
// record exists, or when the record still counts available rooms.
func (s *LedgerService) IsAvailable(ctx context.Context, roomID uuid.UUID, date time.Time) (bool, error) {
	if _, err := s.catalog.FindByID(ctx, roomID); err != nil {
		return false, err
	}

	day := stay.Day(date)
	records, err := s.ledger.FindByRoomAndDates(ctx, roomID, []time.Time{day})
	if err != nil {
		return false, err
	}
	if len(records) == 0 {
		return true, nil
	}
	return records[0].Available > 0, nil
}

// IsAvailableForRange reports whether every date of the half-open stay range
// has capacity. The range must be non-empty.
func (s *LedgerService) IsAvailableForRange(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	stayRange, err := stay.NewDateRange(checkIn, checkOut)
	if err != nil {
		return false, err
	}
	if _, err := s.catalog.FindByID(ctx, roomID); err != nil {
		return false, err
	}
	return s.rangeAvailable(ctx, roomID, stayRange)
}

// rangeAvailable answers the range check without re-validating the room.
// A range is unavailable iff some date in it has an exhausted record.
func (s *LedgerService) rangeAvailable(ctx context.Context, roomID uuid.UUID, stayRange stay.DateRange) (bool, error) {
	records, err := s.ledger.FindByRoomAndDates(ctx, roomID, stayRange.Dates())
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.Available <= 0 {
			return false, nil
		}
	}
	return true, nil
}

// AdjustInventory decreases the room's availability on a date by delta.
// Negative delta releases capacity. The row is seeded from totalRooms on first
// touch; underflow fails with CapacityExceeded.
func (s *LedgerService) AdjustInventory(ctx context.Context, roomID uuid.UUID, date time.Time, delta int) error {
	rm, err := s.catalog.FindByID(ctx, roomID)
	if err != nil {
		return err
	}

	if err := s.ledger.ApplyDelta(ctx, roomID, rm.TotalRooms, []time.Time{stay.Day(date)}, delta); err != nil {
		return err
	}

	metrics.IncLedgerMutation("adjust")
	s.logger.Info("inventory adjusted",
		zap.String("room_id", roomID.String()),
		zap.Time("date", stay.Day(date)),
		zap.Int("delta", delta),
	)
	return nil
}

// Block zeroes availability on every date of the closed [start, end] range.
func (s *LedgerService) Block(ctx context.Context, roomID uuid.UUID, start, end time.Time) error {
	if _, err := s.catalog.FindByID(ctx, roomID); err != nil {
		return err
	}
	dates := stay.DatesInclusive(start, end)
	if len(dates) == 0 {
		return domain.NewInvalidInputError("end_date must not precede start_date")
	}

	if err := s.ledger.BlockDates(ctx, roomID, dates); err != nil {
		return err
	}

	metrics.IncLedgerMutation("block")
	s.logger.Info("room blocked",
		zap.String("room_id", roomID.String()),
		zap.Time("start", dates[0]),
		zap.Time("end", dates[len(dates)-1]),
	)
	return nil
}

// Unblock recomputes availability over the closed [start, end] range from the
// live bookings, instead of blindly restoring totalRooms.
func (s *LedgerService) Unblock(ctx context.Context, roomID uuid.UUID, start, end time.Time) error {
	rm, err := s.catalog.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	dates := stay.DatesInclusive(start, end)
	if len(dates) == 0 {
		return domain.NewInvalidInputError("end_date must not precede start_date")
	}

	if err := s.ledger.RecomputeDates(ctx, roomID, rm.TotalRooms, dates); err != nil {
		return err
	}

	metrics.IncLedgerMutation("unblock")
	s.logger.Info("room unblocked",
		zap.String("room_id", roomID.String()),
		zap.Time("start", dates[0]),
		zap.Time("end", dates[len(dates)-1]),
	)
	return nil
}

// HotelAvailabilityRatio returns the fraction of the hotel's room-nights still
// available over the half-open range, averaged across dates. A hotel with zero
// total rooms yields 0; an empty range yields 1 by convention.
func (s *LedgerService) HotelAvailabilityRatio(ctx context.Context, hotelID uuid.UUID, start, end time.Time) (float64, error) {
	from, to := stay.Day(start), stay.Day(end)
	if !to.After(from) {
		return 1.0, nil
	}

	rooms, err := s.catalog.FindByHotel(ctx, hotelID)
	if err != nil {
		return 0, err
	}

	totalRooms := 0
	roomIDs := make([]uuid.UUID, len(rooms))
	totalByRoom := make(map[uuid.UUID]int, len(rooms))
	for i, rm := range rooms {
		roomIDs[i] = rm.ID
		totalByRoom[rm.ID] = rm.TotalRooms
		totalRooms += rm.TotalRooms
	}
	if totalRooms == 0 {
		return 0, nil
	}

	dates := stay.DateRange{CheckIn: from, CheckOut: to}.Dates()
	records, err := s.ledger.FindByRoomsAndDates(ctx, roomIDs, dates)
	if err != nil {
		return 0, err
	}

	type key struct {
		room uuid.UUID
		date string
	}
	availByKey := make(map[key]int, len(records))
	for _, rec := range records {
		availByKey[key{rec.RoomID, rec.Date.Format("2006-01-02")}] = rec.Available
	}

	var sum float64
	for _, d := range dates {
		availableSum := 0
		for _, rm := range rooms {
			if avail, ok := availByKey[key{rm.ID, d.Format("2006-01-02")}]; ok {
				availableSum += avail
			} else {
				availableSum += totalByRoom[rm.ID]
			}
		}
		sum += float64(availableSum) / float64(totalRooms)
	}
	return sum / float64(len(dates)), nil
}

// PurgeRoom removes every ledger record of a deleted room.
func (s *LedgerService) PurgeRoom(ctx context.Context, roomID uuid.UUID) error {
	deleted, err := s.ledger.PurgeRoom(ctx, roomID)
	if err != nil {
		return err
	}
	s.logger.Info("purged ledger records for deleted room",
		zap.String("room_id", roomID.String()),
		zap.Int64("records", deleted),
	)
	return nil
}
