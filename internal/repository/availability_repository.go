package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	availabilityDomain "github.com/RoamStay-Hotels/service-booking/internal/domain/availability"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AvailabilityModel is the GORM persistence model for the availability_records
// table. Records are sparse: a (room, date) pair with no row is fully available.
type AvailabilityModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_avail_room_date"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_avail_room_date"`
	Available int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (AvailabilityModel) TableName() string {
	return "availability_records"
}

// AvailabilityLedgerImpl is the GORM-based implementation of the Ledger port.
// Every multi-date mutation runs inside one transaction with FOR UPDATE row
// locks, so concurrent bookings racing for the last room on a date serialize
// instead of losing updates, and a mid-batch failure rolls the whole batch back.
type AvailabilityLedgerImpl struct {
	db *gorm.DB
}

// NewAvailabilityLedger creates a new GORM-based availability ledger.
func NewAvailabilityLedger(db *gorm.DB) *AvailabilityLedgerImpl {
	return &AvailabilityLedgerImpl{db: db}
}

// FindByRoomAndDates returns the existing records for the given dates.
func (r *AvailabilityLedgerImpl) FindByRoomAndDates(ctx context.Context, roomID uuid.UUID, dates []time.Time) ([]availabilityDomain.Record, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	var models []AvailabilityModel
	if err := r.db.WithContext(ctx).
		Where("room_id = ? AND date IN ?", roomID, dates).
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toRecordList(models), nil
}

// FindByRoomsAndDates returns existing records across several rooms.
func (r *AvailabilityLedgerImpl) FindByRoomsAndDates(ctx context.Context, roomIDs []uuid.UUID, dates []time.Time) ([]availabilityDomain.Record, error) {
	if len(roomIDs) == 0 || len(dates) == 0 {
		return nil, nil
	}
	var models []AvailabilityModel
	if err := r.db.WithContext(ctx).
		Where("room_id IN ? AND date IN ?", roomIDs, dates).
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toRecordList(models), nil
}

// ApplyDelta decreases available by delta on every date in one transaction.
func (r *AvailabilityLedgerImpl) ApplyDelta(ctx context.Context, roomID uuid.UUID, totalRooms int, dates []time.Time, delta int) error {
	if len(dates) == 0 || delta == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyDeltaTx(tx, roomID, totalRooms, dates, delta)
	})
}

// TransferHold releases the old hold and acquires the new one atomically.
func (r *AvailabilityLedgerImpl) TransferHold(ctx context.Context, roomID uuid.UUID, totalRooms int, oldDates []time.Time, oldRooms int, newDates []time.Time, newRooms int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyDeltaTx(tx, roomID, totalRooms, oldDates, -oldRooms); err != nil {
			return err
		}
		return applyDeltaTx(tx, roomID, totalRooms, newDates, newRooms)
	})
}

// BlockDates zeroes available on every date in a single upsert.
func (r *AvailabilityLedgerImpl) BlockDates(ctx context.Context, roomID uuid.UUID, dates []time.Time) error {
	if len(dates) == 0 {
		return nil
	}
	models := make([]AvailabilityModel, len(dates))
	now := time.Now().UTC()
	for i, d := range dates {
		models[i] = AvailabilityModel{RoomID: roomID, Date: d, Available: 0, UpdatedAt: now}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{"available": 0, "updated_at": now}),
	}).Create(&models).Error
}

// RecomputeDates rebuilds available from totalRooms minus the rooms held by
// non-cancelled bookings covering each date. A recompute rather than a blind
// restore, so unblocking stays correct even if bookings were created while the
// dates were blocked.
func (r *AvailabilityLedgerImpl) RecomputeDates(ctx context.Context, roomID uuid.UUID, totalRooms int, dates []time.Time) error {
	if len(dates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, d := range dates {
			var booked int64
			err := tx.Model(&BookingModel{}).
				Where("room_id = ? AND status <> ? AND check_in <= ? AND check_out > ?",
					roomID, "cancelled", d, d).
				Select("COALESCE(SUM(rooms_booked), 0)").
				Scan(&booked).Error
			if err != nil {
				return err
			}

			available := totalRooms - int(booked)
			if available < 0 {
				available = 0
			}

			model := AvailabilityModel{RoomID: roomID, Date: d, Available: available, UpdatedAt: now}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "room_id"}, {Name: "date"}},
				DoUpdates: clause.Assignments(map[string]any{"available": available, "updated_at": now}),
			}).Create(&model).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// PurgeRoom deletes every record of a room (room deletion only).
func (r *AvailabilityLedgerImpl) PurgeRoom(ctx context.Context, roomID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&AvailabilityModel{})
	return result.RowsAffected, result.Error
}

// applyDeltaTx performs the read-modify-write batch inside an open transaction.
// Missing rows are seeded from totalRooms first, then every touched row is
// locked FOR UPDATE before being validated and written.
func applyDeltaTx(tx *gorm.DB, roomID uuid.UUID, totalRooms int, dates []time.Time, delta int) error {
	if len(dates) == 0 || delta == 0 {
		return nil
	}

	now := time.Now().UTC()
	seeds := make([]AvailabilityModel, len(dates))
	for i, d := range dates {
		seeds[i] = AvailabilityModel{RoomID: roomID, Date: d, Available: totalRooms, UpdatedAt: now}
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&seeds).Error; err != nil {
		return err
	}

	var models []AvailabilityModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ? AND date IN ?", roomID, dates).
		Find(&models).Error; err != nil {
		return err
	}

	for i := range models {
		next := models[i].Available - delta
		if next < 0 {
			return domain.NewCapacityExceededError(
				fmt.Sprintf("no capacity left on %s", models[i].Date.Format("2006-01-02")))
		}
		if next > totalRooms {
			next = totalRooms
		}
		err := tx.Model(&AvailabilityModel{}).
			Where("id = ?", models[i].ID).
			Updates(map[string]any{"available": next, "updated_at": now}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func toRecordList(models []AvailabilityModel) []availabilityDomain.Record {
	records := make([]availabilityDomain.Record, len(models))
	for i, m := range models {
		records[i] = availabilityDomain.Record{
			RoomID:    m.RoomID,
			Date:      m.Date,
			Available: m.Available,
		}
	}
	return records
}
