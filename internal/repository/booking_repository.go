package repository

import (
	"context"
	"errors"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	bookingDomain "github.com/RoamStay-Hotels/service-booking/internal/domain/booking"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/stay"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingModel is the GORM persistence model for the bookings table.
type BookingModel struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID         uuid.UUID   `gorm:"type:uuid;not null;index"`
	RoomID         uuid.UUID   `gorm:"type:uuid;not null;index"`
	HotelID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	CheckIn        time.Time   `gorm:"type:date;not null"`
	CheckOut       time.Time   `gorm:"type:date;not null"`
	Guests         int         `gorm:"not null"`
	RoomsBooked    int         `gorm:"not null;default:1"`
	FinalPrice     float64     `gorm:"type:numeric(12,2);not null"`
	AppliedRuleIDs []uuid.UUID `gorm:"type:jsonb;serializer:json"`
	Status         string      `gorm:"type:varchar(20);not null;default:'pending';index"`
	Version        int64       `gorm:"not null;default:1"`
	CreatedAt      time.Time   `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt      time.Time   `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (BookingModel) TableName() string {
	return "bookings"
}

// BookingRepositoryImpl is the GORM-based implementation of the booking Repository.
type BookingRepositoryImpl struct {
	db *gorm.DB
}

// NewBookingRepository creates a new GORM-based booking repository.
func NewBookingRepository(db *gorm.DB) *BookingRepositoryImpl {
	return &BookingRepositoryImpl{db: db}
}

// FindByID retrieves a booking by its unique ID.
func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, err
	}
	return toBookingDomain(&model), nil
}

// Save persists a new booking aggregate.
func (r *BookingRepositoryImpl) Save(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing booking with optimistic locking.
func (r *BookingRepositoryImpl) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	previousVersion := b.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Updates(map[string]any{
			"check_in":         model.CheckIn,
			"check_out":        model.CheckOut,
			"guests":           model.Guests,
			"rooms_booked":     model.RoomsBooked,
			"final_price":      model.FinalPrice,
			"applied_rule_ids": model.AppliedRuleIDs,
			"status":           model.Status,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// ListByHotel retrieves a page of the hotel's bookings, newest first.
func (r *BookingRepositoryImpl) ListByHotel(ctx context.Context, hotelID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	r.db.WithContext(ctx).Model(&BookingModel{}).Where("hotel_id = ?", hotelID).Count(&total)

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return toBookingDomainList(models), total, nil
}

// ListAll retrieves a page of all bookings, newest first.
func (r *BookingRepositoryImpl) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total)

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return toBookingDomainList(models), total, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *BookingRepositoryImpl) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

func toBookingDomain(model *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstitute(
		model.ID,
		model.UserID,
		model.RoomID,
		model.HotelID,
		stay.DateRange{CheckIn: stay.Day(model.CheckIn), CheckOut: stay.Day(model.CheckOut)},
		model.Guests,
		model.RoomsBooked,
		model.FinalPrice,
		model.AppliedRuleIDs,
		bookingDomain.Status(model.Status),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func toBookingDomainList(models []BookingModel) []*bookingDomain.Booking {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingDomain(&models[i])
	}
	return bookings
}

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:             b.ID(),
		UserID:         b.UserID(),
		RoomID:         b.RoomID(),
		HotelID:        b.HotelID(),
		CheckIn:        b.Stay().CheckIn,
		CheckOut:       b.Stay().CheckOut,
		Guests:         b.Guests(),
		RoomsBooked:    b.RoomsBooked(),
		FinalPrice:     b.FinalPrice(),
		AppliedRuleIDs: b.AppliedRuleIDs(),
		Status:         string(b.Status()),
		Version:        b.Version(),
		CreatedAt:      b.CreatedAt(),
		UpdatedAt:      b.UpdatedAt(),
	}
}
