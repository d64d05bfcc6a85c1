package repository

import (
	"context"
	"errors"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	roomDomain "github.com/RoamStay-Hotels/service-booking/internal/domain/room"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomModel is the GORM persistence model for the rooms table. The table is
// owned by the room-catalog service; this service reads it for pricing and
// capacity facts only.
type RoomModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	HotelID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Capacity   int       `gorm:"not null;default:2"`
	BasePrice  float64   `gorm:"type:numeric(12,2);not null"`
	TotalRooms int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt  time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (RoomModel) TableName() string {
	return "rooms"
}

// RoomCatalogImpl is the GORM-backed adapter for the room catalog port.
type RoomCatalogImpl struct {
	db *gorm.DB
}

// NewRoomCatalog creates a new GORM-based room catalog adapter.
func NewRoomCatalog(db *gorm.DB) *RoomCatalogImpl {
	return &RoomCatalogImpl{db: db}
}

// FindByID retrieves a room by its unique ID.
func (r *RoomCatalogImpl) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, err
	}
	return toRoomDomain(&model), nil
}

// FindByHotel retrieves every room belonging to a hotel.
func (r *RoomCatalogImpl) FindByHotel(ctx context.Context, hotelID uuid.UUID) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Find(&models).Error; err != nil {
		return nil, err
	}
	rooms := make([]*roomDomain.Room, len(models))
	for i := range models {
		rooms[i] = toRoomDomain(&models[i])
	}
	return rooms, nil
}

func toRoomDomain(model *RoomModel) *roomDomain.Room {
	return &roomDomain.Room{
		ID:         model.ID,
		HotelID:    model.HotelID,
		Capacity:   model.Capacity,
		BasePrice:  model.BasePrice,
		TotalRooms: model.TotalRooms,
	}
}
