package repository

import (
	"context"
	"time"

	pricingDomain "github.com/RoamStay-Hotels/service-booking/internal/domain/pricing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingRuleModel is the GORM persistence model for the pricing_rules table.
// Rules are written by the rule-management service; this service reads them.
type PricingRuleModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	HotelID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	RuleType  string     `gorm:"type:varchar(20);not null"`
	Value     int        `gorm:"not null"`
	StartDate *time.Time `gorm:"type:date"`
	EndDate   *time.Time `gorm:"type:date"`
	CreatedAt time.Time  `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}

// PricingRuleRepositoryImpl is the GORM-based implementation of RuleRepository.
type PricingRuleRepositoryImpl struct {
	db *gorm.DB
}

// NewPricingRuleRepository creates a new GORM-based rule repository.
func NewPricingRuleRepository(db *gorm.DB) *PricingRuleRepositoryImpl {
	return &PricingRuleRepositoryImpl{db: db}
}

// FindByHotel retrieves every rule configured for a hotel.
func (r *PricingRuleRepositoryImpl) FindByHotel(ctx context.Context, hotelID uuid.UUID) ([]*pricingDomain.Rule, error) {
	var models []PricingRuleModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toRuleDomainList(models), nil
}

// FindByHotelAndRange retrieves the hotel's date-agnostic rules plus the
// date-ranged rules whose window overlaps [from, to].
func (r *PricingRuleRepositoryImpl) FindByHotelAndRange(ctx context.Context, hotelID uuid.UUID, from, to time.Time) ([]*pricingDomain.Rule, error) {
	var models []PricingRuleModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Where("(start_date IS NULL AND end_date IS NULL) OR (start_date <= ? AND end_date >= ?)", to, from).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toRuleDomainList(models), nil
}

func toRuleDomainList(models []PricingRuleModel) []*pricingDomain.Rule {
	rules := make([]*pricingDomain.Rule, len(models))
	for i, m := range models {
		rules[i] = pricingDomain.Reconstruct(
			m.ID,
			m.HotelID,
			pricingDomain.RuleType(m.RuleType),
			m.Value,
			m.StartDate,
			m.EndDate,
			m.CreatedAt,
		)
	}
	return rules
}
