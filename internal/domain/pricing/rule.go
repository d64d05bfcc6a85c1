package pricing

import (
	"fmt"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/stay"
	"github.com/google/uuid"
)

// RuleType classifies a pricing adjustment.
type RuleType string

const (
	RuleWeekend    RuleType = "WEEKEND"
	RulePeak       RuleType = "PEAK"
	RuleLastMinute RuleType = "LAST_MINUTE"
	RuleSeasonal   RuleType = "SEASONAL"
	RuleDiscount   RuleType = "DISCOUNT"
)

// DateAgnostic reports whether the rule type is predicate-evaluated per date
// rather than bound to a calendar window.
func (t RuleType) DateAgnostic() bool {
	return t == RuleWeekend || t == RulePeak || t == RuleLastMinute
}

// Rule is a percentage price adjustment owned by the external rule-management
// collaborator. The engine treats rules as read-only.
type Rule struct {
	id        uuid.UUID
	hotelID   uuid.UUID
	ruleType  RuleType
	value     int // percentage of base price; negative for discounts
	startDate *time.Time
	endDate   *time.Time
	createdAt time.Time
}

// NewRule creates a rule. Date-ranged types require a [start,end] window;
// DISCOUNT stores a negative value by convention.
func NewRule(hotelID uuid.UUID, ruleType RuleType, value int, startDate, endDate *time.Time) (*Rule, error) {
	switch ruleType {
	case RuleWeekend, RulePeak, RuleLastMinute, RuleSeasonal, RuleDiscount:
	default:
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown rule type %q", ruleType))
	}
	if !ruleType.DateAgnostic() {
		if startDate == nil || endDate == nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("rule type %s requires a start and end date", ruleType))
		}
		if endDate.Before(*startDate) {
			return nil, domain.NewInvalidInputError("rule end_date must not precede start_date")
		}
	}
	if ruleType == RuleDiscount && value > 0 {
		value = -value
	}

	return &Rule{
		id:        uuid.New(),
		hotelID:   hotelID,
		ruleType:  ruleType,
		value:     value,
		startDate: startDate,
		endDate:   endDate,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Rule from persistence.
func Reconstruct(id, hotelID uuid.UUID, ruleType RuleType, value int, startDate, endDate *time.Time, createdAt time.Time) *Rule {
	return &Rule{
		id:        id,
		hotelID:   hotelID,
		ruleType:  ruleType,
		value:     value,
		startDate: startDate,
		endDate:   endDate,
		createdAt: createdAt,
	}
}

// CoversDate reports whether a date-ranged rule's closed [start,end] window
// contains the date. Always false for date-agnostic types.
func (r *Rule) CoversDate(date time.Time) bool {
	if r.ruleType.DateAgnostic() || r.startDate == nil || r.endDate == nil {
		return false
	}
	d := stay.Day(date)
	return !d.Before(stay.Day(*r.startDate)) && !d.After(stay.Day(*r.endDate))
}

// Adjustment returns the per-night price contribution for a base price.
func (r *Rule) Adjustment(basePrice float64) float64 {
	return basePrice * float64(r.value) / 100
}

func (r *Rule) ID() uuid.UUID         { return r.id }
func (r *Rule) HotelID() uuid.UUID    { return r.hotelID }
func (r *Rule) Type() RuleType        { return r.ruleType }
func (r *Rule) Value() int            { return r.value }
func (r *Rule) StartDate() *time.Time { return r.startDate }
func (r *Rule) EndDate() *time.Time   { return r.endDate }
func (r *Rule) CreatedAt() time.Time  { return r.createdAt }
