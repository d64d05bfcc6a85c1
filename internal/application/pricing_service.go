package application

import (
	"context"
	"math"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain/pricing"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/room"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/stay"
	"github.com/RoamStay-Hotels/service-booking/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// lastMinuteWindowDays is the maximum lead time, in days, for the LAST_MINUTE
// surcharge to apply.
const lastMinuteWindowDays = 3

// peakRatioThreshold is the hotel availability ratio below which PEAK applies.
const peakRatioThreshold = 0.20

// QuoteDTO is the API response for a priced stay.
type QuoteDTO struct {
	RoomID         uuid.UUID   `json:"room_id"`
	CheckIn        time.Time   `json:"check_in"`
	CheckOut       time.Time   `json:"check_out"`
	BasePrice      float64     `json:"base_price"`
	FinalPrice     float64     `json:"final_price"`
	AppliedRuleIDs []uuid.UUID `json:"applied_rule_ids"`
}

// PricePointDTO is one simulated nightly price.
type PricePointDTO struct {
	Date           time.Time   `json:"date"`
	Price          float64     `json:"price"`
	AppliedRuleIDs []uuid.UUID `json:"applied_rule_ids"`
}

// PricingService computes rule-adjusted prices for stays. Rules are read-only
// here; the hotel availability ratio feeds the PEAK predicate.
type PricingService struct {
	rules   pricing.RuleRepository
	catalog room.Catalog
	ledger  *LedgerService
	logger  *zap.Logger
	now     func() time.Time
}

// NewPricingService creates a new PricingService.
func NewPricingService(rules pricing.RuleRepository, catalog room.Catalog, ledger *LedgerService, logger *zap.Logger) *PricingService {
	return &PricingService{
		rules:   rules,
		catalog: catalog,
		ledger:  ledger,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the engine's notion of "today". Used by tests to pin the
// LAST_MINUTE predicate.
func (s *PricingService) WithClock(now func() time.Time) *PricingService {
	s.now = now
	return s
}

// PriceForRange prices the half-open stay range night by night, layering every
// applicable percentage rule on the room's base price, and rounds the total
// once at the end (2 decimals, half-up).
func (s *PricingService) PriceForRange(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (*QuoteDTO, error) {
	stayRange, err := stay.NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	rm, err := s.catalog.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	lastNight := stayRange.CheckOut.AddDate(0, 0, -1)
	rules, err := s.rules.FindByHotelAndRange(ctx, rm.HotelID, stayRange.CheckIn, lastNight)
	if err != nil {
		return nil, err
	}

	// LAST_MINUTE is evaluated once per call against the stay's check-in, so
	// every night of a last-minute stay gets the surcharge uniformly.
	lastMinute := s.isLastMinute(stayRange.CheckIn)

	total := 0.0
	applied := newRuleAudit()
	for _, date := range stayRange.Dates() {
		dayPrice, dayRules, err := s.priceDay(ctx, rm, rules, date, lastMinute)
		if err != nil {
			return nil, err
		}
		total += dayPrice
		applied.add(dayRules...)
	}

	metrics.IncPricingQuote()
	return &QuoteDTO{
		RoomID:         rm.ID,
		CheckIn:        stayRange.CheckIn,
		CheckOut:       stayRange.CheckOut,
		BasePrice:      rm.BasePrice,
		FinalPrice:     roundHalfUp(total),
		AppliedRuleIDs: applied.ids(),
	}, nil
}

// Simulate prices each date of the inclusive [from, to] sequence as its own
// single-night stay, returning one priced point per date.
func (s *PricingService) Simulate(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]PricePointDTO, error) {
	dates := stay.DatesInclusive(from, to)
	if len(dates) == 0 {
		return nil, nil
	}
	rm, err := s.catalog.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	rules, err := s.rules.FindByHotelAndRange(ctx, rm.HotelID, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}

	points := make([]PricePointDTO, 0, len(dates))
	for _, date := range dates {
		dayPrice, dayRules, err := s.priceDay(ctx, rm, rules, date, s.isLastMinute(date))
		if err != nil {
			return nil, err
		}
		audit := newRuleAudit()
		audit.add(dayRules...)
		points = append(points, PricePointDTO{
			Date:           date,
			Price:          roundHalfUp(dayPrice),
			AppliedRuleIDs: audit.ids(),
		})
	}

	metrics.IncPricingQuote()
	return points, nil
}

// priceDay computes one night's price: base plus the contribution of every
// rule whose predicate or window matches the date.
func (s *PricingService) priceDay(ctx context.Context, rm *room.Room, rules []*pricing.Rule, date time.Time, lastMinute bool) (float64, []uuid.UUID, error) {
	dayPrice := rm.BasePrice
	var applied []uuid.UUID

	for _, rule := range rules {
		if !rule.Type().DateAgnostic() {
			continue
		}
		if rule.Value() == 0 {
			continue
		}

		matches := false
		switch rule.Type() {
		case pricing.RuleWeekend:
			matches = stay.IsWeekend(date)
		case pricing.RulePeak:
			ratio, err := s.ledger.HotelAvailabilityRatio(ctx, rm.HotelID, date, date.AddDate(0, 0, 1))
			if err != nil {
				return 0, nil, err
			}
			matches = ratio < peakRatioThreshold
		case pricing.RuleLastMinute:
			matches = lastMinute
		}
		if matches {
			dayPrice += rule.Adjustment(rm.BasePrice)
			applied = append(applied, rule.ID())
		}
	}

	for _, rule := range rules {
		if rule.Type().DateAgnostic() {
			continue
		}
		if rule.CoversDate(date) {
			dayPrice += rule.Adjustment(rm.BasePrice)
			applied = append(applied, rule.ID())
		}
	}

	return dayPrice, applied, nil
}

func (s *PricingService) isLastMinute(checkIn time.Time) bool {
	lead := stay.DaysBetween(s.now(), checkIn)
	return lead >= 0 && lead <= lastMinuteWindowDays
}

// roundHalfUp rounds to 2 decimals, half away from zero.
func roundHalfUp(v float64) float64 {
	return math.Round(v*100) / 100
}

// ruleAudit collects applied rule IDs, deduplicated in first-applied order.
type ruleAudit struct {
	seen  map[uuid.UUID]struct{}
	order []uuid.UUID
}

func newRuleAudit() *ruleAudit {
	return &ruleAudit{seen: make(map[uuid.UUID]struct{})}
}

func (a *ruleAudit) add(ids ...uuid.UUID) {
	for _, id := range ids {
		if _, ok := a.seen[id]; ok {
			continue
		}
		a.seen[id] = struct{}{}
		a.order = append(a.order, id)
	}
}

func (a *ruleAudit) ids() []uuid.UUID {
	if a.order == nil {
		return []uuid.UUID{}
	}
	return a.order
}
