package application

import (
	"context"
	"errors"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	bookingDomain "github.com/RoamStay-Hotels/service-booking/internal/domain/booking"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/room"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/stay"
	"github.com/RoamStay-Hotels/service-booking/internal/events"
	"github.com/RoamStay-Hotels/service-booking/internal/metrics"
	"github.com/RoamStay-Hotels/service-booking/internal/saga"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher is the port for the best-effort booking event stream.
type EventPublisher interface {
	PublishConfirmed(ctx context.Context, event events.BookingConfirmedEvent)
	PublishUpdated(ctx context.Context, event events.BookingUpdatedEvent)
	PublishCancelled(ctx context.Context, event events.BookingCancelledEvent)
}

// BookingDTO is the API response for booking data.
type BookingDTO struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	RoomID         uuid.UUID   `json:"room_id"`
	HotelID        uuid.UUID   `json:"hotel_id"`
	CheckIn        time.Time   `json:"check_in"`
	CheckOut       time.Time   `json:"check_out"`
	Guests         int         `json:"guests"`
	RoomsBooked    int         `json:"rooms_booked"`
	FinalPrice     float64     `json:"final_price"`
	AppliedRuleIDs []uuid.UUID `json:"applied_rule_ids"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

// BookingStatsDTO holds booking statistics for the admin surface.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService orchestrates the booking lifecycle: validate, check
// availability against the ledger, price via the rule engine, and drive the
// pending -> confirmed -> cancelled state machine while keeping the ledger in
// step. Caller identity is always an explicit parameter.
type BookingService struct {
	bookings  bookingDomain.Repository
	catalog   room.Catalog
	ledgerSvc *LedgerService
	pricing   *PricingService
	sagaSvc   *saga.BookingSagaService
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	catalog room.Catalog,
	ledgerSvc *LedgerService,
	pricing *PricingService,
	sagaSvc *saga.BookingSagaService,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		catalog:   catalog,
		ledgerSvc: ledgerSvc,
		pricing:   pricing,
		sagaSvc:   sagaSvc,
		publisher: publisher,
		logger:    logger,
	}
}

// Create books a stay. Validation and the availability check happen before any
// mutation; the persist/reserve/confirm sequence runs as a compensated saga.
func (s *BookingService) Create(ctx context.Context, userID, roomID uuid.UUID, checkIn, checkOut time.Time, guests, roomsBooked int) (*BookingDTO, error) {
	stayRange, err := stay.NewDateRange(checkIn, checkOut)
	if err != nil {
		metrics.IncBooking("create", "rejected")
		return nil, err
	}
	if guests <= 0 {
		metrics.IncBooking("create", "rejected")
		return nil, domain.NewInvalidInputError("guests must be positive")
	}
	if roomsBooked <= 0 {
		metrics.IncBooking("create", "rejected")
		return nil, domain.NewInvalidInputError("rooms_booked must be positive")
	}

	rm, err := s.catalog.FindByID(ctx, roomID)
	if err != nil {
		metrics.IncBooking("create", "rejected")
		return nil, err
	}

	available, err := s.ledgerSvc.rangeAvailable(ctx, roomID, stayRange)
	if err != nil {
		return nil, err
	}
	if !available {
		metrics.IncBooking("create", "unavailable")
		return nil, domain.NewUnavailableError("room is not available for the requested dates")
	}

	quote, err := s.pricing.PriceForRange(ctx, roomID, stayRange.CheckIn, stayRange.CheckOut)
	if err != nil {
		return nil, err
	}
	finalPrice := roundHalfUp(quote.FinalPrice * float64(roomsBooked))

	b, err := bookingDomain.NewBooking(userID, roomID, rm.HotelID, stayRange, guests, roomsBooked, finalPrice, quote.AppliedRuleIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("creating booking",
		zap.String("booking_id", b.ID().String()),
		zap.String("user_id", userID.String()),
		zap.String("room_id", roomID.String()),
		zap.Time("check_in", stayRange.CheckIn),
		zap.Time("check_out", stayRange.CheckOut),
		zap.Int("rooms_booked", roomsBooked),
	)

	if err := s.sagaSvc.ConfirmBookingSaga(ctx, b, rm.TotalRooms); err != nil {
		metrics.IncBooking("create", "failed")
		// A race for the last room surfaces as capacity exhaustion at commit.
		if errors.Is(err, domain.ErrCapacityExceeded) {
			return nil, domain.NewUnavailableError("room is not available for the requested dates")
		}
		return nil, err
	}

	s.publisher.PublishConfirmed(ctx, events.BookingConfirmedEvent{
		BookingID:      b.ID(),
		UserID:         b.UserID(),
		RoomID:         b.RoomID(),
		HotelID:        b.HotelID(),
		CheckIn:        b.Stay().CheckIn,
		CheckOut:       b.Stay().CheckOut,
		Guests:         b.Guests(),
		RoomsBooked:    b.RoomsBooked(),
		FinalPrice:     b.FinalPrice(),
		AppliedRuleIDs: b.AppliedRuleIDs(),
		OccurredAt:     time.Now().UTC(),
	})

	metrics.IncBooking("create", "confirmed")
	dto := toBookingDTO(b)
	return &dto, nil
}

// Update reschedules a booking. The old hold is released and the new one
// acquired in a single ledger transaction, so the booking never competes with
// its own prior hold; the price is recomputed for the new stay.
func (s *BookingService) Update(ctx context.Context, userID, id uuid.UUID, checkIn, checkOut time.Time, guests, roomsBooked int) (*BookingDTO, error) {
	stayRange, err := stay.NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rm, err := s.catalog.FindByID(ctx, b.RoomID())
	if err != nil {
		return nil, err
	}

	oldDates := b.Stay().Dates()
	oldRooms := b.RoomsBooked()

	quote, err := s.pricing.PriceForRange(ctx, b.RoomID(), stayRange.CheckIn, stayRange.CheckOut)
	if err != nil {
		return nil, err
	}
	finalPrice := roundHalfUp(quote.FinalPrice * float64(roomsBooked))

	if err := b.Reschedule(stayRange, guests, roomsBooked, finalPrice, quote.AppliedRuleIDs); err != nil {
		metrics.IncBooking("update", "rejected")
		return nil, err
	}

	s.logger.Info("rescheduling booking",
		zap.String("booking_id", id.String()),
		zap.String("user_id", userID.String()),
		zap.Time("check_in", stayRange.CheckIn),
		zap.Time("check_out", stayRange.CheckOut),
	)

	if err := s.sagaSvc.RescheduleBookingSaga(ctx, b, rm.TotalRooms, oldDates, oldRooms); err != nil {
		metrics.IncBooking("update", "failed")
		if errors.Is(err, domain.ErrCapacityExceeded) {
			return nil, domain.NewUnavailableError("room is not available for the requested dates")
		}
		return nil, err
	}

	s.publisher.PublishUpdated(ctx, events.BookingUpdatedEvent{
		BookingID:   b.ID(),
		RoomID:      b.RoomID(),
		CheckIn:     b.Stay().CheckIn,
		CheckOut:    b.Stay().CheckOut,
		Guests:      b.Guests(),
		RoomsBooked: b.RoomsBooked(),
		FinalPrice:  b.FinalPrice(),
		OccurredAt:  time.Now().UTC(),
	})

	metrics.IncBooking("update", "confirmed")
	dto := toBookingDTO(b)
	return &dto, nil
}

// Cancel transitions the booking to cancelled and releases exactly its held
// inventory on every date of the stay.
func (s *BookingService) Cancel(ctx context.Context, userID, id uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status() == bookingDomain.StatusCancelled {
		metrics.IncBooking("cancel", "rejected")
		return nil, domain.NewInvalidStateError(string(b.Status()), string(bookingDomain.StatusCancelled))
	}

	rm, err := s.catalog.FindByID(ctx, b.RoomID())
	if err != nil {
		return nil, err
	}

	s.logger.Info("cancelling booking",
		zap.String("booking_id", id.String()),
		zap.String("user_id", userID.String()),
	)

	if err := s.sagaSvc.CancelBookingSaga(ctx, b, rm.TotalRooms); err != nil {
		metrics.IncBooking("cancel", "failed")
		return nil, err
	}

	s.publisher.PublishCancelled(ctx, events.BookingCancelledEvent{
		BookingID:  b.ID(),
		UserID:     b.UserID(),
		RoomID:     b.RoomID(),
		CheckIn:    b.Stay().CheckIn,
		CheckOut:   b.Stay().CheckOut,
		OccurredAt: time.Now().UTC(),
	})

	metrics.IncBooking("cancel", "cancelled")
	dto := toBookingDTO(b)
	return &dto, nil
}

// Get retrieves a booking by ID.
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(b)
	return &dto, nil
}

// ListByHotel returns a page of the hotel's bookings.
func (s *BookingService) ListByHotel(ctx context.Context, hotelID uuid.UUID, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListByHotel(ctx, hotelID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOList(bookings), total, nil
}

// ListAll returns a page of all bookings.
func (s *BookingService) ListAll(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOList(bookings), total, nil
}

// GetStats returns aggregate booking statistics.
func (s *BookingService) GetStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

func toBookingDTO(b *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
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
		CreatedAt:      b.CreatedAt(),
	}
}

func toBookingDTOList(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	return dtos
}
