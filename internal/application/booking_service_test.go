package application

import (
	"context"
	"testing"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	bookingDomain "github.com/RoamStay-Hotels/service-booking/internal/domain/booking"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/pricing"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/room"
	"github.com/RoamStay-Hotels/service-booking/internal/saga"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookingFixture struct {
	svc       *BookingService
	ledger    *fakeLedger
	catalog   *fakeCatalog
	bookings  *fakeBookingRepo
	rules     *fakeRuleRepo
	publisher *fakePublisher
	room      *room.Room
	hotelID   uuid.UUID
	userID    uuid.UUID
}

func newBookingFixture(t *testing.T, totalRooms int) *bookingFixture {
	t.Helper()
	log := zap.NewNop()
	hotelID := uuid.New()
	rm := &room.Room{ID: uuid.New(), HotelID: hotelID, Capacity: 4, BasePrice: 100, TotalRooms: totalRooms}
	catalog := &fakeCatalog{rooms: []*room.Room{rm}}
	ledger := newFakeLedger()
	bookings := newFakeBookingRepo()
	rules := &fakeRuleRepo{}
	publisher := &fakePublisher{}

	ledgerSvc := NewLedgerService(ledger, catalog, log)
	pricingSvc := NewPricingService(rules, catalog, ledgerSvc, log)
	pricingSvc.WithClock(func() time.Time { return utcDate(2025, 1, 1) })
	sagaSvc := saga.NewBookingSagaService(bookings, ledger, log)
	svc := NewBookingService(bookings, catalog, ledgerSvc, pricingSvc, sagaSvc, publisher, log)

	return &bookingFixture{
		svc:       svc,
		ledger:    ledger,
		catalog:   catalog,
		bookings:  bookings,
		rules:     rules,
		publisher: publisher,
		room:      rm,
		hotelID:   hotelID,
		userID:    uuid.New(),
	}
}

func (f *bookingFixture) create(t *testing.T, checkIn, checkOut time.Time, guests, rooms int) *BookingDTO {
	t.Helper()
	dto, err := f.svc.Create(context.Background(), f.userID, f.room.ID, checkIn, checkOut, guests, rooms)
	require.NoError(t, err)
	return dto
}

func TestCreate_ConfirmsAndReservesInventory(t *testing.T) {
	f := newBookingFixture(t, 5)

	dto := f.create(t, utcDate(2025, 6, 9), utcDate(2025, 6, 12), 2, 2)

	assert.Equal(t, string(bookingDomain.StatusConfirmed), dto.Status)
	assert.InDelta(t, 600.00, dto.FinalPrice, 1e-9, "3 nights x 100 x 2 rooms")
	assert.Equal(t, f.hotelID, dto.HotelID)

	// Every stay night lost exactly roomsBooked; the check-out date untouched.
	for _, d := range []int{9, 10, 11} {
		assert.Equal(t, 3, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, d))], "day %d", d)
	}
	_, touched := f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 12))]
	assert.False(t, touched)

	require.Len(t, f.publisher.confirmed, 1)
	assert.Equal(t, dto.ID, f.publisher.confirmed[0].BookingID)
}

func TestCreate_PricesWithRules(t *testing.T) {
	f := newBookingFixture(t, 5)
	r, err := pricing.NewRule(f.hotelID, pricing.RuleWeekend, 10, nil, nil)
	require.NoError(t, err)
	f.rules.rules = append(f.rules.rules, r)

	dto := f.create(t, utcDate(2025, 6, 7), utcDate(2025, 6, 9), 2, 1)

	assert.InDelta(t, 220.00, dto.FinalPrice, 1e-9)
	assert.Equal(t, []uuid.UUID{r.ID()}, dto.AppliedRuleIDs)
}

func TestCreate_InvalidInputMutatesNothing(t *testing.T) {
	f := newBookingFixture(t, 5)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.userID, f.room.ID, utcDate(2025, 6, 12), utcDate(2025, 6, 9), 2, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, f.userID, f.room.ID, utcDate(2025, 6, 9), utcDate(2025, 6, 12), 0, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, f.userID, f.room.ID, utcDate(2025, 6, 9), utcDate(2025, 6, 12), 2, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, f.ledger.avail)
	assert.Empty(t, f.bookings.byID)
	assert.Empty(t, f.publisher.confirmed)
}

func TestCreate_UnknownRoom(t *testing.T) {
	f := newBookingFixture(t, 5)

	_, err := f.svc.Create(context.Background(), f.userID, uuid.New(), utcDate(2025, 6, 9), utcDate(2025, 6, 12), 2, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_UnavailableDate(t *testing.T) {
	f := newBookingFixture(t, 5)
	f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 10))] = 0

	_, err := f.svc.Create(context.Background(), f.userID, f.room.ID, utcDate(2025, 6, 9), utcDate(2025, 6, 12), 2, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Empty(t, f.bookings.byID)
}

func TestCreate_CapacityRaceCompensates(t *testing.T) {
	f := newBookingFixture(t, 5)
	// One room left: the range check passes but the two-room hold overflows,
	// so the saga compensates the already-saved booking to cancelled.
	d := utcDate(2025, 6, 9)
	f.ledger.avail[recKey(f.room.ID, d)] = 1

	_, err := f.svc.Create(context.Background(), f.userID, f.room.ID, d, utcDate(2025, 6, 10), 2, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	require.Len(t, f.bookings.byID, 1)
	for _, b := range f.bookings.byID {
		assert.Equal(t, bookingDomain.StatusCancelled, b.Status())
	}
	assert.Equal(t, 1, f.ledger.avail[recKey(f.room.ID, d)], "failed hold must not leak")
	assert.Empty(t, f.publisher.confirmed)
}

func TestCancel_ReleasesExactlyHeldInventory(t *testing.T) {
	f := newBookingFixture(t, 5)
	dto := f.create(t, utcDate(2025, 6, 9), utcDate(2025, 6, 12), 2, 2)

	cancelled, err := f.svc.Cancel(context.Background(), f.userID, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StatusCancelled), cancelled.Status)

	for _, d := range []int{9, 10, 11} {
		assert.Equal(t, 5, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, d))], "day %d", d)
	}
	require.Len(t, f.publisher.cancelled, 1)
	assert.Equal(t, dto.ID, f.publisher.cancelled[0].BookingID)
}

func TestCancel_Twice(t *testing.T) {
	f := newBookingFixture(t, 5)
	dto := f.create(t, utcDate(2025, 6, 9), utcDate(2025, 6, 12), 2, 1)

	_, err := f.svc.Cancel(context.Background(), f.userID, dto.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), f.userID, dto.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// Inventory was released once, not twice.
	assert.Equal(t, 5, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 9))])
	assert.Len(t, f.publisher.cancelled, 1)
}

func TestCancel_UnknownBooking(t *testing.T) {
	f := newBookingFixture(t, 5)

	_, err := f.svc.Cancel(context.Background(), f.userID, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_TransfersHold(t *testing.T) {
	f := newBookingFixture(t, 5)
	dto := f.create(t, utcDate(2025, 6, 9), utcDate(2025, 6, 11), 2, 2)

	updated, err := f.svc.Update(context.Background(), f.userID, dto.ID, utcDate(2025, 6, 15), utcDate(2025, 6, 17), 3, 1)
	require.NoError(t, err)

	assert.Equal(t, utcDate(2025, 6, 15), updated.CheckIn)
	assert.Equal(t, 1, updated.RoomsBooked)
	assert.InDelta(t, 200.00, updated.FinalPrice, 1e-9)

	// Old nights restored, new nights held.
	assert.Equal(t, 5, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 9))])
	assert.Equal(t, 5, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 10))])
	assert.Equal(t, 4, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 15))])
	assert.Equal(t, 4, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 16))])

	require.Len(t, f.publisher.updated, 1)
	assert.Equal(t, dto.ID, f.publisher.updated[0].BookingID)
}

func TestUpdate_NotBlockedByOwnHold(t *testing.T) {
	// With a single room, moving the stay to an overlapping range only works
	// because the old hold is released in the same ledger transaction.
	f := newBookingFixture(t, 1)
	dto := f.create(t, utcDate(2025, 6, 9), utcDate(2025, 6, 11), 2, 1)

	_, err := f.svc.Update(context.Background(), f.userID, dto.ID, utcDate(2025, 6, 10), utcDate(2025, 6, 12), 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 9))])
	assert.Equal(t, 0, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 10))])
	assert.Equal(t, 0, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 11))])
}

func TestUpdate_CancelledBookingRejected(t *testing.T) {
	f := newBookingFixture(t, 5)
	dto := f.create(t, utcDate(2025, 6, 9), utcDate(2025, 6, 11), 2, 1)
	_, err := f.svc.Cancel(context.Background(), f.userID, dto.ID)
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), f.userID, dto.ID, utcDate(2025, 6, 15), utcDate(2025, 6, 17), 2, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Empty(t, f.publisher.updated)
}

func TestUpdate_NewRangeFullRollsBack(t *testing.T) {
	f := newBookingFixture(t, 5)
	dto := f.create(t, utcDate(2025, 6, 9), utcDate(2025, 6, 11), 2, 2)

	// Target range has no capacity at all.
	f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 15))] = 0

	_, err := f.svc.Update(context.Background(), f.userID, dto.ID, utcDate(2025, 6, 15), utcDate(2025, 6, 17), 2, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	// The original hold survives intact.
	assert.Equal(t, 3, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 9))])
	assert.Equal(t, 3, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 10))])
	assert.Equal(t, 0, f.ledger.avail[recKey(f.room.ID, utcDate(2025, 6, 15))])
}

func TestGetStats(t *testing.T) {
	f := newBookingFixture(t, 5)
	first := f.create(t, utcDate(2025, 6, 9), utcDate(2025, 6, 11), 2, 1)
	f.create(t, utcDate(2025, 6, 12), utcDate(2025, 6, 14), 2, 1)
	_, err := f.svc.Cancel(context.Background(), f.userID, first.ID)
	require.NoError(t, err)

	stats, err := f.svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalBookings)
	assert.EqualValues(t, 1, stats.ByStatus[string(bookingDomain.StatusConfirmed)])
	assert.EqualValues(t, 1, stats.ByStatus[string(bookingDomain.StatusCancelled)])
}

func TestListAll_Pagination(t *testing.T) {
	f := newBookingFixture(t, 50)
	for i := 0; i < 3; i++ {
		f.create(t, utcDate(2025, 6, 9), utcDate(2025, 6, 11), 2, 1)
	}

	dtos, total, err := f.svc.ListAll(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, dtos, 2)

	dtos, total, err = f.svc.ListAll(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, dtos, 1)
}

func TestListByHotel(t *testing.T) {
	f := newBookingFixture(t, 5)
	f.create(t, utcDate(2025, 6, 9), utcDate(2025, 6, 11), 2, 1)

	dtos, total, err := f.svc.ListByHotel(context.Background(), f.hotelID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, dtos, 1)
	assert.Equal(t, f.hotelID, dtos[0].HotelID)

	dtos, total, err = f.svc.ListByHotel(context.Background(), uuid.New(), 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, dtos)
}
