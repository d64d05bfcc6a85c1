package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/availability"
	bookingDomain "github.com/RoamStay-Hotels/service-booking/internal/domain/booking"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/pricing"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/room"
	"github.com/RoamStay-Hotels/service-booking/internal/domain/stay"
	"github.com/RoamStay-Hotels/service-booking/internal/events"
	"github.com/google/uuid"
)

func recKey(roomID uuid.UUID, date time.Time) string {
	return roomID.String() + "|" + stay.Day(date).Format("2006-01-02")
}

// fakeLedger mirrors the transactional ledger semantics in memory: sparse
// rows seeded from totalRooms, all-or-nothing batches, releases clamped.
type fakeLedger struct {
	avail map[string]int
	held  map[string]int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{avail: make(map[string]int), held: make(map[string]int)}
}

func (f *fakeLedger) FindByRoomAndDates(_ context.Context, roomID uuid.UUID, dates []time.Time) ([]availability.Record, error) {
	var records []availability.Record
	for _, d := range dates {
		if avail, ok := f.avail[recKey(roomID, d)]; ok {
			records = append(records, availability.Record{RoomID: roomID, Date: stay.Day(d), Available: avail})
		}
	}
	return records, nil
}

func (f *fakeLedger) FindByRoomsAndDates(ctx context.Context, roomIDs []uuid.UUID, dates []time.Time) ([]availability.Record, error) {
	var records []availability.Record
	for _, id := range roomIDs {
		recs, _ := f.FindByRoomAndDates(ctx, id, dates)
		records = append(records, recs...)
	}
	return records, nil
}

func (f *fakeLedger) ApplyDelta(_ context.Context, roomID uuid.UUID, totalRooms int, dates []time.Time, delta int) error {
	staged := make(map[string]int, len(dates))
	for _, d := range dates {
		k := recKey(roomID, d)
		cur, ok := f.avail[k]
		if !ok {
			cur = totalRooms
		}
		next := cur - delta
		if next < 0 {
			return domain.NewCapacityExceededError(fmt.Sprintf("no capacity left on %s", stay.Day(d).Format("2006-01-02")))
		}
		if next > totalRooms {
			next = totalRooms
		}
		staged[k] = next
	}
	for k, v := range staged {
		f.avail[k] = v
	}
	for _, d := range dates {
		k := recKey(roomID, d)
		f.held[k] += delta
		if f.held[k] < 0 {
			f.held[k] = 0
		}
	}
	return nil
}

func (f *fakeLedger) TransferHold(ctx context.Context, roomID uuid.UUID, totalRooms int, oldDates []time.Time, oldRooms int, newDates []time.Time, newRooms int) error {
	availSnap := snapshot(f.avail)
	heldSnap := snapshot(f.held)
	if err := f.ApplyDelta(ctx, roomID, totalRooms, oldDates, -oldRooms); err != nil {
		f.avail, f.held = availSnap, heldSnap
		return err
	}
	if err := f.ApplyDelta(ctx, roomID, totalRooms, newDates, newRooms); err != nil {
		f.avail, f.held = availSnap, heldSnap
		return err
	}
	return nil
}

func (f *fakeLedger) BlockDates(_ context.Context, roomID uuid.UUID, dates []time.Time) error {
	for _, d := range dates {
		f.avail[recKey(roomID, d)] = 0
	}
	return nil
}

func (f *fakeLedger) RecomputeDates(_ context.Context, roomID uuid.UUID, totalRooms int, dates []time.Time) error {
	for _, d := range dates {
		k := recKey(roomID, d)
		next := totalRooms - f.held[k]
		if next < 0 {
			next = 0
		}
		f.avail[k] = next
	}
	return nil
}

func (f *fakeLedger) PurgeRoom(_ context.Context, roomID uuid.UUID) (int64, error) {
	var deleted int64
	prefix := roomID.String() + "|"
	for k := range f.avail {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(f.avail, k)
			deleted++
		}
	}
	return deleted, nil
}

func snapshot(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type fakeCatalog struct {
	rooms []*room.Room
}

func (f *fakeCatalog) FindByID(_ context.Context, id uuid.UUID) (*room.Room, error) {
	for _, rm := range f.rooms {
		if rm.ID == id {
			return rm, nil
		}
	}
	return nil, domain.NewNotFoundError("room", id.String())
}

func (f *fakeCatalog) FindByHotel(_ context.Context, hotelID uuid.UUID) ([]*room.Room, error) {
	var out []*room.Room
	for _, rm := range f.rooms {
		if rm.HotelID == hotelID {
			out = append(out, rm)
		}
	}
	return out, nil
}

type fakeRuleRepo struct {
	rules []*pricing.Rule
}

func (f *fakeRuleRepo) FindByHotel(_ context.Context, hotelID uuid.UUID) ([]*pricing.Rule, error) {
	var out []*pricing.Rule
	for _, r := range f.rules {
		if r.HotelID() == hotelID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) FindByHotelAndRange(_ context.Context, hotelID uuid.UUID, from, to time.Time) ([]*pricing.Rule, error) {
	fromDay, toDay := stay.Day(from), stay.Day(to)
	var out []*pricing.Rule
	for _, r := range f.rules {
		if r.HotelID() != hotelID {
			continue
		}
		if r.Type().DateAgnostic() {
			out = append(out, r)
			continue
		}
		if !stay.Day(*r.StartDate()).After(toDay) && !stay.Day(*r.EndDate()).Before(fromDay) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	byID      map[uuid.UUID]*bookingDomain.Booking
	updateErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return b, nil
}

func (f *fakeBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	f.byID[b.ID()] = b
	return nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.byID[b.ID()] = b
	return nil
}

func (f *fakeBookingRepo) all() []*bookingDomain.Booking {
	out := make([]*bookingDomain.Booking, 0, len(f.byID))
	for _, b := range f.byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out
}

func (f *fakeBookingRepo) ListByHotel(_ context.Context, hotelID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var filtered []*bookingDomain.Booking
	for _, b := range f.all() {
		if b.HotelID() == hotelID {
			filtered = append(filtered, b)
		}
	}
	return paginate(filtered, page, limit), int64(len(filtered)), nil
}

func (f *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	all := f.all()
	return paginate(all, page, limit), int64(len(all)), nil
}

func (f *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, b := range f.byID {
		counts[string(b.Status())]++
	}
	return counts, nil
}

func paginate(bookings []*bookingDomain.Booking, page, limit int) []*bookingDomain.Booking {
	start := (page - 1) * limit
	if start >= len(bookings) {
		return nil
	}
	end := start + limit
	if end > len(bookings) {
		end = len(bookings)
	}
	return bookings[start:end]
}

type fakePublisher struct {
	confirmed []events.BookingConfirmedEvent
	updated   []events.BookingUpdatedEvent
	cancelled []events.BookingCancelledEvent
}

func (f *fakePublisher) PublishConfirmed(_ context.Context, e events.BookingConfirmedEvent) {
	f.confirmed = append(f.confirmed, e)
}

func (f *fakePublisher) PublishUpdated(_ context.Context, e events.BookingUpdatedEvent) {
	f.updated = append(f.updated, e)
}

func (f *fakePublisher) PublishCancelled(_ context.Context, e events.BookingCancelledEvent) {
	f.cancelled = append(f.cancelled, e)
}
