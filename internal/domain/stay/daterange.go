package stay

import (
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
)

// DateRange is a half-open stay range: CheckIn inclusive, CheckOut exclusive,
// matching standard night counting. Both bounds are normalized to midnight UTC.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewDateRange builds a validated half-open range. CheckOut must be strictly
// after CheckIn.
func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	r := DateRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if !r.CheckOut.After(r.CheckIn) {
		return DateRange{}, domain.NewInvalidInputError("check_out must be after check_in")
	}
	return r, nil
}

// Day truncates a timestamp to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of nights in the range.
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn) / (24 * time.Hour))
}

// Dates returns every date in [CheckIn, CheckOut).
func (r DateRange) Dates() []time.Time {
	dates := make([]time.Time, 0, r.Nights())
	for d := r.CheckIn; d.Before(r.CheckOut); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Contains reports whether date falls inside the half-open range.
func (r DateRange) Contains(date time.Time) bool {
	d := Day(date)
	return !d.Before(r.CheckIn) && d.Before(r.CheckOut)
}

// DaysBetween returns the whole days from a to b (negative when b precedes a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / (24 * time.Hour))
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DatesInclusive returns every date in the closed range [from, to]. Used by
// block/unblock and pricing simulation, which operate on inclusive sequences.
func DatesInclusive(from, to time.Time) []time.Time {
	start, end := Day(from), Day(to)
	if end.Before(start) {
		return nil
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
