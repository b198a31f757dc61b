package services

import (
	"errors"
	"time"

	"flynext-server/models"
)

const DateLayout = "2006-01-02"

// DateRange is half-open: [Start, End). The checkout day itself is never
// occupied.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two "2006-01-02" dates and enforces start < end.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, errors.New("invalid check-in date, expected YYYY-MM-DD")
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, errors.New("invalid check-out date, expected YYYY-MM-DD")
	}
	if !s.Before(e) {
		return DateRange{}, errors.New("check-in date must be before check-out date")
	}
	return DateRange{Start: s, End: e}, nil
}

// Nights returns every occupied night in the range, in order.
func (r DateRange) Nights() []time.Time {
	var nights []time.Time
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}

// covers reports whether the half-open interval [checkIn, checkOut) contains d.
func covers(checkIn, checkOut, d time.Time) bool {
	return !d.Before(checkIn) && d.Before(checkOut)
}

// RemainingCapacity computes, for each night in rng, how many units of the
// room are still free given the supplied bookings. Cancelled bookings never
// occupy capacity. The function is pure: the write paths call it again on
// rows loaded under a row lock so the decision is never made on a stale read.
func RemainingCapacity(room models.Room, bookings []models.HotelBooking, rng DateRange) map[string]int {
	remaining := make(map[string]int)
	for _, night := range rng.Nights() {
		count := 0
		for _, b := range bookings {
			if b.RoomID != room.ID || b.Status == models.BookingStatusCancelled {
				continue
			}
			if covers(b.CheckInDate, b.CheckOutDate, night) {
				count++
			}
		}
		remaining[night.Format(DateLayout)] = room.AvailableCount - count
	}
	return remaining
}

// UnavailableDates returns the nights in rng, in order, that cannot take one
// more booking for the given guest count. A room that cannot hold the guest
// count is unavailable on every night of the range.
func UnavailableDates(room models.Room, bookings []models.HotelBooking, rng DateRange, guests int) []string {
	dates := []string{}
	if guests > room.MaxGuests {
		for _, night := range rng.Nights() {
			dates = append(dates, night.Format(DateLayout))
		}
		return dates
	}

	remaining := RemainingCapacity(room, bookings, rng)
	for _, night := range rng.Nights() {
		if remaining[night.Format(DateLayout)] <= 0 {
			dates = append(dates, night.Format(DateLayout))
		}
	}
	return dates
}
