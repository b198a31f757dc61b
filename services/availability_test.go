package services

import (
	"testing"
	"time"

	"flynext-server/models"

	"gorm.io/gorm"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRoom(id uint, availableCount, maxGuests int) models.Room {
	return models.Room{
		Model:          gorm.Model{ID: id},
		AvailableCount: availableCount,
		MaxGuests:      maxGuests,
	}
}

func testHotelBooking(id, roomID uint, checkIn, checkOut time.Time, status string, createdAt time.Time) models.HotelBooking {
	return models.HotelBooking{
		Model:        gorm.Model{ID: id, CreatedAt: createdAt},
		RoomID:       roomID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Status:       status,
	}
}

func TestParseDateRangeRejectsBadInput(t *testing.T) {
	if _, err := ParseDateRange("2024-01-10", "2024-01-12"); err != nil {
		t.Fatalf("expected valid range, got %v", err)
	}
	if _, err := ParseDateRange("not-a-date", "2024-01-12"); err == nil {
		t.Fatal("expected error for malformed check-in date")
	}
	if _, err := ParseDateRange("2024-01-12", "2024-01-10"); err == nil {
		t.Fatal("expected error when check-in is after check-out")
	}
	if _, err := ParseDateRange("2024-01-10", "2024-01-10"); err == nil {
		t.Fatal("expected error for zero-night range")
	}
}

// A booking for [01-10, 01-12) occupies the 10th and 11th but not the 12th.
func TestRemainingCapacityHalfOpenInterval(t *testing.T) {
	room := testRoom(1, 1, 2)
	bookings := []models.HotelBooking{
		testHotelBooking(1, 1, date(2024, 1, 10), date(2024, 1, 12), models.BookingStatusConfirmed, date(2024, 1, 1)),
	}

	rng := DateRange{Start: date(2024, 1, 10), End: date(2024, 1, 13)}
	remaining := RemainingCapacity(room, bookings, rng)

	if remaining["2024-01-10"] != 0 {
		t.Errorf("expected 0 remaining on check-in day, got %d", remaining["2024-01-10"])
	}
	if remaining["2024-01-11"] != 0 {
		t.Errorf("expected 0 remaining on middle night, got %d", remaining["2024-01-11"])
	}
	if remaining["2024-01-12"] != 1 {
		t.Errorf("expected 1 remaining on checkout day, got %d", remaining["2024-01-12"])
	}
}

func TestRemainingCapacityIgnoresCancelledAndOtherRooms(t *testing.T) {
	room := testRoom(1, 2, 2)
	bookings := []models.HotelBooking{
		testHotelBooking(1, 1, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusCancelled, date(2024, 5, 1)),
		testHotelBooking(2, 2, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusConfirmed, date(2024, 5, 1)),
		testHotelBooking(3, 1, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusConfirmed, date(2024, 5, 2)),
	}

	rng := DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 3)}
	remaining := RemainingCapacity(room, bookings, rng)

	if remaining["2024-06-01"] != 1 {
		t.Errorf("expected 1 remaining, got %d", remaining["2024-06-01"])
	}
	if remaining["2024-06-02"] != 1 {
		t.Errorf("expected 1 remaining, got %d", remaining["2024-06-02"])
	}
}

// Overlapping request only conflicts on the truly shared nights: an existing
// booking for [06-01, 06-03) blocks a request for [06-02, 06-04) on 06-02
// alone.
func TestUnavailableDatesReportsOnlyOverlap(t *testing.T) {
	room := testRoom(1, 1, 2)
	bookings := []models.HotelBooking{
		testHotelBooking(1, 1, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusConfirmed, date(2024, 5, 1)),
	}

	rng := DateRange{Start: date(2024, 6, 2), End: date(2024, 6, 4)}
	unavailable := UnavailableDates(room, bookings, rng, 1)

	if len(unavailable) != 1 || unavailable[0] != "2024-06-02" {
		t.Fatalf("expected [2024-06-02], got %v", unavailable)
	}
}

func TestUnavailableDatesGuestCountExceedsRoomMax(t *testing.T) {
	room := testRoom(1, 5, 2)

	rng := DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 3)}
	unavailable := UnavailableDates(room, nil, rng, 3)

	if len(unavailable) != 2 {
		t.Fatalf("expected every night unavailable for too many guests, got %v", unavailable)
	}
}

func TestUnavailableDatesEmptyWhenCapacityLeft(t *testing.T) {
	room := testRoom(1, 2, 4)
	bookings := []models.HotelBooking{
		testHotelBooking(1, 1, date(2024, 6, 1), date(2024, 6, 5), models.BookingStatusConfirmed, date(2024, 5, 1)),
	}

	rng := DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)}
	if unavailable := UnavailableDates(room, bookings, rng, 2); len(unavailable) != 0 {
		t.Fatalf("expected no unavailable dates, got %v", unavailable)
	}
}
