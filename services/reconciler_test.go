package services

import (
	"testing"

	"flynext-server/models"
)

func cancelledIDs(selected []models.HotelBooking) map[uint]bool {
	ids := make(map[uint]bool, len(selected))
	for _, b := range selected {
		ids[b.ID] = true
	}
	return ids
}

// Setting the count to zero cancels every active booking on the room.
func TestSelectCancellationsZeroCountCancelsEverything(t *testing.T) {
	active := []models.HotelBooking{
		testHotelBooking(1, 1, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusConfirmed, date(2024, 5, 1)),
		testHotelBooking(2, 1, date(2024, 7, 1), date(2024, 7, 5), models.BookingStatusConfirmed, date(2024, 5, 2)),
		testHotelBooking(3, 1, date(2024, 8, 1), date(2024, 8, 2), models.BookingStatusPending, date(2024, 5, 3)),
	}

	selected := SelectCancellations(active, 0, nil)
	if len(selected) != 3 {
		t.Fatalf("expected all 3 bookings cancelled, got %d", len(selected))
	}
}

// When capacity shrinks by one, the newest booking goes, never the oldest.
func TestSelectCancellationsMostRecentFirst(t *testing.T) {
	b1 := testHotelBooking(1, 1, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusConfirmed, date(2024, 5, 1))
	b2 := testHotelBooking(2, 1, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusConfirmed, date(2024, 5, 2))

	selected := SelectCancellations([]models.HotelBooking{b1, b2}, 1, nil)
	if len(selected) != 1 {
		t.Fatalf("expected exactly 1 cancellation, got %d", len(selected))
	}
	if selected[0].ID != b2.ID {
		t.Fatalf("expected newest booking %d cancelled, got %d", b2.ID, selected[0].ID)
	}
}

func TestSelectCancellationsCreationTimeTieBreaksOnID(t *testing.T) {
	sameTime := date(2024, 5, 1)
	b1 := testHotelBooking(1, 1, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusConfirmed, sameTime)
	b2 := testHotelBooking(2, 1, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusConfirmed, sameTime)

	selected := SelectCancellations([]models.HotelBooking{b1, b2}, 1, nil)
	if len(selected) != 1 || selected[0].ID != 2 {
		t.Fatalf("expected higher-ID booking cancelled on equal timestamps, got %v", selected)
	}
}

func TestSelectCancellationsNothingToDo(t *testing.T) {
	active := []models.HotelBooking{
		testHotelBooking(1, 1, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusConfirmed, date(2024, 5, 1)),
	}
	if selected := SelectCancellations(active, 2, nil); len(selected) != 0 {
		t.Fatalf("expected no cancellations, got %d", len(selected))
	}
}

// Date-range reduction: only nights inside the range count, the most
// over-capacity night is resolved first, and a booking selected for one
// night also resolves every other night it covers.
func TestSelectCancellationsDateRange(t *testing.T) {
	b1 := testHotelBooking(1, 1, date(2024, 6, 1), date(2024, 6, 3), models.BookingStatusConfirmed, date(2024, 5, 1))
	b2 := testHotelBooking(2, 1, date(2024, 6, 2), date(2024, 6, 4), models.BookingStatusConfirmed, date(2024, 5, 2))
	b3 := testHotelBooking(3, 1, date(2024, 6, 1), date(2024, 6, 2), models.BookingStatusConfirmed, date(2024, 5, 3))

	rng := &DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 4)}
	selected := SelectCancellations([]models.HotelBooking{b1, b2, b3}, 1, rng)

	ids := cancelledIDs(selected)
	if len(selected) != 2 || !ids[2] || !ids[3] {
		t.Fatalf("expected bookings 2 and 3 cancelled, got %v", selected)
	}
	if ids[1] {
		t.Fatal("oldest booking must survive the reduction")
	}
}

// A single booking spanning several over-capacity nights is cancelled once,
// not once per night.
func TestSelectCancellationsNoDoubleCounting(t *testing.T) {
	b1 := testHotelBooking(1, 1, date(2024, 6, 1), date(2024, 6, 5), models.BookingStatusConfirmed, date(2024, 5, 1))
	b2 := testHotelBooking(2, 1, date(2024, 6, 1), date(2024, 6, 5), models.BookingStatusConfirmed, date(2024, 5, 2))

	rng := &DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)}
	selected := SelectCancellations([]models.HotelBooking{b1, b2}, 1, rng)

	if len(selected) != 1 {
		t.Fatalf("expected exactly 1 cancellation across all nights, got %d", len(selected))
	}
	if selected[0].ID != 2 {
		t.Fatalf("expected newest booking cancelled, got %d", selected[0].ID)
	}
}

// After a reduction, every night in the range is back at or under the new
// count and nothing went negative.
func TestSelectCancellationsRestoresFeasibility(t *testing.T) {
	room := testRoom(1, 1, 4)
	active := []models.HotelBooking{
		testHotelBooking(1, 1, date(2024, 6, 1), date(2024, 6, 4), models.BookingStatusConfirmed, date(2024, 5, 1)),
		testHotelBooking(2, 1, date(2024, 6, 2), date(2024, 6, 5), models.BookingStatusConfirmed, date(2024, 5, 2)),
		testHotelBooking(3, 1, date(2024, 6, 3), date(2024, 6, 6), models.BookingStatusConfirmed, date(2024, 5, 3)),
	}

	rng := &DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 6)}
	selected := SelectCancellations(active, 1, rng)
	ids := cancelledIDs(selected)

	var survivors []models.HotelBooking
	for _, b := range active {
		if !ids[b.ID] {
			survivors = append(survivors, b)
		}
	}

	remaining := RemainingCapacity(room, survivors, *rng)
	for night, left := range remaining {
		if left < 0 {
			t.Errorf("night %s still over capacity after reconciliation", night)
		}
	}
	if len(survivors) == 0 {
		t.Fatal("expected at least one booking to survive")
	}
}

func TestSortMostRecentFirstOrdering(t *testing.T) {
	bookings := []models.HotelBooking{
		testHotelBooking(5, 1, date(2024, 6, 1), date(2024, 6, 2), models.BookingStatusConfirmed, date(2024, 5, 3)),
		testHotelBooking(9, 1, date(2024, 6, 1), date(2024, 6, 2), models.BookingStatusConfirmed, date(2024, 5, 1)),
		testHotelBooking(7, 1, date(2024, 6, 1), date(2024, 6, 2), models.BookingStatusConfirmed, date(2024, 5, 2)),
	}

	sortMostRecentFirst(bookings)

	want := []uint{5, 7, 9}
	for i, id := range want {
		if bookings[i].ID != id {
			t.Fatalf("position %d: expected booking %d, got %d", i, id, bookings[i].ID)
		}
	}
}
