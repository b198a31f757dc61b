package services

import (
	"errors"
	"fmt"
	"time"

	"flynext-server/models"
	"flynext-server/storage"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReconcileResult describes what a capacity reduction did. AffectedUserIDs
// is deduplicated so callers can notify each cancelled guest once.
type ReconcileResult struct {
	Room                     models.Room
	CancelledHotelBookingIDs []uint
	CancelledBookingIDs      []uint
	AffectedUserIDs          []uint
	Message                  string
}

// sortMostRecentFirst orders bookings newest-created first. The tie-break is
// deliberate: when capacity shrinks, early bookers keep their rooms.
func sortMostRecentFirst(bookings []models.HotelBooking) {
	slices.SortFunc(bookings, func(a, b models.HotelBooking) int {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		if b.CreatedAt.After(a.CreatedAt) {
			return 1
		}
		return int(b.ID) - int(a.ID)
	})
}

// SelectCancellations picks which of the room's active bookings must be
// cancelled so newCount is feasible. With no range the comparison is global:
// keep the newCount oldest bookings. With a range, nights inside the range
// are brought back under newCount one booking at a time, always taking the
// currently most over-capacity night and cancelling the newest booking that
// covers it; a booking already selected resolves every other night it covers,
// so nothing is double-counted. newCount == 0 cancels everything.
func SelectCancellations(active []models.HotelBooking, newCount int, rng *DateRange) []models.HotelBooking {
	if newCount <= 0 {
		selected := make([]models.HotelBooking, len(active))
		copy(selected, active)
		return selected
	}

	if rng == nil {
		if len(active) <= newCount {
			return nil
		}
		ordered := make([]models.HotelBooking, len(active))
		copy(ordered, active)
		sortMostRecentFirst(ordered)
		return ordered[:len(active)-newCount]
	}

	selected := []models.HotelBooking{}
	cancelled := make(map[uint]bool)
	for {
		// Find the night with the largest remaining excess.
		var worstNight time.Time
		worstExcess := 0
		for _, night := range rng.Nights() {
			count := 0
			for _, b := range active {
				if !cancelled[b.ID] && covers(b.CheckInDate, b.CheckOutDate, night) {
					count++
				}
			}
			if excess := count - newCount; excess > worstExcess {
				worstExcess = excess
				worstNight = night
			}
		}
		if worstExcess == 0 {
			return selected
		}

		// Cancel the newest booking covering that night.
		var candidates []models.HotelBooking
		for _, b := range active {
			if !cancelled[b.ID] && covers(b.CheckInDate, b.CheckOutDate, worstNight) {
				candidates = append(candidates, b)
			}
		}
		sortMostRecentFirst(candidates)
		pick := candidates[0]
		cancelled[pick.ID] = true
		selected = append(selected, pick)
	}
}

// ReconcileRoomCapacity applies an owner's capacity reduction as one atomic
// unit: lock the room row, lock its active bookings, decide which bookings to
// cancel, cascade the cancellation to the parent Booking aggregates (and
// their flight components), and write the new count. No network I/O happens
// while the lock is held; callers notify affected users after commit.
func ReconcileRoomCapacity(roomID uint, newCount int, rng *DateRange) (*ReconcileResult, error) {
	result := &ReconcileResult{}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var active []models.HotelBooking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ? AND status <> ?", roomID, models.BookingStatusCancelled).
			Find(&active).Error; err != nil {
			return err
		}

		toCancel := SelectCancellations(active, newCount, rng)

		seenBooking := make(map[uint]bool)
		seenUser := make(map[uint]bool)
		for _, hb := range toCancel {
			if err := tx.Model(&models.HotelBooking{}).
				Where("id = ?", hb.ID).
				Update("status", models.BookingStatusCancelled).Error; err != nil {
				return err
			}
			result.CancelledHotelBookingIDs = append(result.CancelledHotelBookingIDs, hb.ID)

			if seenBooking[hb.BookingID] {
				continue
			}
			seenBooking[hb.BookingID] = true

			// Cancelling a room cancels the whole order: the parent
			// aggregate and every remaining component go with it.
			var parent models.Booking
			if err := tx.First(&parent, hb.BookingID).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Booking{}).
				Where("id = ?", hb.BookingID).
				Update("status", models.BookingStatusCancelled).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.FlightBooking{}).
				Where("booking_id = ? AND status <> ?", hb.BookingID, models.BookingStatusCancelled).
				Update("status", models.BookingStatusCancelled).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.HotelBooking{}).
				Where("booking_id = ? AND status <> ?", hb.BookingID, models.BookingStatusCancelled).
				Update("status", models.BookingStatusCancelled).Error; err != nil {
				return err
			}

			result.CancelledBookingIDs = append(result.CancelledBookingIDs, hb.BookingID)
			if !seenUser[parent.UserID] {
				seenUser[parent.UserID] = true
				result.AffectedUserIDs = append(result.AffectedUserIDs, parent.UserID)
			}
		}

		room.AvailableCount = newCount
		if err := tx.Model(&models.Room{}).
			Where("id = ?", roomID).
			Update("available_count", newCount).Error; err != nil {
			return err
		}

		result.Room = room
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Message = fmt.Sprintf("Cancelled %d booking(s) to honor the new capacity", len(result.CancelledBookingIDs))
	return result, nil
}
