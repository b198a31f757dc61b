package services

import (
	"errors"
	"time"

	"flynext-server/models"
	"flynext-server/storage"
	"flynext-server/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlightComponentInput struct {
	FlightID          string
	FlightNumber      string
	Airline           string
	Origin            string
	Destination       string
	DepartureTime     time.Time
	ArrivalTime       time.Time
	Price             float64
	Currency          string
	ConnectionGroupID string
	SegmentIndex      int
	TotalSegments     int
	PassengerDetails  datatypes.JSON
}

type HotelComponentInput struct {
	RoomID       uint
	Dates        DateRange
	GuestCount   int
	GuestDetails datatypes.JSON
}

// AddComponents merges new flight and/or hotel components into the user's
// pending booking (the cart), creating one with a fresh reference if none
// exists. Hotel availability is re-checked on locked rows inside the same
// transaction, so two overlapping requests cannot both squeeze into the last
// unit of a room.
func AddComponents(userID uint, flights []FlightComponentInput, hotel *HotelComponentInput) (*models.Booking, error) {
	var booking models.Booking

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		cartQuery := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, models.BookingStatusPending).
			Limit(1).
			Find(&booking)
		if cartQuery.Error != nil {
			return cartQuery.Error
		}
		if cartQuery.RowsAffected == 0 {
			booking = models.Booking{
				UserID:           userID,
				BookingReference: utils.GenerateBookingReference(),
				Status:           models.BookingStatusPending,
			}
			if err := tx.Create(&booking).Error; err != nil {
				return err
			}
		}

		if hotel != nil {
			var room models.Room
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, hotel.RoomID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}

			var active []models.HotelBooking
			if err := tx.Where("room_id = ? AND status <> ?", room.ID, models.BookingStatusCancelled).
				Find(&active).Error; err != nil {
				return err
			}

			if unavailable := UnavailableDates(room, active, hotel.Dates, hotel.GuestCount); len(unavailable) > 0 {
				return &DatesUnavailableError{Dates: unavailable}
			}

			nights := len(hotel.Dates.Nights())
			hotelBooking := models.HotelBooking{
				BookingID:    booking.ID,
				RoomID:       room.ID,
				CheckInDate:  hotel.Dates.Start,
				CheckOutDate: hotel.Dates.End,
				GuestCount:   hotel.GuestCount,
				Price:        float64(nights) * room.Price,
				Currency:     room.Currency,
				Status:       models.BookingStatusPending,
				GuestDetails: hotel.GuestDetails,
			}
			if err := tx.Create(&hotelBooking).Error; err != nil {
				return err
			}
		}

		for _, f := range flights {
			flightBooking := models.FlightBooking{
				BookingID:         booking.ID,
				FlightID:          f.FlightID,
				FlightNumber:      f.FlightNumber,
				Airline:           f.Airline,
				Origin:            f.Origin,
				Destination:       f.Destination,
				DepartureTime:     f.DepartureTime,
				ArrivalTime:       f.ArrivalTime,
				Price:             f.Price,
				Currency:          f.Currency,
				Status:            models.BookingStatusPending,
				ConnectionGroupID: f.ConnectionGroupID,
				SegmentIndex:      f.SegmentIndex,
				TotalSegments:     f.TotalSegments,
				PassengerDetails:  f.PassengerDetails,
			}
			if err := tx.Create(&flightBooking).Error; err != nil {
				return err
			}
		}

		return recomputeTotal(tx, booking.ID)
	})
	if err != nil {
		return nil, err
	}

	return GetBooking(booking.ID)
}

// GetBooking loads a booking with all its components.
func GetBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := storage.DB.
		Preload("Flights").
		Preload("HotelBookings").
		Preload("HotelBookings.Room").
		First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// recomputeTotal resets the aggregate total to the sum of all non-cancelled
// component prices. Called on every mutating operation; nothing enforces the
// invariant in between.
func recomputeTotal(tx *gorm.DB, bookingID uint) error {
	var flightSum, hotelSum float64
	if err := tx.Model(&models.FlightBooking{}).
		Where("booking_id = ? AND status <> ?", bookingID, models.BookingStatusCancelled).
		Select("COALESCE(SUM(price), 0)").
		Scan(&flightSum).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.HotelBooking{}).
		Where("booking_id = ? AND status <> ?", bookingID, models.BookingStatusCancelled).
		Select("COALESCE(SUM(price), 0)").
		Scan(&hotelSum).Error; err != nil {
		return err
	}

	return tx.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("total_price", flightSum+hotelSum).Error
}

// CancelComponent cancels a single flight or hotel component after verifying
// it belongs to the booking, then recomputes the total. The parent booking's
// own status is deliberately left untouched, even if this was its last live
// component; only owner-initiated reconciliation cancels whole aggregates.
func CancelComponent(bookingID uint, componentType string, componentID uint) error {
	return storage.DB.Transaction(func(tx *gorm.DB) error {
		switch componentType {
		case "flight":
			var flight models.FlightBooking
			if err := tx.Where("id = ? AND booking_id = ?", componentID, bookingID).
				First(&flight).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if err := tx.Model(&flight).
				Update("status", models.BookingStatusCancelled).Error; err != nil {
				return err
			}
		case "hotel":
			var hotelBooking models.HotelBooking
			if err := tx.Where("id = ? AND booking_id = ?", componentID, bookingID).
				First(&hotelBooking).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if err := tx.Model(&hotelBooking).
				Update("status", models.BookingStatusCancelled).Error; err != nil {
				return err
			}
		default:
			return errors.New("componentType must be flight or hotel")
		}

		return recomputeTotal(tx, bookingID)
	})
}

// CancelBooking cancels a booking and every one of its components in one
// operation. The row is retained as a record; the historical total stays.
func CancelBooking(bookingID uint) (*models.Booking, error) {
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&models.Booking{}).
			Where("id = ?", bookingID).
			Update("status", models.BookingStatusCancelled).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.FlightBooking{}).
			Where("booking_id = ?", bookingID).
			Update("status", models.BookingStatusCancelled).Error; err != nil {
			return err
		}
		return tx.Model(&models.HotelBooking{}).
			Where("booking_id = ?", bookingID).
			Update("status", models.BookingStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}

	return GetBooking(bookingID)
}
