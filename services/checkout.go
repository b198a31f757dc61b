package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"flynext-server/models"
	"flynext-server/storage"
	"flynext-server/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentInput struct {
	CardNumber     string `json:"cardNumber" validate:"required"`
	CardholderName string `json:"cardholderName" validate:"required"`
	ExpiryMonth    int    `json:"expiryMonth" validate:"required,min=1,max=12"`
	ExpiryYear     int    `json:"expiryYear" validate:"required,min=2000"`
}

type SettleResult struct {
	Booking models.Booking
	Payment models.Payment
}

// luhnValid implements the Luhn checksum over a digits-only string.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// DetectCardType recognizes the major brands by prefix; anything else is
// rejected at validation.
func DetectCardType(digits string) string {
	switch {
	case strings.HasPrefix(digits, "4"):
		return "visa"
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return "mastercard"
	case strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37"):
		return "amex"
	case strings.HasPrefix(digits, "6011") || strings.HasPrefix(digits, "65"):
		return "discover"
	default:
		return ""
	}
}

// ValidateCard runs the stand-in card checks: digits only, Luhn, known brand,
// expiry not in the past. Nothing is persisted before this passes.
func ValidateCard(input PaymentInput, now time.Time) (cardType string, last4 string, err error) {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(input.CardNumber)
	if digits == "" {
		return "", "", &CardValidationError{Reason: "card number is required"}
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", "", &CardValidationError{Reason: "card number must contain only digits"}
		}
	}
	if len(digits) < 13 || len(digits) > 19 {
		return "", "", &CardValidationError{Reason: "card number length is invalid"}
	}
	if !luhnValid(digits) {
		return "", "", &CardValidationError{Reason: "card number failed validation"}
	}
	cardType = DetectCardType(digits)
	if cardType == "" {
		return "", "", &CardValidationError{Reason: "unsupported card type"}
	}
	endOfExpiry := time.Date(input.ExpiryYear, time.Month(input.ExpiryMonth), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	if !now.Before(endOfExpiry) {
		return "", "", &CardValidationError{Reason: "card is expired"}
	}
	return cardType, digits[len(digits)-4:], nil
}

// Settle validates payment input, then atomically flips the booking and its
// live components to confirmed and creates or updates the one Payment row for
// the booking. Checkout success is defined by that transaction alone; the
// side effects afterwards (detail attachment, invoice, notifications) are
// best-effort and never fail the checkout.
func Settle(bookingID, callerID uint, callerRole string, input PaymentInput, passengerDetails, guestDetails datatypes.JSON) (*SettleResult, error) {
	cardType, last4, err := ValidateCard(input, time.Now())
	if err != nil {
		return nil, err
	}

	result := &SettleResult{}

	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if booking.UserID != callerID && callerRole != "admin" {
			return ErrForbidden
		}
		if booking.Status == models.BookingStatusCancelled {
			return ErrBookingCancelled
		}

		// One Payment per booking: a second checkout replaces the card
		// details, it never creates a second row.
		var payment models.Payment
		paymentQuery := tx.Where("booking_id = ?", booking.ID).Limit(1).Find(&payment)
		if paymentQuery.Error != nil {
			return paymentQuery.Error
		}
		payment.BookingID = booking.ID
		payment.CardLast4 = last4
		payment.CardType = cardType
		payment.CardholderName = input.CardholderName
		payment.PaymentStatus = "completed"
		if paymentQuery.RowsAffected == 0 {
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Save(&payment).Error; err != nil {
				return err
			}
		}

		if booking.BookingReference == "" {
			booking.BookingReference = utils.GenerateBookingReference()
		}
		booking.Status = models.BookingStatusConfirmed
		if err := tx.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Updates(map[string]interface{}{
				"status":            booking.Status,
				"booking_reference": booking.BookingReference,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.FlightBooking{}).
			Where("booking_id = ? AND status <> ?", booking.ID, models.BookingStatusCancelled).
			Update("status", models.BookingStatusConfirmed).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.HotelBooking{}).
			Where("booking_id = ? AND status <> ?", booking.ID, models.BookingStatusCancelled).
			Update("status", models.BookingStatusConfirmed).Error; err != nil {
			return err
		}

		result.Booking = booking
		result.Payment = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	runCheckoutSideEffects(result.Booking.ID, passengerDetails, guestDetails)

	booking, err := GetBooking(result.Booking.ID)
	if err != nil {
		return nil, err
	}
	result.Booking = *booking
	return result, nil
}

// runCheckoutSideEffects performs the post-settlement work. Every step is
// wrapped so a failure is logged and swallowed.
func runCheckoutSideEffects(bookingID uint, passengerDetails, guestDetails datatypes.JSON) {
	if passengerDetails != nil {
		if err := storage.DB.Model(&models.FlightBooking{}).
			Where("booking_id = ? AND status = ?", bookingID, models.BookingStatusConfirmed).
			Update("passenger_details", passengerDetails).Error; err != nil {
			log.Printf("checkout side effect: failed to attach passenger details for booking %d: %v", bookingID, err)
		}
	}
	if guestDetails != nil {
		if err := storage.DB.Model(&models.HotelBooking{}).
			Where("booking_id = ? AND status = ?", bookingID, models.BookingStatusConfirmed).
			Update("guest_details", guestDetails).Error; err != nil {
			log.Printf("checkout side effect: failed to attach guest details for booking %d: %v", bookingID, err)
		}
	}

	booking, err := GetBooking(bookingID)
	if err != nil {
		log.Printf("checkout side effect: failed to reload booking %d: %v", bookingID, err)
		return
	}

	go func() {
		if _, err := IssueInvoice(*booking); err != nil {
			log.Printf("checkout side effect: failed to issue invoice for booking %d: %v", booking.ID, err)
		}
	}()

	notificationService := NewNotificationService()
	go notificationService.SendBookingConfirmedNotification(*booking)
	go notificationService.SendHotelBookingNotificationsToOwners(*booking)
}

// BuildInvoiceSummary renders the line items the invoice artifact records.
func BuildInvoiceSummary(booking models.Booking) string {
	var lines []string
	for _, f := range booking.Flights {
		if f.Status == models.BookingStatusCancelled {
			continue
		}
		lines = append(lines, fmt.Sprintf("Flight %s %s->%s %.2f %s", f.FlightNumber, f.Origin, f.Destination, f.Price, f.Currency))
	}
	for _, hb := range booking.HotelBookings {
		if hb.Status == models.BookingStatusCancelled {
			continue
		}
		lines = append(lines, fmt.Sprintf("Room #%d %s to %s %.2f %s", hb.RoomID, hb.CheckInDate.Format(DateLayout), hb.CheckOutDate.Format(DateLayout), hb.Price, hb.Currency))
	}
	lines = append(lines, fmt.Sprintf("Total %.2f %s", booking.TotalPrice, booking.Currency))
	return strings.Join(lines, "\n")
}
