package models

import "gorm.io/gorm"

// Payment is one-to-one with Booking; checkout creates it once and later
// checkouts update it in place.
type Payment struct {
	gorm.Model
	BookingID      uint   `json:"bookingID" gorm:"not null;uniqueIndex"`
	CardLast4      string `json:"cardLast4" gorm:"type:varchar(4)"`
	CardType       string `json:"cardType" gorm:"type:varchar(20)"`
	CardholderName string `json:"cardholderName"`
	PaymentStatus  string `json:"paymentStatus" gorm:"type:varchar(20);default:'completed'"`
}
