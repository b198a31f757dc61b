package models

import "gorm.io/gorm"

// Invoice is the artifact recorded for a settled booking. Rendering and
// delivery are best-effort; the row is the system of record.
type Invoice struct {
	gorm.Model
	BookingID     uint    `json:"bookingID" gorm:"not null;index"`
	InvoiceNumber string  `json:"invoiceNumber" gorm:"type:varchar(24);uniqueIndex"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency" gorm:"type:varchar(3)"`
	Status        string  `json:"status" gorm:"type:varchar(20);default:'issued'"` // issued, sent
}
