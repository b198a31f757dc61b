package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Room is a bookable room type, not a physical unit. AvailableCount is the
// total number of interchangeable units of this type; per-date remaining
// capacity is always derived from bookings, never stored.
type Room struct {
	gorm.Model
	HotelID        uint           `json:"hotelID" gorm:"not null;index"`
	Type           string         `json:"type"`
	Description    string         `json:"description" gorm:"type:text"`
	Price          float64        `json:"price" gorm:"not null"`
	Currency       string         `json:"currency" gorm:"type:varchar(3);default:'CAD'"`
	AvailableCount int            `json:"availableCount" gorm:"not null;default:0"`
	MaxGuests      int            `json:"maxGuests" gorm:"default:2"`
	Images         datatypes.JSON `json:"images"`
	Hotel          Hotel          `json:"hotel" gorm:"foreignKey:HotelID"`
}
