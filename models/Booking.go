package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is the cart/order aggregate. While pending it acts as the user's
// cart; a partial unique index (one pending booking per user) is created in
// performMigrations.
type Booking struct {
	gorm.Model
	UserID           uint            `json:"userID" gorm:"not null;index"`
	BookingReference string          `json:"bookingReference" gorm:"type:varchar(12);index"`
	Status           string          `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, confirmed, cancelled
	TotalPrice       float64         `json:"totalPrice"`
	Currency         string          `json:"currency" gorm:"type:varchar(3);default:'CAD'"`
	Flights          []FlightBooking `json:"flights" gorm:"foreignKey:BookingID"`
	HotelBookings    []HotelBooking  `json:"hotelBookings" gorm:"foreignKey:BookingID"`
	User             *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// FlightBooking is one flight segment inside a booking. Connected flights
// share a ConnectionGroupID and carry their position via SegmentIndex /
// TotalSegments; passenger details live in their own JSON column.
type FlightBooking struct {
	gorm.Model
	BookingID         uint           `json:"bookingID" gorm:"not null;index"`
	FlightID          string         `json:"flightID" gorm:"type:varchar(64)"`
	FlightNumber      string         `json:"flightNumber"`
	Airline           string         `json:"airline"`
	Origin            string         `json:"origin" gorm:"type:varchar(8)"`
	Destination       string         `json:"destination" gorm:"type:varchar(8)"`
	DepartureTime     time.Time      `json:"departureTime"`
	ArrivalTime       time.Time      `json:"arrivalTime"`
	Price             float64        `json:"price"`
	Currency          string         `json:"currency" gorm:"type:varchar(3);default:'CAD'"`
	Status            string         `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ConnectionGroupID string         `json:"connectionGroupID,omitempty" gorm:"type:varchar(64)"`
	SegmentIndex      int            `json:"segmentIndex"`
	TotalSegments     int            `json:"totalSegments"`
	PassengerDetails  datatypes.JSON `json:"passengerDetails,omitempty"`
}

// HotelBooking reserves one unit of a room type for a half-open date range
// [CheckInDate, CheckOutDate). The checkout day itself is not occupied.
type HotelBooking struct {
	gorm.Model
	BookingID    uint           `json:"bookingID" gorm:"not null;index"`
	RoomID       uint           `json:"roomID" gorm:"not null;index"`
	CheckInDate  time.Time      `json:"checkInDate" gorm:"not null"`
	CheckOutDate time.Time      `json:"checkOutDate" gorm:"not null"`
	GuestCount   int            `json:"guestCount" gorm:"default:1"`
	Price        float64        `json:"price"`
	Currency     string         `json:"currency" gorm:"type:varchar(3);default:'CAD'"`
	Status       string         `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	GuestDetails datatypes.JSON `json:"guestDetails,omitempty"`
	Room         *Room          `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}
