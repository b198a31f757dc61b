package models

import "gorm.io/gorm"

// City is reference data for search autocomplete, served through a short-TTL
// redis cache. Staleness has no correctness impact.
type City struct {
	gorm.Model
	Name        string `json:"name" gorm:"index"`
	Country     string `json:"country" gorm:"index"`
	AirportCode string `json:"airportCode" gorm:"type:varchar(8)"`
}
