package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Hotel struct {
	gorm.Model
	OwnerID      uint           `json:"ownerID" gorm:"not null;index"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	AddressLine1 string         `json:"addressLine1"`
	AddressLine2 string         `json:"addressLine2"`
	City         string         `json:"city" gorm:"index"`
	Country      string         `json:"country"`
	Lat          float32        `json:"lat"`
	Lng          float32        `json:"lng"`
	StarRating   int            `json:"starRating"`
	Amenities    string         `json:"amenities"` // JSON string
	Images       datatypes.JSON `json:"images"`
	IsActive     *bool          `json:"isActive"`
	Rooms        []Room         `json:"rooms" gorm:"foreignKey:HotelID"`
	Owner        User           `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling to convert the Amenities string to an array
func (h *Hotel) MarshalJSON() ([]byte, error) {
	type Alias Hotel
	aux := &struct {
		Amenities []string `json:"amenities"`
		Owner     *User    `json:"owner,omitempty"`
		*Alias
	}{
		Amenities: []string{},
		Owner:     nil,
		Alias:     (*Alias)(h),
	}

	if h.Amenities != "" {
		var amenities []string
		if err := json.Unmarshal([]byte(h.Amenities), &amenities); err == nil {
			aux.Amenities = amenities
		}
	}

	// Only include owner if loaded, and strip its hotels to avoid a circular reference
	if h.Owner.ID > 0 {
		ownerCopy := h.Owner
		ownerCopy.Hotels = nil
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}
