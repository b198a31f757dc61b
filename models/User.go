package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber         string         `json:"phoneNumber"`
	Password            string         `json:"-"`
	AvatarURL           string         `json:"avatarURL"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	Hotels              []Hotel        `json:"hotels" gorm:"foreignKey:OwnerID;references:ID"`
	Role                string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, hotel_owner, admin
}
