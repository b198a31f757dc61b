package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"not null;index"`
	Type    string `json:"type" gorm:"type:varchar(50)"`
	Title   string `json:"title"`
	Message string `json:"message" gorm:"type:text"`
	RefType string `json:"refType" gorm:"type:varchar(50)"`
	RefID   uint   `json:"refID"`
	IsRead  bool   `json:"isRead" gorm:"default:false;index"`
}
