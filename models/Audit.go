package models

import "gorm.io/gorm"

type AuditLog struct {
	gorm.Model
	ActorUserID  uint   `json:"actorUserID" gorm:"index"`
	Action       string `json:"action" gorm:"type:varchar(64);index"`
	ResourceType string `json:"resourceType" gorm:"type:varchar(64);index"`
	ResourceID   uint   `json:"resourceID" gorm:"index"`
	BeforeJSON   string `json:"beforeJSON" gorm:"type:text"`
	AfterJSON    string `json:"afterJSON" gorm:"type:text"`
	IPAddress    string `json:"ipAddress" gorm:"type:varchar(64)"`
}
