package models

import (
	"time"

	"gorm.io/datatypes"
)

// Session is a server-side admin session.
type Session struct {
	SID    string         `gorm:"column:sid;type:varchar(128);primaryKey"` // Opaque session id.
	Data   datatypes.JSON `gorm:"not null"`                                // Session payload.
	Expire time.Time      `gorm:"not null;index"`                          // Absolute expiry.
}

// TableName overrides the default table name.
func (Session) TableName() string {
	return "sessions"
}
