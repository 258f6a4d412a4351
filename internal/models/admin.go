package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminUser is a back-office account.
type AdminUser struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key.

	Username     string `gorm:"type:varchar(255);not null;uniqueIndex"` // Unique login name.
	PasswordHash string `gorm:"type:varchar(255);not null"`             // Bcrypt password hash.

	TwoFactorSecret  *string `gorm:"type:varchar(255)"`      // Pending or active TOTP secret.
	TwoFactorEnabled bool    `gorm:"not null;default:false"` // Whether TOTP is required at login.

	CreatedAt time.Time  `gorm:"not null;autoCreateTime"` // Creation timestamp.
	LastLogin *time.Time // Last successful login.
}

// BeforeCreate assigns the primary key.
func (a *AdminUser) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// HasPendingSecret reports whether a TOTP secret is stored.
func (a *AdminUser) HasPendingSecret() bool {
	return a.TwoFactorSecret != nil && *a.TwoFactorSecret != ""
}
