package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookEvent records an inbound payment provider notification.
type WebhookEvent struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key.

	Provider        string         `gorm:"type:varchar(32);not null;index"` // Sending provider.
	EventType       string         `gorm:"type:varchar(64);not null;index"` // Event name.
	PaymentID       string         `gorm:"type:varchar(128);index"`         // Referenced payment.
	Payload         datatypes.JSON `gorm:"not null"`                        // Raw envelope.
	SignatureValid  *bool          // Nil when verification is disabled.
	ProcessedAt     *time.Time     // Set once handled.
	ProcessingError string         `gorm:"type:text"` // Last handling failure.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Receipt timestamp.
}

// BeforeCreate assigns the primary key.
func (e *WebhookEvent) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}
