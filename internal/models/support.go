package models

import (
	"time"

	"gorm.io/gorm"
)

// Ticket statuses.
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusClosed     = "closed"
)

// Ticket priorities.
const (
	TicketPriorityLow    = "low"
	TicketPriorityNormal = "normal"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

// TicketStatuses lists every valid ticket status.
var TicketStatuses = []string{TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed}

// TicketPriorities lists every valid ticket priority.
var TicketPriorities = []string{TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent}

// SupportTicket is a customer support conversation.
type SupportTicket struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key.

	CustomerName  string  `gorm:"type:varchar(255);not null"`                     // Submitter name.
	CustomerEmail string  `gorm:"type:varchar(255);not null;index"`               // Submitter email.
	Subject       string  `gorm:"type:varchar(255);not null"`                     // Subject line.
	Message       string  `gorm:"type:text;not null"`                             // Initial message.
	Status        string  `gorm:"type:varchar(32);not null;default:open;index"`   // Workflow status.
	Priority      string  `gorm:"type:varchar(32);not null;default:normal;index"` // Triage priority.
	AssignedTo    *string `gorm:"type:varchar(255)"`                              // Assigned agent.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.

	Replies []SupportReply `gorm:"foreignKey:TicketID"` // Conversation replies.
}

// BeforeCreate assigns the primary key.
func (t *SupportTicket) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// SupportReply is one message appended to a ticket.
type SupportReply struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key.

	TicketID    string `gorm:"type:varchar(36);not null;index"` // Owning ticket.
	Message     string `gorm:"type:text;not null"`              // Reply body.
	IsFromAdmin bool   `gorm:"not null;default:false"`          // Sent by staff.
	SenderName  string `gorm:"type:varchar(255)"`               // Display name.
	SenderEmail string `gorm:"type:varchar(255)"`               // Sender address.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
}

// BeforeCreate assigns the primary key.
func (r *SupportReply) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}
