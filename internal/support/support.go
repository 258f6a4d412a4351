// Package support implements the helpdesk: tickets, replies and their notifications.
package support

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/db"
	"github.com/router-for-me/storefront/internal/mail"
	"github.com/router-for-me/storefront/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultSubject is used when a submission omits the subject.
const DefaultSubject = "Support Request"

// Notifier sends the helpdesk emails.
type Notifier interface {
	NotifySupport(ctx context.Context, req mail.SupportRequest) error
	ConfirmReceipt(ctx context.Context, email, name string) error
	SendReply(ctx context.Context, email, name, subject, reply string) error
}

// Sender identifies who admin replies come from.
type Sender struct {
	Name  string
	Email string
}

// Service is the support desk.
type Service struct {
	db       *gorm.DB
	notifier Notifier
	sender   Sender
}

// NewService constructs a support Service.
func NewService(db *gorm.DB, notifier Notifier, sender Sender) *Service {
	return &Service{db: db, notifier: notifier, sender: sender}
}

// Submission is a customer support request.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// TicketSummary is a ticket with its reply count.
type TicketSummary struct {
	models.SupportTicket
	ReplyCount int64
}

// TicketFilter narrows ListTickets. Empty fields match everything.
type TicketFilter struct {
	Status   string
	Priority string
	Search   string
}

// TicketPatch carries optional ticket changes. An empty AssignedTo clears the assignee.
type TicketPatch struct {
	Status     *string
	Priority   *string
	AssignedTo *string
}

// Stats counts tickets per status.
type Stats struct {
	Total      int64
	Open       int64
	InProgress int64
	Closed     int64
}

// IsValidStatus reports whether s is a ticket status.
func IsValidStatus(s string) bool {
	return contains(models.TicketStatuses, s)
}

// IsValidPriority reports whether p is a ticket priority.
func IsValidPriority(p string) bool {
	return contains(models.TicketPriorities, p)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// SubmitTicket records a new open ticket, then notifies support and the customer.
// Notification failures are logged and do not fail the submission.
func (s *Service) SubmitTicket(ctx context.Context, in Submission) (models.SupportTicket, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	message := strings.TrimSpace(in.Message)
	if name == "" || email == "" || message == "" {
		return models.SupportTicket{}, apperr.Validation("Name, email, and message are required")
	}
	if !mail.ValidAddress(email) {
		return models.SupportTicket{}, apperr.Validation("A valid email address is required")
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = DefaultSubject
	}

	ticket := models.SupportTicket{
		CustomerName:  name,
		CustomerEmail: email,
		Subject:       subject,
		Message:       message,
		Status:        models.TicketStatusOpen,
		Priority:      models.TicketPriorityNormal,
	}
	if errCreate := s.db.WithContext(ctx).Create(&ticket).Error; errCreate != nil {
		return models.SupportTicket{}, fmt.Errorf("create support ticket: %w", errCreate)
	}

	entry := log.WithFields(log.Fields{"ticket_id": ticket.ID, "email": email})
	if errNotify := s.notifier.NotifySupport(ctx, mail.SupportRequest{Name: name, Email: email, Subject: subject, Message: message}); errNotify != nil {
		entry.WithError(errNotify).Warn("support: mailbox notification failed")
	}
	if errConfirm := s.notifier.ConfirmReceipt(ctx, email, name); errConfirm != nil {
		entry.WithError(errConfirm).Warn("support: customer confirmation failed")
	}
	return ticket, nil
}

// ListTickets returns tickets newest first with their reply counts.
func (s *Service) ListTickets(ctx context.Context, filter TicketFilter) ([]TicketSummary, error) {
	q := s.db.WithContext(ctx).Model(&models.SupportTicket{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		q = q.Where("status = ?", status)
	}
	if priority := strings.TrimSpace(filter.Priority); priority != "" {
		q = q.Where("priority = ?", priority)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where(db.MatchAny(s.db, search, "subject", "customer_email", "customer_name"))
	}
	var tickets []models.SupportTicket
	if errFind := q.Order("created_at DESC").Find(&tickets).Error; errFind != nil {
		return nil, fmt.Errorf("list support tickets: %w", errFind)
	}
	if len(tickets) == 0 {
		return []TicketSummary{}, nil
	}

	ids := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		ids = append(ids, ticket.ID)
	}
	var counts []struct {
		TicketID   string
		ReplyCount int64
	}
	if errCount := s.db.WithContext(ctx).Model(&models.SupportReply{}).
		Select("ticket_id, COUNT(*) AS reply_count").
		Where("ticket_id IN ?", ids).
		Group("ticket_id").
		Scan(&counts).Error; errCount != nil {
		return nil, fmt.Errorf("count support replies: %w", errCount)
	}
	byTicket := make(map[string]int64, len(counts))
	for _, row := range counts {
		byTicket[row.TicketID] = row.ReplyCount
	}

	out := make([]TicketSummary, 0, len(tickets))
	for _, ticket := range tickets {
		out = append(out, TicketSummary{SupportTicket: ticket, ReplyCount: byTicket[ticket.ID]})
	}
	return out, nil
}

// GetTicket loads a ticket with its replies in creation order.
func (s *Service) GetTicket(ctx context.Context, id string) (models.SupportTicket, error) {
	var ticket models.SupportTicket
	errFind := s.db.WithContext(ctx).
		Preload("Replies", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC, id ASC") }).
		Where("id = ?", id).
		First(&ticket).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.SupportTicket{}, apperr.NotFound("Ticket")
		}
		return models.SupportTicket{}, fmt.Errorf("load support ticket: %w", errFind)
	}
	if ticket.Replies == nil {
		ticket.Replies = []models.SupportReply{}
	}
	return ticket, nil
}

// Reply appends an admin reply, emails it to the customer and moves an open ticket to in_progress.
// A failed email is returned as a dependency error and leaves the status untouched.
func (s *Service) Reply(ctx context.Context, ticketID, message string) (models.SupportReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.SupportReply{}, apperr.Validation("Message is required")
	}

	var ticket models.SupportTicket
	reply := models.SupportReply{
		TicketID:    ticketID,
		Message:     message,
		IsFromAdmin: true,
		SenderName:  s.sender.Name,
		SenderEmail: s.sender.Email,
	}
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errFind := tx.Where("id = ?", ticketID).First(&ticket).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Ticket")
			}
			return fmt.Errorf("load support ticket: %w", errFind)
		}
		if errCreate := tx.Create(&reply).Error; errCreate != nil {
			return fmt.Errorf("create support reply: %w", errCreate)
		}
		return nil
	})
	if errTx != nil {
		return models.SupportReply{}, errTx
	}

	if errSend := s.notifier.SendReply(ctx, ticket.CustomerEmail, ticket.CustomerName, ticket.Subject, message); errSend != nil {
		return models.SupportReply{}, apperr.Dependency("send reply email", errSend)
	}

	if ticket.Status == models.TicketStatusOpen {
		if errStatus := s.db.WithContext(ctx).Model(&models.SupportTicket{}).
			Where("id = ? AND status = ?", ticketID, models.TicketStatusOpen).
			Updates(map[string]any{
				"status":     models.TicketStatusInProgress,
				"updated_at": time.Now().UTC(),
			}).Error; errStatus != nil {
			return models.SupportReply{}, fmt.Errorf("advance ticket status: %w", errStatus)
		}
	}
	return reply, nil
}

// UpdateTicket applies an admin status, priority or assignee change.
func (s *Service) UpdateTicket(ctx context.Context, id string, patch TicketPatch) (models.SupportTicket, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Status != nil && *patch.Status != "" {
		if !IsValidStatus(*patch.Status) {
			return models.SupportTicket{}, apperr.Validationf("Invalid status: %s", *patch.Status)
		}
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil && *patch.Priority != "" {
		if !IsValidPriority(*patch.Priority) {
			return models.SupportTicket{}, apperr.Validationf("Invalid priority: %s", *patch.Priority)
		}
		updates["priority"] = *patch.Priority
	}
	if patch.AssignedTo != nil {
		if assignee := strings.TrimSpace(*patch.AssignedTo); assignee != "" {
			updates["assigned_to"] = assignee
		} else {
			updates["assigned_to"] = nil
		}
	}

	res := s.db.WithContext(ctx).Model(&models.SupportTicket{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return models.SupportTicket{}, fmt.Errorf("update support ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.SupportTicket{}, apperr.NotFound("Ticket")
	}
	var ticket models.SupportTicket
	if errFind := s.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; errFind != nil {
		return models.SupportTicket{}, fmt.Errorf("reload support ticket: %w", errFind)
	}
	return ticket, nil
}

// DeleteTicket removes a ticket and its replies atomically.
func (s *Service) DeleteTicket(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errReplies := tx.Where("ticket_id = ?", id).Delete(&models.SupportReply{}).Error; errReplies != nil {
			return fmt.Errorf("delete support replies: %w", errReplies)
		}
		res := tx.Where("id = ?", id).Delete(&models.SupportTicket{})
		if res.Error != nil {
			return fmt.Errorf("delete support ticket: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Ticket")
		}
		return nil
	})
}

// TicketStats counts tickets per status.
func (s *Service) TicketStats(ctx context.Context) (Stats, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if errCount := s.db.WithContext(ctx).Model(&models.SupportTicket{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; errCount != nil {
		return Stats{}, fmt.Errorf("count support tickets: %w", errCount)
	}
	var stats Stats
	for _, row := range rows {
		stats.Total += row.Total
		switch row.Status {
		case models.TicketStatusOpen:
			stats.Open = row.Total
		case models.TicketStatusInProgress:
			stats.InProgress = row.Total
		case models.TicketStatusClosed:
			stats.Closed = row.Total
		}
	}
	return stats, nil
}
