package support

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/db"
	"github.com/router-for-me/storefront/internal/mail"
	"github.com/router-for-me/storefront/internal/models"
)

type stubNotifier struct {
	support  []mail.SupportRequest
	confirms []string
	replies  []string
	failAll  error
	failRepl error
}

func (n *stubNotifier) NotifySupport(_ context.Context, req mail.SupportRequest) error {
	if n.failAll != nil {
		return n.failAll
	}
	n.support = append(n.support, req)
	return nil
}

func (n *stubNotifier) ConfirmReceipt(_ context.Context, email, _ string) error {
	if n.failAll != nil {
		return n.failAll
	}
	n.confirms = append(n.confirms, email)
	return nil
}

func (n *stubNotifier) SendReply(_ context.Context, email, _, subject, _ string) error {
	if n.failRepl != nil {
		return n.failRepl
	}
	n.replies = append(n.replies, email+"|"+subject)
	return nil
}

func newTestService(t *testing.T, notifier Notifier) *Service {
	t.Helper()
	conn, err := db.Open("file:" + filepath.Join(t.TempDir(), "support.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return NewService(conn, notifier, Sender{Name: "Support Team", Email: "support@kernal.com"})
}

func TestSubmitTicket_DefaultsAndNotifications(t *testing.T) {
	notifier := &stubNotifier{}
	s := newTestService(t, notifier)

	ticket, err := s.SubmitTicket(context.Background(), Submission{Name: "Bob", Email: "bob@x.com", Message: "help"})
	if err != nil {
		t.Fatalf("SubmitTicket: %v", err)
	}
	if ticket.Status != models.TicketStatusOpen || ticket.Priority != models.TicketPriorityNormal || ticket.Subject != DefaultSubject {
		t.Fatalf("unexpected ticket %+v", ticket)
	}
	if len(notifier.support) != 1 || notifier.support[0].Subject != DefaultSubject {
		t.Fatalf("expected support notification, got %+v", notifier.support)
	}
	if len(notifier.confirms) != 1 || notifier.confirms[0] != "bob@x.com" {
		t.Fatalf("expected confirmation to customer, got %v", notifier.confirms)
	}
}

func TestSubmitTicket_MailFailureTolerated(t *testing.T) {
	s := newTestService(t, &stubNotifier{failAll: errors.New("smtp down")})
	ctx := context.Background()

	if _, err := s.SubmitTicket(ctx, Submission{Name: "Bob", Email: "bob@x.com", Message: "help"}); err != nil {
		t.Fatalf("expected submission to survive mail failure, got %v", err)
	}
	tickets, err := s.ListTickets(ctx, TicketFilter{})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected exactly one ticket, got %d", len(tickets))
	}
}

func TestSubmitTicket_Validation(t *testing.T) {
	s := newTestService(t, &stubNotifier{})
	ctx := context.Background()

	_, err := s.SubmitTicket(ctx, Submission{Name: "Bob", Message: "help"})
	if !errors.Is(err, apperr.ErrValidation) || err.Error() != "Name, email, and message are required" {
		t.Fatalf("expected required-field error, got %v", err)
	}
	_, err = s.SubmitTicket(ctx, Submission{Name: "Bob", Email: "not-an-email", Message: "help"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected invalid email error, got %v", err)
	}
}

func TestReply_AdvancesOpenTicket(t *testing.T) {
	notifier := &stubNotifier{}
	s := newTestService(t, notifier)
	ctx := context.Background()

	ticket, _ := s.SubmitTicket(ctx, Submission{Name: "Bob", Email: "bob@x.com", Subject: "Login", Message: "help"})
	reply, err := s.Reply(ctx, ticket.ID, "fixed")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if !reply.IsFromAdmin || reply.SenderName != "Support Team" || reply.SenderEmail != "support@kernal.com" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if len(notifier.replies) != 1 || notifier.replies[0] != "bob@x.com|Login" {
		t.Fatalf("expected reply email, got %v", notifier.replies)
	}

	detail, err := s.GetTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if detail.Status != models.TicketStatusInProgress {
		t.Fatalf("expected in_progress, got %s", detail.Status)
	}
	if len(detail.Replies) != 1 || detail.Replies[0].Message != "fixed" {
		t.Fatalf("unexpected replies %+v", detail.Replies)
	}

	tickets, _ := s.ListTickets(ctx, TicketFilter{})
	if len(tickets) != 1 || tickets[0].ReplyCount != 1 {
		t.Fatalf("expected reply count 1, got %+v", tickets)
	}

	closed := models.TicketStatusClosed
	if _, err := s.UpdateTicket(ctx, ticket.ID, TicketPatch{Status: &closed}); err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if _, err := s.Reply(ctx, ticket.ID, "follow-up"); err != nil {
		t.Fatalf("second Reply: %v", err)
	}
	detail, _ = s.GetTicket(ctx, ticket.ID)
	if detail.Status != models.TicketStatusClosed {
		t.Fatalf("expected closed ticket to stay closed, got %s", detail.Status)
	}
	if len(detail.Replies) != 2 || detail.Replies[1].Message != "follow-up" {
		t.Fatalf("expected replies in creation order, got %+v", detail.Replies)
	}
}

func TestReply_EmailFailureSurfaces(t *testing.T) {
	s := newTestService(t, &stubNotifier{failRepl: errors.New("smtp down")})
	ctx := context.Background()

	ticket, _ := s.SubmitTicket(ctx, Submission{Name: "Bob", Email: "bob@x.com", Message: "help"})
	_, err := s.Reply(ctx, ticket.ID, "fixed")
	if !errors.Is(err, apperr.ErrDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	detail, _ := s.GetTicket(ctx, ticket.ID)
	if detail.Status != models.TicketStatusOpen {
		t.Fatalf("expected status unchanged after failed email, got %s", detail.Status)
	}
}

func TestReply_Errors(t *testing.T) {
	s := newTestService(t, &stubNotifier{})
	ctx := context.Background()
	if _, err := s.Reply(ctx, "missing", "hello"); !errors.Is(err, apperr.ErrNotFound) || err.Error() != "Ticket not found" {
		t.Fatalf("expected Ticket not found, got %v", err)
	}
	if _, err := s.Reply(ctx, "missing", " "); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateTicket(t *testing.T) {
	s := newTestService(t, &stubNotifier{})
	ctx := context.Background()
	ticket, _ := s.SubmitTicket(ctx, Submission{Name: "Bob", Email: "bob@x.com", Message: "help"})

	priority := models.TicketPriorityUrgent
	assignee := "alice"
	updated, err := s.UpdateTicket(ctx, ticket.ID, TicketPatch{Priority: &priority, AssignedTo: &assignee})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.Priority != priority || updated.AssignedTo == nil || *updated.AssignedTo != "alice" || updated.Status != models.TicketStatusOpen {
		t.Fatalf("unexpected ticket %+v", updated)
	}

	unassign := ""
	updated, err = s.UpdateTicket(ctx, ticket.ID, TicketPatch{AssignedTo: &unassign})
	if err != nil {
		t.Fatalf("UpdateTicket clear: %v", err)
	}
	if updated.AssignedTo != nil {
		t.Fatalf("expected assignee cleared")
	}

	empty, high := "", models.TicketPriorityHigh
	updated, err = s.UpdateTicket(ctx, ticket.ID, TicketPatch{Status: &empty, Priority: &high})
	if err != nil {
		t.Fatalf("UpdateTicket with empty status: %v", err)
	}
	if updated.Status != models.TicketStatusOpen || updated.Priority != high {
		t.Fatalf("expected empty status ignored, got %+v", updated)
	}

	bad := "pending"
	if _, err := s.UpdateTicket(ctx, ticket.ID, TicketPatch{Status: &bad}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := s.UpdateTicket(ctx, "missing", TicketPatch{Priority: &priority}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteTicket_RemovesReplies(t *testing.T) {
	s := newTestService(t, &stubNotifier{})
	ctx := context.Background()
	ticket, _ := s.SubmitTicket(ctx, Submission{Name: "Bob", Email: "bob@x.com", Message: "help"})
	_, _ = s.Reply(ctx, ticket.ID, "fixed")

	if err := s.DeleteTicket(ctx, ticket.ID); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}
	var replies int64
	s.db.Model(&models.SupportReply{}).Where("ticket_id = ?", ticket.ID).Count(&replies)
	if replies != 0 {
		t.Fatalf("expected replies removed, got %d", replies)
	}
	if err := s.DeleteTicket(ctx, ticket.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListTickets_FiltersAndStats(t *testing.T) {
	s := newTestService(t, &stubNotifier{})
	ctx := context.Background()
	first, _ := s.SubmitTicket(ctx, Submission{Name: "Ann", Email: "ann@x.com", Subject: "Billing question", Message: "m"})
	_, _ = s.SubmitTicket(ctx, Submission{Name: "Bob", Email: "bob@x.com", Subject: "Crash", Message: "m"})
	closed := models.TicketStatusClosed
	_, _ = s.UpdateTicket(ctx, first.ID, TicketPatch{Status: &closed})

	all, _ := s.ListTickets(ctx, TicketFilter{})
	if len(all) != 2 || all[0].CustomerName != "Bob" {
		t.Fatalf("expected newest first, got %+v", all)
	}
	closedOnly, _ := s.ListTickets(ctx, TicketFilter{Status: closed})
	if len(closedOnly) != 1 || closedOnly[0].ID != first.ID {
		t.Fatalf("unexpected status filter result %+v", closedOnly)
	}
	search, _ := s.ListTickets(ctx, TicketFilter{Search: "BILLING"})
	if len(search) != 1 || search[0].ID != first.ID {
		t.Fatalf("unexpected search result %+v", search)
	}

	stats, err := s.TicketStats(ctx)
	if err != nil {
		t.Fatalf("TicketStats: %v", err)
	}
	if stats.Total != 2 || stats.Open != 1 || stats.Closed != 1 || stats.InProgress != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
