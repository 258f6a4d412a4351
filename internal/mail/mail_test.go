package mail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/router-for-me/storefront/internal/config"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestNotifier_Templates(t *testing.T) {
	rec := &recordingMailer{}
	n := NewNotifier(rec, config.Default())
	ctx := context.Background()

	if err := n.NotifySupport(ctx, SupportRequest{Name: "Ann", Email: "ann@example.com", Subject: "Billing", Message: "line one\n<b>line two</b>"}); err != nil {
		t.Fatalf("NotifySupport: %v", err)
	}
	if err := n.ConfirmReceipt(ctx, "ann@example.com", "Ann"); err != nil {
		t.Fatalf("ConfirmReceipt: %v", err)
	}
	if err := n.SendReply(ctx, "ann@example.com", "Ann", "Billing", "Refund issued"); err != nil {
		t.Fatalf("SendReply: %v", err)
	}
	if len(rec.sent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(rec.sent))
	}

	support := rec.sent[0]
	if support.To.Email != "support@kernal.com" || support.Subject != "Support Request: Billing" {
		t.Fatalf("unexpected support envelope %+v", support)
	}
	if support.ReplyTo == nil || support.ReplyTo.Email != "ann@example.com" {
		t.Fatalf("expected reply-to customer")
	}
	if !strings.Contains(support.HTML, "line one<br>&lt;b&gt;line two&lt;/b&gt;") {
		t.Fatalf("expected escaped message with line breaks, got %q", support.HTML)
	}
	if !strings.Contains(support.Text, "<b>line two</b>") {
		t.Fatalf("expected raw text body")
	}

	confirm := rec.sent[1]
	if confirm.Subject != "We received your support request - Kernal.wtf" || confirm.To.Email != "ann@example.com" {
		t.Fatalf("unexpected confirmation envelope %+v", confirm)
	}
	if !strings.Contains(confirm.HTML, "https://discord.gg/kernal") {
		t.Fatalf("expected discord invite in confirmation")
	}

	reply := rec.sent[2]
	if reply.Subject != "Re: Billing" || !strings.Contains(reply.Text, "Refund issued") {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestNotifier_PropagatesTransportError(t *testing.T) {
	n := NewNotifier(&recordingMailer{err: errors.New("smtp down")}, config.Default())
	if err := n.SendReply(context.Background(), "a@b.co", "A", "S", "M"); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestValidAddress(t *testing.T) {
	cases := map[string]bool{
		"ann@example.com":       true,
		"  ann@example.com  ":   true,
		"not-an-email":          false,
		"":                      false,
		"Ann <ann@example.com>": false,
	}
	for in, want := range cases {
		if got := ValidAddress(in); got != want {
			t.Fatalf("ValidAddress(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestBuildMIME(t *testing.T) {
	msg := Message{
		From:    Address{Name: "Support", Email: "support@example.com"},
		To:      Address{Email: "ann@example.com"},
		Subject: "Re: Billing",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	}
	raw, err := buildMIME(msg, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatalf("buildMIME: %v", err)
	}
	out := string(raw)
	for _, want := range []string{"From: \"Support\" <support@example.com>", "To: <ann@example.com>", "multipart/alternative", "plain body", "<p>html body</p>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in mime output:\n%s", want, out)
		}
	}
}

func TestNew_SelectsTransport(t *testing.T) {
	if _, ok := New(config.MailConfig{}).(LogMailer); !ok {
		t.Fatalf("expected log transport by default")
	}
	if _, ok := New(config.MailConfig{SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587}}).(*SMTPMailer); !ok {
		t.Fatalf("expected smtp transport")
	}
	if _, ok := New(config.MailConfig{SendGridAPIKey: "SG.x", SMTP: config.SMTPConfig{Host: "smtp.example.com"}}).(*SendGridMailer); !ok {
		t.Fatalf("expected sendgrid transport to take precedence")
	}
}
