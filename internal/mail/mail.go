// Package mail sends transactional email through SendGrid, SMTP or the log.
package mail

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/router-for-me/storefront/internal/config"
	log "github.com/sirupsen/logrus"
)

// Address is a display name plus email address.
type Address struct {
	Name  string
	Email string
}

// String formats the address for a MIME header.
func (a Address) String() string {
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Message is one outbound email.
type Message struct {
	From    Address
	To      Address
	ReplyTo *Address
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New selects SendGrid when an API key is set, SMTP when a host is set, else the log transport.
func New(cfg config.MailConfig) Mailer {
	switch {
	case strings.TrimSpace(cfg.SendGridAPIKey) != "":
		log.Info("mail: using sendgrid transport")
		return NewSendGridMailer(cfg.SendGridAPIKey)
	case strings.TrimSpace(cfg.SMTP.Host) != "":
		log.WithField("host", cfg.SMTP.Host).Info("mail: using smtp transport")
		return NewSMTPMailer(cfg.SMTP)
	default:
		log.Warn("mail: no transport configured, messages will be logged only")
		return LogMailer{}
	}
}

// ValidAddress reports whether s parses as a single bare email address.
func ValidAddress(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	parsed, err := mail.ParseAddress(s)
	return err == nil && parsed.Address == s
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct{}

// Send logs the message envelope and text body.
func (LogMailer) Send(_ context.Context, msg Message) error {
	if msg.To.Email == "" {
		return fmt.Errorf("mail: missing recipient")
	}
	log.WithFields(log.Fields{
		"to":      msg.To.Email,
		"from":    msg.From.Email,
		"subject": msg.Subject,
	}).Info("mail: delivery disabled, message logged")
	log.Debug(msg.Text)
	return nil
}
