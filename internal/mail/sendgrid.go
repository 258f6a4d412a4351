package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
}

// NewSendGridMailer constructs a SendGridMailer.
func NewSendGridMailer(apiKey string) *SendGridMailer {
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey)}
}

// Send posts msg to SendGrid; non-2xx responses are errors.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	from := sgmail.NewEmail(msg.From.Name, msg.From.Email)
	to := sgmail.NewEmail(msg.To.Name, msg.To.Email)
	payload := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
	if msg.ReplyTo != nil {
		payload.SetReplyTo(sgmail.NewEmail(msg.ReplyTo.Name, msg.ReplyTo.Email))
	}
	resp, err := m.client.SendWithContext(ctx, payload)
	if err != nil {
		return fmt.Errorf("mail: sendgrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
