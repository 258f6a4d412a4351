package mail

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/router-for-me/storefront/internal/config"
)

// Notifier renders and sends the support desk emails.
type Notifier struct {
	mailer        Mailer
	from          Address
	replyFrom     Address
	mailbox       string
	siteName      string
	discordInvite string
}

// NewNotifier constructs a Notifier from the mail and support settings.
func NewNotifier(mailer Mailer, cfg config.Config) *Notifier {
	return &Notifier{
		mailer:        mailer,
		from:          Address{Name: cfg.Mail.FromName, Email: cfg.Mail.FromAddress},
		replyFrom:     Address{Name: cfg.Mail.FromName, Email: cfg.Support.ReplyEmail},
		mailbox:       cfg.Support.Mailbox,
		siteName:      cfg.SiteName,
		discordInvite: cfg.Support.DiscordInvite,
	}
}

// SupportRequest describes a submitted ticket for notification.
type SupportRequest struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type templateData struct {
	Title         string
	SiteName      string
	DiscordInvite string
	Name          string
	Email         string
	Subject       string
	Message       string
}

// NotifySupport emails the support mailbox about a new request.
func (n *Notifier) NotifySupport(ctx context.Context, req SupportRequest) error {
	data := n.data(n.siteName + " Support Request")
	data.Name, data.Email, data.Subject, data.Message = req.Name, req.Email, req.Subject, req.Message
	msg, errRender := render(supportRequestHTML, supportRequestText, data)
	if errRender != nil {
		return errRender
	}
	msg.From = n.from
	msg.To = Address{Email: n.mailbox}
	msg.ReplyTo = &Address{Name: req.Name, Email: req.Email}
	msg.Subject = "Support Request: " + req.Subject
	return n.mailer.Send(ctx, msg)
}

// ConfirmReceipt emails the customer that their request arrived.
func (n *Notifier) ConfirmReceipt(ctx context.Context, email, name string) error {
	data := n.data("Thank you for contacting " + n.siteName)
	data.Name, data.Email = name, email
	msg, errRender := render(confirmationHTML, confirmationText, data)
	if errRender != nil {
		return errRender
	}
	msg.From = n.from
	msg.To = Address{Name: name, Email: email}
	msg.Subject = "We received your support request - " + n.siteName
	return n.mailer.Send(ctx, msg)
}

// SendReply emails an admin reply to the customer.
func (n *Notifier) SendReply(ctx context.Context, email, name, subject, reply string) error {
	data := n.data(n.siteName + " Support Reply")
	data.Name, data.Email, data.Subject, data.Message = name, email, subject, reply
	msg, errRender := render(replyHTML, replyText, data)
	if errRender != nil {
		return errRender
	}
	msg.From = n.replyFrom
	msg.To = Address{Name: name, Email: email}
	msg.ReplyTo = &Address{Name: n.replyFrom.Name, Email: n.mailbox}
	msg.Subject = "Re: " + subject
	return n.mailer.Send(ctx, msg)
}

func (n *Notifier) data(title string) templateData {
	return templateData{Title: title, SiteName: n.siteName, DiscordInvite: n.discordInvite}
}

func render(html *htmltemplate.Template, text *texttemplate.Template, data templateData) (Message, error) {
	var htmlBuf, textBuf bytes.Buffer
	if errHTML := html.Execute(&htmlBuf, data); errHTML != nil {
		return Message{}, fmt.Errorf("mail: render %s html: %w", html.Name(), errHTML)
	}
	if errText := text.Execute(&textBuf, data); errText != nil {
		return Message{}, fmt.Errorf("mail: render %s text: %w", text.Name(), errText)
	}
	return Message{HTML: htmlBuf.String(), Text: textBuf.String()}, nil
}
