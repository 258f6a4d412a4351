package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/router-for-me/storefront/internal/config"
)

const smtpImplicitTLSPort = 465

// SMTPMailer delivers through an SMTP relay. Port 465 uses implicit TLS, other ports STARTTLS when offered.
type SMTPMailer struct {
	cfg     config.SMTPConfig
	timeout time.Duration
}

// NewSMTPMailer constructs an SMTPMailer.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, timeout: 20 * time.Second}
}

// Send delivers msg, honouring ctx cancellation while dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	body, errBuild := buildMIME(msg, time.Now())
	if errBuild != nil {
		return errBuild
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	dialer := &net.Dialer{Timeout: m.timeout}
	var conn net.Conn
	var errDial error
	if m.cfg.Port == smtpImplicitTLSPort {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: m.cfg.Host}}
		conn, errDial = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, errDial = dialer.DialContext(ctx, "tcp", addr)
	}
	if errDial != nil {
		return fmt.Errorf("mail: smtp dial: %w", errDial)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(m.timeout))
	}

	client, errClient := smtp.NewClient(conn, m.cfg.Host)
	if errClient != nil {
		_ = conn.Close()
		return fmt.Errorf("mail: smtp handshake: %w", errClient)
	}
	defer func() { _ = client.Close() }()

	if m.cfg.Port != smtpImplicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if errTLS := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); errTLS != nil {
				return fmt.Errorf("mail: smtp starttls: %w", errTLS)
			}
		}
	}
	if m.cfg.Username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
			if errAuth := client.Auth(auth); errAuth != nil {
				return fmt.Errorf("mail: smtp auth: %w", errAuth)
			}
		}
	}
	if errMail := client.Mail(msg.From.Email); errMail != nil {
		return fmt.Errorf("mail: smtp MAIL FROM: %w", errMail)
	}
	if errRcpt := client.Rcpt(msg.To.Email); errRcpt != nil {
		return fmt.Errorf("mail: smtp RCPT TO: %w", errRcpt)
	}
	w, errData := client.Data()
	if errData != nil {
		return fmt.Errorf("mail: smtp DATA: %w", errData)
	}
	if _, errWrite := w.Write(body); errWrite != nil {
		_ = w.Close()
		return fmt.Errorf("mail: smtp write: %w", errWrite)
	}
	if errClose := w.Close(); errClose != nil {
		return fmt.Errorf("mail: smtp finish: %w", errClose)
	}
	return client.Quit()
}

// buildMIME renders msg as a multipart/alternative message.
func buildMIME(msg Message, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	headers := [][2]string{
		{"From", msg.From.String()},
		{"To", msg.To.String()},
	}
	if msg.ReplyTo != nil {
		headers = append(headers, [2]string{"Reply-To", msg.ReplyTo.String()})
	}
	headers = append(headers,
		[2]string{"Subject", mime.QEncoding.Encode("utf-8", msg.Subject)},
		[2]string{"Date", now.Format(time.RFC1123Z)},
		[2]string{"MIME-Version", "1.0"},
		[2]string{"Content-Type", "multipart/alternative; boundary=" + writer.Boundary()},
	)

	var out bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&out, "%s: %s\r\n", h[0], h[1])
	}
	out.WriteString("\r\n")

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	}
	for _, part := range parts {
		if part.body == "" {
			continue
		}
		pw, errPart := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if errPart != nil {
			return nil, fmt.Errorf("mail: build mime part: %w", errPart)
		}
		if _, errWrite := pw.Write([]byte(part.body)); errWrite != nil {
			return nil, fmt.Errorf("mail: write mime part: %w", errWrite)
		}
	}
	if errClose := writer.Close(); errClose != nil {
		return nil, fmt.Errorf("mail: close mime writer: %w", errClose)
	}
	out.Write(buf.Bytes())
	return out.Bytes(), nil
}
