package action

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "gopkg.in/mail.v2"

	"github.com/flo-at/minmon/internal/placeholder"
)

// SmtpSecurity selects how Email connects to its SMTP relay.
type SmtpSecurity int

const (
	SmtpTLS SmtpSecurity = iota
	SmtpSTARTTLS
	SmtpPlain
)

// Email sends a placeholder-rendered subject/body over SMTP.
type Email struct {
	From         string
	To           string
	ReplyTo      string
	Subject      string
	Body         string
	SmtpServer   string
	SmtpPort     int
	SmtpSecurity SmtpSecurity
	Username     string
	Password     string
}

// NewEmail validates the required non-empty fields, matching
// email.rs's constructor checks.
func NewEmail(from, to, replyTo, subject, body, smtpServer string, smtpPort int, security SmtpSecurity, username, password string) (*Email, error) {
	switch {
	case subject == "":
		return nil, fmt.Errorf("'subject' cannot be empty")
	case body == "":
		return nil, fmt.Errorf("'body' cannot be empty")
	case smtpServer == "":
		return nil, fmt.Errorf("'smtp_server' cannot be empty")
	case username == "":
		return nil, fmt.Errorf("'username' cannot be empty")
	case password == "":
		return nil, fmt.Errorf("'password' cannot be empty")
	}
	return &Email{
		From: from, To: to, ReplyTo: replyTo, Subject: subject, Body: body,
		SmtpServer: smtpServer, SmtpPort: smtpPort, SmtpSecurity: security,
		Username: username, Password: password,
	}, nil
}

func (e *Email) Trigger(ctx context.Context, placeholders placeholder.Map) error {
	subject := placeholder.Render(e.Subject, placeholders)
	body := placeholder.Render(e.Body, placeholders)

	m := mail.NewMessage()
	m.SetHeader("From", e.From)
	m.SetHeader("To", e.To)
	if e.ReplyTo != "" {
		m.SetHeader("Reply-To", e.ReplyTo)
	}
	m.SetHeader("Subject", subject)
	m.SetHeader("User-Agent", defaultUserAgent)
	m.SetBody("text/plain", body)

	port := e.SmtpPort
	if port == 0 {
		port = 587
	}
	d := mail.NewDialer(e.SmtpServer, port, e.Username, e.Password)
	switch e.SmtpSecurity {
	case SmtpTLS:
		d.SSL = true
	case SmtpSTARTTLS:
		d.SSL = false
		d.TLSConfig = &tls.Config{ServerName: e.SmtpServer}
	case SmtpPlain:
		d.SSL = false
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}
