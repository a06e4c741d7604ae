// Package notify renders notification emails and dispatches them over SMTP.
// Email is a side effect of the workflow: when SMTP is not configured the
// mailer only logs what it would have sent.
package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"time"

	mail "github.com/go-mail/mail/v2"

	"github.com/xn-coder/Project-Gateway/internal/config"
)

// Message is one outgoing email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns an SMTP mailer when host and sender are configured and a
// log-only mailer otherwise.
func NewMailer(cfg *config.Config) Mailer {
	if !cfg.SMTPConfigured() {
		log.Printf("Warning: SMTP_HOST/EMAIL_FROM not configured; email sending is disabled")
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

// SMTPMailer sends mail through a relay using go-mail.
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPMailer builds a dialer from the SMTP settings.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	d.Timeout = 15 * time.Second
	// Port 465 is implicit TLS (go-mail sets SSL itself); elsewhere require STARTTLS.
	if cfg.SMTPPort != 465 {
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.SMTPHost,
		InsecureSkipVerify: cfg.SMTPSkipTLSVerify,
	}
	return &SMTPMailer{dialer: d, from: cfg.SMTPFrom}
}

// Send delivers msg. go-mail has no context support, so ctx is only checked
// before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	mm := mail.NewMessage()
	mm.SetHeader("From", m.from)
	mm.SetHeader("To", msg.To...)
	mm.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		mm.SetBody("text/plain", msg.Text)
		mm.AddAlternative("text/html", msg.HTML)
	} else {
		mm.SetBody("text/html", msg.HTML)
	}
	if err := m.dialer.DialAndSend(mm); err != nil {
		return fmt.Errorf("send mail to %v: %w", msg.To, err)
	}
	log.Printf("email sent to %v with subject %q", msg.To, msg.Subject)
	return nil
}

// LogMailer logs the would-be email and never fails.
type LogMailer struct{}

// Send logs msg instead of delivering it.
func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Printf("email disabled; would have sent to %v with subject %q", msg.To, msg.Subject)
	if msg.Text != "" {
		log.Printf("text content: %s", msg.Text)
	}
	return nil
}
