// Package mailer delivers notification emails over SMTP.
package mailer

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
)

// SMTPMailer sends mail using the transport settings passed per call, so a
// settings change takes effect on the next message without a restart.
type SMTPMailer struct{}

// NewSMTPMailer creates the SMTP mail sender.
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

var _ portssvc.MailSender = (*SMTPMailer)(nil)

// SendMail delivers one message to all recipients.
func (m *SMTPMailer) SendMail(ctx context.Context, smtp domain.SMTPSettings, recipients []string, subject, body string) error {
	if smtp.Server == "" {
		return fmt.Errorf("smtp server not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", smtp.User)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(smtp.Server, smtp.Port, smtp.User, smtp.Pass)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
