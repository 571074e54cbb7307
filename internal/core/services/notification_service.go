package services

import (
	"context"
	"strings"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/middleware"
)

// notifierService resolves trigger templates and hands messages to the mail
// transport. Delivery problems are logged and swallowed so a broken SMTP
// setup never fails the business operation that raised the notification.
type notifierService struct {
	settingsSvc portssvc.SettingsSvcFacade
	mailer      portssvc.MailSender
}

// NewNotifierService creates the notification dispatcher.
func NewNotifierService(settingsSvc portssvc.SettingsSvcFacade, mailer portssvc.MailSender) portssvc.NotifierSvcFacade {
	return &notifierService{settingsSvc: settingsSvc, mailer: mailer}
}

var _ portssvc.NotifierSvcFacade = (*notifierService)(nil)

// Send resolves the trigger's template, substitutes {variable} placeholders
// in both language variants and delivers one message per language. An empty
// recipient list skips delivery entirely.
func (s *notifierService) Send(ctx context.Context, trigger domain.NotificationTrigger, variables map[string]string, recipients []string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recipients = dedupeNonEmpty(recipients)
	if len(recipients) == 0 {
		return
	}

	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		logger.Warn("notification skipped, settings unavailable", "trigger", trigger, "error", err)
		return
	}
	if settings.SMTP.Server == "" {
		logger.Warn("notification skipped, SMTP not configured", "trigger", trigger)
		return
	}

	tmpl, ok := settings.Templates[trigger]
	if !ok {
		tmpl, ok = domain.DefaultTemplates()[trigger]
		if !ok {
			logger.Warn("notification skipped, unknown trigger", "trigger", trigger)
			return
		}
	}

	subject := substitute(tmpl.En.Subject, variables)
	body := substitute(tmpl.En.Body, variables) + "\n\n" + substitute(tmpl.Ar.Body, variables)

	if err := s.mailer.SendMail(ctx, settings.SMTP, recipients, subject, body); err != nil {
		logger.Warn("notification delivery failed",
			"trigger", trigger, "recipients", len(recipients), "error", err)
		return
	}
	logger.Info("notification sent", "trigger", trigger, "recipients", len(recipients))
}

// substitute replaces every {name} placeholder with its variable value.
// Placeholders without a matching variable are left as-is.
func substitute(text string, variables map[string]string) string {
	for name, value := range variables {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}

func dedupeNonEmpty(recipients []string) []string {
	seen := make(map[string]struct{}, len(recipients))
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
