package services

import (
	"context"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
)

// NotifierSvcFacade is the notification dispatcher consumed by the budget
// engine. Send resolves the trigger's template, substitutes {variable}
// placeholders and requests delivery. It is fire-and-forget: delivery
// failures are logged and never surface to the caller, and an empty
// recipient list skips delivery entirely.
type NotifierSvcFacade interface {
	Send(ctx context.Context, trigger domain.NotificationTrigger, variables map[string]string, recipients []string)
}

// MailSender is the outbound mail-transport collaborator used by the
// notification dispatcher.
type MailSender interface {
	// SendMail delivers one message to the recipients using the given
	// transport settings.
	SendMail(ctx context.Context, smtp domain.SMTPSettings, recipients []string, subject, body string) error
}

// SettingsSvcFacade manages system settings (SMTP transport and templates).
type SettingsSvcFacade interface {
	// GetSettings returns the current notification settings, seeding
	// defaults on first read. The SMTP password is returned decrypted.
	GetSettings(ctx context.Context) (*domain.NotificationSettings, error)

	// SaveSettings persists the provided SMTP config and/or templates.
	SaveSettings(ctx context.Context, req dto.SaveSettingsRequest) error
}
