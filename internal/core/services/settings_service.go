package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
	"github.com/khalidalhothifi/expense-manager/internal/middleware"
	"github.com/khalidalhothifi/expense-manager/internal/utils"
)

// settingsService owns the shape of the system_settings documents. The SMTP
// password is encrypted before it is written and decrypted on every read.
type settingsService struct {
	settingsRepo  portsrepo.SettingsRepository
	encryptionKey string
}

// NewSettingsService creates the settings service. encryptionKey must be the
// 32-byte key used for SMTP password encryption.
func NewSettingsService(settingsRepo portsrepo.SettingsRepository, encryptionKey string) portssvc.SettingsSvcFacade {
	return &settingsService{settingsRepo: settingsRepo, encryptionKey: encryptionKey}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetSettings returns the current notification settings. Sections that have
// never been written are seeded with defaults and persisted, so first read
// leaves the store fully populated.
func (s *settingsService) GetSettings(ctx context.Context) (*domain.NotificationSettings, error) {
	smtp, err := s.loadSMTP(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := s.loadTemplates(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.NotificationSettings{SMTP: *smtp, Templates: templates}, nil
}

// SaveSettings persists the provided SMTP config and/or templates. Nil
// sections are left untouched.
func (s *settingsService) SaveSettings(ctx context.Context, req dto.SaveSettingsRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.SMTP != nil {
		smtp := *req.SMTP
		encrypted, err := utils.EncryptSecret(smtp.Pass, s.encryptionKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt SMTP password: %w", err)
		}
		smtp.Pass = encrypted
		if err := s.storeJSON(ctx, portsrepo.SettingKeySMTP, smtp); err != nil {
			return err
		}
		logger.Info("SMTP settings updated", "server", smtp.Server, "port", smtp.Port)
	}
	if req.Templates != nil {
		if err := s.storeJSON(ctx, portsrepo.SettingKeyTemplates, req.Templates); err != nil {
			return err
		}
		logger.Info("notification templates updated", "count", len(req.Templates))
	}
	return nil
}

func (s *settingsService) loadSMTP(ctx context.Context) (*domain.SMTPSettings, error) {
	raw, err := s.settingsRepo.GetSetting(ctx, portsrepo.SettingKeySMTP)
	if errors.Is(err, apperrors.ErrNotFound) {
		smtp := domain.DefaultSMTPSettings()
		if err := s.storeJSON(ctx, portsrepo.SettingKeySMTP, smtp); err != nil {
			return nil, err
		}
		return &smtp, nil
	}
	if err != nil {
		return nil, err
	}

	var smtp domain.SMTPSettings
	if err := json.Unmarshal(raw, &smtp); err != nil {
		return nil, fmt.Errorf("failed to decode SMTP settings: %w", err)
	}
	pass, err := utils.DecryptSecret(smtp.Pass, s.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt SMTP password: %w", err)
	}
	smtp.Pass = pass
	return &smtp, nil
}

func (s *settingsService) loadTemplates(ctx context.Context) (map[domain.NotificationTrigger]domain.EmailTemplate, error) {
	raw, err := s.settingsRepo.GetSetting(ctx, portsrepo.SettingKeyTemplates)
	if errors.Is(err, apperrors.ErrNotFound) {
		templates := domain.DefaultTemplates()
		if err := s.storeJSON(ctx, portsrepo.SettingKeyTemplates, templates); err != nil {
			return nil, err
		}
		return templates, nil
	}
	if err != nil {
		return nil, err
	}

	var templates map[domain.NotificationTrigger]domain.EmailTemplate
	if err := json.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}
	// Stored sets written before a trigger existed fall back to its default.
	for trigger, tmpl := range domain.DefaultTemplates() {
		if _, ok := templates[trigger]; !ok {
			templates[trigger] = tmpl
		}
	}
	return templates, nil
}

func (s *settingsService) storeJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}
	return s.settingsRepo.SaveSetting(ctx, key, raw)
}
