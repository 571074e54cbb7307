package services_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/khalidalhothifi/expense-manager/internal/adapters/database/memory"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/core/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
)

type SettingsServiceTestSuite struct {
	suite.Suite
	repos    portsrepo.RepositoryProvider
	settings portssvc.SettingsSvcFacade
}

func (s *SettingsServiceTestSuite) SetupTest() {
	s.repos = memory.NewRepositoryProvider(memory.NewStore())
	s.settings = services.NewSettingsService(s.repos.SettingsRepo, testEncryptionKey)
}

func (s *SettingsServiceTestSuite) TestGetSettings_SeedsDefaultsOnFirstRead() {
	ctx := context.Background()

	settings, err := s.settings.GetSettings(ctx)

	s.Require().NoError(err)
	s.Equal(domain.DefaultSMTPSettings(), settings.SMTP)
	s.Len(settings.Templates, 5)
	for _, trigger := range []domain.NotificationTrigger{
		domain.TriggerNewInvoice,
		domain.TriggerExpenseApproved,
		domain.TriggerExpenseRejected,
		domain.TriggerBudgetThreshold,
		domain.TriggerResponsibilityAssigned,
	} {
		s.Contains(settings.Templates, trigger)
	}

	// The seed is persisted, not just returned.
	_, err = s.repos.SettingsRepo.GetSetting(ctx, portsrepo.SettingKeySMTP)
	s.Require().NoError(err)
	_, err = s.repos.SettingsRepo.GetSetting(ctx, portsrepo.SettingKeyTemplates)
	s.Require().NoError(err)
}

func (s *SettingsServiceTestSuite) TestSaveSettings_EncryptsSMTPPassword() {
	ctx := context.Background()

	err := s.settings.SaveSettings(ctx, dto.SaveSettingsRequest{
		SMTP: &domain.SMTPSettings{
			Server: "mail.internal",
			Port:   465,
			User:   "billing@internal",
			Pass:   "hunter2-secret",
		},
	})
	s.Require().NoError(err)

	raw, err := s.repos.SettingsRepo.GetSetting(ctx, portsrepo.SettingKeySMTP)
	s.Require().NoError(err)
	var stored domain.SMTPSettings
	s.Require().NoError(json.Unmarshal(raw, &stored))
	s.NotContains(stored.Pass, "hunter2-secret")
	s.Len(strings.Split(stored.Pass, ":"), 2)

	// Reads hand back the plaintext.
	settings, err := s.settings.GetSettings(ctx)
	s.Require().NoError(err)
	s.Equal("hunter2-secret", settings.SMTP.Pass)
	s.Equal("mail.internal", settings.SMTP.Server)
}

func (s *SettingsServiceTestSuite) TestSaveSettings_PartialTemplateSetBackfilled() {
	ctx := context.Background()

	err := s.settings.SaveSettings(ctx, dto.SaveSettingsRequest{
		Templates: map[domain.NotificationTrigger]domain.EmailTemplate{
			domain.TriggerNewInvoice: {
				En: domain.LocalizedTemplate{Subject: "custom subject", Body: "custom body"},
			},
		},
	})
	s.Require().NoError(err)

	settings, err := s.settings.GetSettings(ctx)
	s.Require().NoError(err)
	s.Len(settings.Templates, 5)
	s.Equal("custom subject", settings.Templates[domain.TriggerNewInvoice].En.Subject)
	s.Equal(domain.DefaultTemplates()[domain.TriggerExpenseApproved],
		settings.Templates[domain.TriggerExpenseApproved])
}

func (s *SettingsServiceTestSuite) TestSaveSettings_NilSectionsUntouched() {
	ctx := context.Background()

	err := s.settings.SaveSettings(ctx, dto.SaveSettingsRequest{
		SMTP: &domain.SMTPSettings{Server: "mail.internal", Port: 25, User: "u", Pass: "p"},
	})
	s.Require().NoError(err)

	// A template-only save must not clobber the SMTP section.
	err = s.settings.SaveSettings(ctx, dto.SaveSettingsRequest{
		Templates: domain.DefaultTemplates(),
	})
	s.Require().NoError(err)

	settings, err := s.settings.GetSettings(ctx)
	s.Require().NoError(err)
	s.Equal("mail.internal", settings.SMTP.Server)
}

func TestSettingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}
