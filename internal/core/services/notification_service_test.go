package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/khalidalhothifi/expense-manager/internal/adapters/database/memory"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/core/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

// sentMail is one message captured by the mailer recorder.
type sentMail struct {
	SMTP       domain.SMTPSettings
	Recipients []string
	Subject    string
	Body       string
}

// mailRecorder implements portssvc.MailSender, capturing messages instead
// of dialing SMTP. Set failWith to simulate transport errors.
type mailRecorder struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
}

var _ portssvc.MailSender = (*mailRecorder)(nil)

func (m *mailRecorder) SendMail(_ context.Context, smtp domain.SMTPSettings, recipients []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentMail{SMTP: smtp, Recipients: recipients, Subject: subject, Body: body})
	return nil
}

func (m *mailRecorder) messages() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type NotifierServiceTestSuite struct {
	suite.Suite
	settings portssvc.SettingsSvcFacade
	mailer   *mailRecorder
	notifier portssvc.NotifierSvcFacade
}

func (s *NotifierServiceTestSuite) SetupTest() {
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	s.settings = services.NewSettingsService(repos.SettingsRepo, testEncryptionKey)
	s.mailer = &mailRecorder{}
	s.notifier = services.NewNotifierService(s.settings, s.mailer)
}

func (s *NotifierServiceTestSuite) TestSend_SubstitutesVariables() {
	ctx := context.Background()

	s.notifier.Send(ctx, domain.TriggerExpenseApproved, map[string]string{
		"vendor": "Acme Supplies",
		"total":  "250.00",
	}, []string{"evan@example.com"})

	msgs := s.mailer.messages()
	s.Require().Len(msgs, 1)
	s.Equal([]string{"evan@example.com"}, msgs[0].Recipients)
	s.Equal("Expense Approved: Acme Supplies", msgs[0].Subject)
	s.Contains(msgs[0].Body, "Your expense from Acme Supplies for $250.00 has been approved.")
	// The body carries both language variants.
	s.Contains(msgs[0].Body, "Acme Supplies بمبلغ $250.00")
}

func (s *NotifierServiceTestSuite) TestSend_UnknownPlaceholderLeftIntact() {
	ctx := context.Background()

	s.notifier.Send(ctx, domain.TriggerExpenseApproved, map[string]string{
		"vendor": "Acme Supplies",
	}, []string{"evan@example.com"})

	msgs := s.mailer.messages()
	s.Require().Len(msgs, 1)
	s.Contains(msgs[0].Body, "{total}")
}

func (s *NotifierServiceTestSuite) TestSend_EmptyRecipientsSkipsDelivery() {
	ctx := context.Background()

	s.notifier.Send(ctx, domain.TriggerExpenseApproved, nil, nil)
	s.notifier.Send(ctx, domain.TriggerExpenseApproved, nil, []string{"", "  "})

	s.Empty(s.mailer.messages())
}

func (s *NotifierServiceTestSuite) TestSend_DeduplicatesRecipients() {
	ctx := context.Background()

	s.notifier.Send(ctx, domain.TriggerExpenseApproved, map[string]string{},
		[]string{"mona@example.com", "evan@example.com", "mona@example.com", ""})

	msgs := s.mailer.messages()
	s.Require().Len(msgs, 1)
	s.Equal([]string{"mona@example.com", "evan@example.com"}, msgs[0].Recipients)
}

func (s *NotifierServiceTestSuite) TestSend_MailerFailureIsSwallowed() {
	ctx := context.Background()
	s.mailer.failWith = errors.New("dial tcp: connection refused")

	// Must not panic or surface the transport error.
	s.notifier.Send(ctx, domain.TriggerExpenseApproved, nil, []string{"evan@example.com"})

	s.Empty(s.mailer.messages())
}

func (s *NotifierServiceTestSuite) TestSend_UnconfiguredSMTPSkipsDelivery() {
	ctx := context.Background()
	err := s.settings.SaveSettings(ctx, dto.SaveSettingsRequest{
		SMTP: &domain.SMTPSettings{Server: "", Port: 0},
	})
	s.Require().NoError(err)

	s.notifier.Send(ctx, domain.TriggerExpenseApproved, nil, []string{"evan@example.com"})

	s.Empty(s.mailer.messages())
}

func (s *NotifierServiceTestSuite) TestSend_UsesStoredTemplate() {
	ctx := context.Background()
	err := s.settings.SaveSettings(ctx, dto.SaveSettingsRequest{
		Templates: map[domain.NotificationTrigger]domain.EmailTemplate{
			domain.TriggerExpenseApproved: {
				En: domain.LocalizedTemplate{Subject: "Approved: {vendor}", Body: "Done."},
				Ar: domain.LocalizedTemplate{Subject: "x", Body: "y"},
			},
		},
	})
	s.Require().NoError(err)

	s.notifier.Send(ctx, domain.TriggerExpenseApproved, map[string]string{"vendor": "Acme"},
		[]string{"evan@example.com"})

	msgs := s.mailer.messages()
	s.Require().Len(msgs, 1)
	s.Equal("Approved: Acme", msgs[0].Subject)
}

func TestNotifierServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotifierServiceTestSuite))
}
