package services

import (
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, mailer portssvc.MailSender) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Leaf services first; the budget engine services depend on them.
	container.User = NewUserService(repos.UserRepo)
	container.Group = NewGroupService(repos.GroupRepo)
	container.Vendor = NewVendorService(repos.VendorRepo)
	container.Settings = NewSettingsService(repos.SettingsRepo, cfg.EncryptionKey)
	container.Notifier = NewNotifierService(container.Settings, mailer)

	container.Responsibility = NewResponsibilityService(
		repos.ResponsibilityRepo,
		container.User,
		container.Group,
		container.Notifier,
	)
	container.Expense = NewExpenseService(
		repos.ExpenseRepo,
		repos.ResponsibilityRepo,
		container.User,
		container.Vendor,
		container.Notifier,
	)

	return container
}
