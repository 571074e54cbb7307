package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ResponsibilityRepo ResponsibilityRepositoryFacade
	ExpenseRepo        ExpenseRepositoryFacade
	UserRepo           UserRepositoryFacade
	GroupRepo          GroupRepositoryFacade
	VendorRepo         VendorRepositoryFacade
	SettingsRepo       SettingsRepository
}
