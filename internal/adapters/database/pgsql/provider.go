package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
)

// NewRepositoryProvider bundles all pgsql-backed repositories over one pool.
func NewRepositoryProvider(db *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ResponsibilityRepo: NewResponsibilityRepository(db),
		ExpenseRepo:        NewExpenseRepository(db),
		UserRepo:           NewUserRepository(db),
		GroupRepo:          NewGroupRepository(db),
		VendorRepo:         NewVendorRepository(db),
		SettingsRepo:       NewSettingsRepository(db),
	}
}
