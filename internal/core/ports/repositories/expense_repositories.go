package repositories

import (
	"context"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseReader defines read operations for expense data.
type ExpenseReader interface {
	// FindExpenseByID retrieves a specific expense by its ID.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves all non-deleted expenses, newest first
	// (created_at desc, then date desc).
	ListExpenses(ctx context.Context) ([]domain.Expense, error)

	// SumNonRejectedExpenses returns the consumption of a responsibility:
	// the sum of total over its PENDING and APPROVED expenses. Rejected and
	// soft-deleted expenses are excluded.
	SumNonRejectedExpenses(ctx context.Context, responsibilityID string) (decimal.Decimal, error)
}

// ExpenseWriter defines write operations for expense data.
type ExpenseWriter interface {
	// SaveExpense persists a new expense after checking it against the
	// target responsibility's budget. The existence check, consumption
	// aggregate and insert execute as one atomic unit serialized per
	// envelope, so two concurrent submissions cannot jointly overshoot the
	// cap. When enforceCap is false (manager override) the expense is
	// written even if it exceeds the budget.
	// Returns apperrors.ErrNotFound if the responsibility does not exist,
	// or *apperrors.BudgetExceededError when the cap blocks the write.
	SaveExpense(ctx context.Context, expense domain.Expense, enforceCap bool) error

	// UpdateExpenseStatus transitions a PENDING expense to the given status.
	// Returns apperrors.ErrNotFound if the expense does not exist and
	// apperrors.ErrConflict if it is no longer PENDING.
	UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
