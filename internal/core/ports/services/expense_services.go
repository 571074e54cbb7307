package services

import (
	"context"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense data.
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves an expense by ID.
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves all expenses, newest first.
	ListExpenses(ctx context.Context) ([]domain.Expense, error)
}

// ExpenseWriterSvc defines the budget-engine operations on expenses.
type ExpenseWriterSvc interface {
	// SubmitExpense validates the draft against the target responsibility's
	// budget and persists it with status PENDING. Regular users are
	// hard-capped at the remaining envelope balance; managers may exceed it.
	SubmitExpense(ctx context.Context, req dto.CreateExpenseRequest, submitterID string) (*domain.Expense, error)

	// UpdateExpenseStatus transitions a PENDING expense to APPROVED or
	// REJECTED. Only managers may call it.
	UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, actorID string) (*domain.Expense, error)
}

// ExpenseSvcFacade combines all expense-related service interfaces.
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
