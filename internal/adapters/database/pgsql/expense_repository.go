package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
)

type ExpenseRepository struct {
	db *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

var _ portsrepo.ExpenseRepositoryFacade = (*ExpenseRepository)(nil)

const expenseColumns = `
	expense_id, vendor, invoice_number, date, created_at,
	line_items, tax, total, notes, category, status,
	submitted_by, responsibility_id, attachments`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var exp domain.Expense
	var lineItems, attachments []byte
	err := row.Scan(
		&exp.ExpenseID,
		&exp.Vendor,
		&exp.InvoiceNumber,
		&exp.Date,
		&exp.CreatedAt,
		&lineItems,
		&exp.Tax,
		&exp.Total,
		&exp.Notes,
		&exp.Category,
		&exp.Status,
		&exp.SubmittedBy,
		&exp.ResponsibilityID,
		&attachments,
	)
	if err != nil {
		return nil, err
	}
	if len(lineItems) > 0 {
		if err := json.Unmarshal(lineItems, &exp.LineItems); err != nil {
			return nil, fmt.Errorf("failed to decode line items: %w", err)
		}
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &exp.Attachments); err != nil {
			return nil, fmt.Errorf("failed to decode attachments: %w", err)
		}
	}
	return &exp, nil
}

func (r *ExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `
        SELECT ` + expenseColumns + `
        FROM expenses
        WHERE expense_id = $1 AND deleted_at IS NULL;
    `
	exp, err := scanExpense(r.db.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
		}
		return nil, fmt.Errorf("failed to find expense by ID: %w", err)
	}
	return exp, nil
}

func (r *ExpenseRepository) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	query := `
        SELECT ` + expenseColumns + `
        FROM expenses
        WHERE deleted_at IS NULL
        ORDER BY created_at DESC, date DESC;
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, *exp)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", rows.Err())
	}
	return expenses, nil
}

func (r *ExpenseRepository) SumNonRejectedExpenses(ctx context.Context, responsibilityID string) (decimal.Decimal, error) {
	query := `
        SELECT COALESCE(SUM(total), 0)
        FROM expenses
        WHERE responsibility_id = $1
          AND status != 'REJECTED'
          AND deleted_at IS NULL;
    `
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, responsibilityID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return sum, nil
}

// SaveExpense checks the envelope's budget and inserts the expense in one
// transaction. The responsibility row is locked first, which serializes
// concurrent submissions against the same envelope and keeps the aggregate
// below honest.
func (r *ExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense, enforceCap bool) error {
	lineItems, err := json.Marshal(expense.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}
	attachments, err := json.Marshal(expense.Attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	lockQuery := `
        SELECT budget
        FROM financial_responsibilities
        WHERE responsibility_id = $1 AND deleted_at IS NULL
        FOR UPDATE;
    `
	var budget decimal.Decimal
	if err := tx.QueryRow(ctx, lockQuery, expense.ResponsibilityID).Scan(&budget); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, expense.ResponsibilityID)
		}
		return fmt.Errorf("failed to lock responsibility: %w", err)
	}

	sumQuery := `
        SELECT COALESCE(SUM(total), 0)
        FROM expenses
        WHERE responsibility_id = $1
          AND status != 'REJECTED'
          AND deleted_at IS NULL;
    `
	var spent decimal.Decimal
	if err := tx.QueryRow(ctx, sumQuery, expense.ResponsibilityID).Scan(&spent); err != nil {
		return fmt.Errorf("failed to sum existing expenses: %w", err)
	}

	if enforceCap && spent.Add(expense.Total).GreaterThan(budget) {
		return &apperrors.BudgetExceededError{
			Attempted:    expense.Total,
			CurrentSpent: spent,
			Budget:       budget,
		}
	}

	insertQuery := `
        INSERT INTO expenses (
            expense_id, vendor, invoice_number, date, created_at,
            line_items, tax, total, notes, category, status,
            submitted_by, responsibility_id, attachments
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
    `
	_, err = tx.Exec(ctx, insertQuery,
		expense.ExpenseID,
		expense.Vendor,
		expense.InvoiceNumber,
		expense.Date,
		expense.CreatedAt,
		lineItems,
		expense.Tax,
		expense.Total,
		expense.Notes,
		expense.Category,
		expense.Status,
		expense.SubmittedBy,
		expense.ResponsibilityID,
		attachments,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit expense: %w", err)
	}
	return nil
}

// UpdateExpenseStatus transitions a PENDING expense. The status guard is in
// the WHERE clause so a terminal expense can never be overwritten, even by
// two racing approvals.
func (r *ExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus) error {
	query := `
        UPDATE expenses SET status = $2
        WHERE expense_id = $1 AND status = 'PENDING' AND deleted_at IS NULL;
    `
	tag, err := r.db.Exec(ctx, query, expenseID, status)
	if err != nil {
		return fmt.Errorf("failed to update expense status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existsQuery := `SELECT EXISTS (SELECT 1 FROM expenses WHERE expense_id = $1 AND deleted_at IS NULL);`
		var exists bool
		if err := r.db.QueryRow(ctx, existsQuery, expenseID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check expense existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
		}
		return fmt.Errorf("%w: expense %s is not pending", apperrors.ErrConflict, expenseID)
	}
	return nil
}
