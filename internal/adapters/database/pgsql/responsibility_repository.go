package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
)

type ResponsibilityRepository struct {
	db *pgxpool.Pool
}

func NewResponsibilityRepository(db *pgxpool.Pool) *ResponsibilityRepository {
	return &ResponsibilityRepository{db: db}
}

var _ portsrepo.ResponsibilityRepositoryFacade = (*ResponsibilityRepository)(nil)

const responsibilityColumns = `
	responsibility_id, name, budget, model, assignee_type, assignee_id,
	distributed_allocations, history,
	created_at, created_by, last_updated_at, last_updated_by`

func scanResponsibility(row pgx.Row) (*domain.Responsibility, error) {
	var resp domain.Responsibility
	var allocations []byte
	err := row.Scan(
		&resp.ResponsibilityID,
		&resp.Name,
		&resp.Budget,
		&resp.Model,
		&resp.Assignee.Type,
		&resp.Assignee.ID,
		&allocations,
		&resp.History,
		&resp.CreatedAt,
		&resp.CreatedBy,
		&resp.LastUpdatedAt,
		&resp.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(allocations) > 0 {
		if err := json.Unmarshal(allocations, &resp.DistributedAllocations); err != nil {
			return nil, fmt.Errorf("failed to decode allocations: %w", err)
		}
	}
	return &resp, nil
}

func (r *ResponsibilityRepository) FindResponsibilityByID(ctx context.Context, responsibilityID string) (*domain.Responsibility, error) {
	query := `
        SELECT ` + responsibilityColumns + `
        FROM financial_responsibilities
        WHERE responsibility_id = $1 AND deleted_at IS NULL;
    `
	resp, err := scanResponsibility(r.db.QueryRow(ctx, query, responsibilityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, responsibilityID)
		}
		return nil, fmt.Errorf("failed to find responsibility by ID: %w", err)
	}
	return resp, nil
}

func (r *ResponsibilityRepository) ListResponsibilities(ctx context.Context) ([]domain.Responsibility, error) {
	query := `
        SELECT ` + responsibilityColumns + `
        FROM financial_responsibilities
        WHERE deleted_at IS NULL
        ORDER BY name ASC;
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query responsibilities: %w", err)
	}
	defer rows.Close()

	responsibilities := []domain.Responsibility{}
	for rows.Next() {
		resp, err := scanResponsibility(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan responsibility row: %w", err)
		}
		responsibilities = append(responsibilities, *resp)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating responsibility rows: %w", rows.Err())
	}
	return responsibilities, nil
}

func (r *ResponsibilityRepository) SaveResponsibility(ctx context.Context, resp domain.Responsibility) error {
	allocations, err := json.Marshal(resp.DistributedAllocations)
	if err != nil {
		return fmt.Errorf("failed to encode allocations: %w", err)
	}

	query := `
        INSERT INTO financial_responsibilities (
            responsibility_id, name, budget, model, assignee_type, assignee_id,
            distributed_allocations, history,
            created_at, created_by, last_updated_at, last_updated_by
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err = r.db.Exec(ctx, query,
		resp.ResponsibilityID,
		resp.Name,
		resp.Budget,
		resp.Model,
		resp.Assignee.Type,
		resp.Assignee.ID,
		allocations,
		resp.History,
		resp.CreatedAt,
		resp.CreatedBy,
		resp.LastUpdatedAt,
		resp.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save responsibility: %w", err)
	}
	return nil
}

// UpdateResponsibility persists field changes and appends one history line
// in the same statement, preserving the append-only history contract.
func (r *ResponsibilityRepository) UpdateResponsibility(ctx context.Context, resp domain.Responsibility, historyLine string) error {
	allocations, err := json.Marshal(resp.DistributedAllocations)
	if err != nil {
		return fmt.Errorf("failed to encode allocations: %w", err)
	}

	query := `
        UPDATE financial_responsibilities SET
            name = $2,
            budget = $3,
            model = $4,
            assignee_type = $5,
            assignee_id = $6,
            distributed_allocations = $7,
            history = array_append(history, $8),
            last_updated_at = $9,
            last_updated_by = $10
        WHERE responsibility_id = $1 AND deleted_at IS NULL;
    `
	tag, err := r.db.Exec(ctx, query,
		resp.ResponsibilityID,
		resp.Name,
		resp.Budget,
		resp.Model,
		resp.Assignee.Type,
		resp.Assignee.ID,
		allocations,
		historyLine,
		resp.LastUpdatedAt,
		resp.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update responsibility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, resp.ResponsibilityID)
	}
	return nil
}

// TransferBudget moves amount between two envelopes in one transaction. The
// source row is locked and re-checked against the amount inside the
// transaction, so concurrent transfers cannot drive a budget negative.
func (r *ResponsibilityRepository) TransferBudget(ctx context.Context, fromID, toID string, amount decimal.Decimal, fromLine, toLine string) ([]domain.Responsibility, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Lock both rows in a stable order to avoid deadlocks between opposing
	// transfers.
	lockQuery := `
        SELECT responsibility_id, budget
        FROM financial_responsibilities
        WHERE responsibility_id = ANY($1) AND deleted_at IS NULL
        ORDER BY responsibility_id
        FOR UPDATE;
    `
	rows, err := tx.Query(ctx, lockQuery, []string{fromID, toID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock responsibilities: %w", err)
	}
	budgets := map[string]decimal.Decimal{}
	for rows.Next() {
		var id string
		var budget decimal.Decimal
		if err := rows.Scan(&id, &budget); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan locked row: %w", err)
		}
		budgets[id] = budget
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating locked rows: %w", rows.Err())
	}

	fromBudget, ok := budgets[fromID]
	if !ok {
		return nil, fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, fromID)
	}
	if _, ok := budgets[toID]; !ok {
		return nil, fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, toID)
	}
	if fromBudget.LessThan(amount) {
		return nil, &apperrors.InsufficientFundsError{Requested: amount, Available: fromBudget}
	}

	updateQuery := `
        UPDATE financial_responsibilities SET
            budget = budget + $2,
            history = array_append(history, $3),
            last_updated_at = $4
        WHERE responsibility_id = $1;
    `
	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, updateQuery, fromID, amount.Neg(), fromLine, now); err != nil {
		return nil, fmt.Errorf("failed to debit source responsibility: %w", err)
	}
	if _, err := tx.Exec(ctx, updateQuery, toID, amount, toLine, now); err != nil {
		return nil, fmt.Errorf("failed to credit target responsibility: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transfer: %w", err)
	}

	from, err := r.FindResponsibilityByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := r.FindResponsibilityByID(ctx, toID)
	if err != nil {
		return nil, err
	}
	return []domain.Responsibility{*from, *to}, nil
}

func (r *ResponsibilityRepository) MarkResponsibilityDeleted(ctx context.Context, responsibilityID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE financial_responsibilities SET
            deleted_at = $2,
            last_updated_at = $2,
            last_updated_by = $3
        WHERE responsibility_id = $1 AND deleted_at IS NULL;
    `
	tag, err := r.db.Exec(ctx, query, responsibilityID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete responsibility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, responsibilityID)
	}
	return nil
}
