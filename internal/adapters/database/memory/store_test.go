package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
)

func seedResponsibility(t *testing.T, s *Store, id string, budget int64) {
	t.Helper()
	now := time.Now().UTC()
	err := s.SaveResponsibility(context.Background(), domain.Responsibility{
		ResponsibilityID: id,
		Name:             id,
		Budget:           decimal.NewFromInt(budget),
		Model:            domain.ModelShared,
		Assignee:         domain.Assignee{Type: domain.AssigneeUser, ID: "user-1"},
		History:          []string{"seeded"},
		AuditFields:      domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	})
	require.NoError(t, err)
}

func pendingExpense(id, responsibilityID string, total int64) domain.Expense {
	now := time.Now().UTC()
	return domain.Expense{
		ExpenseID:        id,
		Vendor:           "Acme Supplies",
		InvoiceNumber:    "INV-" + id,
		Date:             now,
		CreatedAt:        now,
		Total:            decimal.NewFromInt(total),
		Status:           domain.StatusPending,
		SubmittedBy:      "user-1",
		ResponsibilityID: responsibilityID,
	}
}

func TestSaveExpense_ConcurrentSubmissionsNeverOverspend(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedResponsibility(t, s, "resp-1", 1000)

	// 20 goroutines each submit a 200 expense against a 1000 budget.
	// Exactly 5 may land, whatever the interleaving.
	const workers = 20
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.SaveExpense(ctx, pendingExpense(fmt.Sprintf("exp-%d", i), "resp-1", 200), true)
		}(i)
	}
	wg.Wait()

	var succeeded, capped int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var exceededErr *apperrors.BudgetExceededError
		require.ErrorAs(t, err, &exceededErr)
		capped++
	}
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, workers-5, capped)

	sum, err := s.SumNonRejectedExpenses(ctx, "resp-1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(1000)), "sum = %s", sum)
}

func TestSaveExpense_CapBypassedWhenNotEnforced(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedResponsibility(t, s, "resp-1", 100)

	require.NoError(t, s.SaveExpense(ctx, pendingExpense("exp-1", "resp-1", 500), false))

	sum, err := s.SumNonRejectedExpenses(ctx, "resp-1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(500)))
}

func TestSaveExpense_UnknownResponsibility(t *testing.T) {
	s := NewStore()

	err := s.SaveExpense(context.Background(), pendingExpense("exp-1", "resp-missing", 10), true)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSumNonRejectedExpenses_ExcludesRejected(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedResponsibility(t, s, "resp-1", 1000)

	require.NoError(t, s.SaveExpense(ctx, pendingExpense("exp-1", "resp-1", 400), true))
	require.NoError(t, s.SaveExpense(ctx, pendingExpense("exp-2", "resp-1", 300), true))
	require.NoError(t, s.UpdateExpenseStatus(ctx, "exp-2", domain.StatusRejected))

	sum, err := s.SumNonRejectedExpenses(ctx, "resp-1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(400)))
}

func TestUpdateExpenseStatus_OnlyFromPending(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedResponsibility(t, s, "resp-1", 1000)
	require.NoError(t, s.SaveExpense(ctx, pendingExpense("exp-1", "resp-1", 100), true))

	require.NoError(t, s.UpdateExpenseStatus(ctx, "exp-1", domain.StatusApproved))

	// Terminal statuses do not transition again.
	err := s.UpdateExpenseStatus(ctx, "exp-1", domain.StatusRejected)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := s.FindExpenseByID(ctx, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)
}

func TestUpdateExpenseStatus_NotFound(t *testing.T) {
	s := NewStore()

	err := s.UpdateExpenseStatus(context.Background(), "exp-missing", domain.StatusApproved)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTransferBudget_MovesFundsAndAppendsHistory(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedResponsibility(t, s, "resp-a", 1000)
	seedResponsibility(t, s, "resp-b", 500)

	updated, err := s.TransferBudget(ctx, "resp-a", "resp-b", decimal.NewFromInt(250), "out-line", "in-line")

	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, "resp-a", updated[0].ResponsibilityID)
	assert.True(t, updated[0].Budget.Equal(decimal.NewFromInt(750)))
	assert.True(t, updated[1].Budget.Equal(decimal.NewFromInt(750)))
	assert.Equal(t, []string{"seeded", "out-line"}, updated[0].History)
	assert.Equal(t, []string{"seeded", "in-line"}, updated[1].History)
}

func TestTransferBudget_InsufficientFunds(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedResponsibility(t, s, "resp-a", 100)
	seedResponsibility(t, s, "resp-b", 500)

	_, err := s.TransferBudget(ctx, "resp-a", "resp-b", decimal.NewFromInt(200), "out", "in")

	var insErr *apperrors.InsufficientFundsError
	require.ErrorAs(t, err, &insErr)
	assert.True(t, insErr.Available.Equal(decimal.NewFromInt(100)))

	// Nothing moved.
	src, err := s.FindResponsibilityByID(ctx, "resp-a")
	require.NoError(t, err)
	assert.True(t, src.Budget.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, []string{"seeded"}, src.History)
}

func TestTransferBudget_UnknownEnvelope(t *testing.T) {
	s := NewStore()
	seedResponsibility(t, s, "resp-a", 100)

	_, err := s.TransferBudget(context.Background(), "resp-a", "resp-missing", decimal.NewFromInt(10), "out", "in")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMarkResponsibilityDeleted_HidesFromReads(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedResponsibility(t, s, "resp-a", 100)

	require.NoError(t, s.MarkResponsibilityDeleted(ctx, "resp-a", time.Now().UTC(), "user-1"))

	_, err := s.FindResponsibilityByID(ctx, "resp-a")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list, err := s.ListResponsibilities(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
