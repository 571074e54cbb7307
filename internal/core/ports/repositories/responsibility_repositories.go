package repositories

import (
	"context"
	"time"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ResponsibilityReader defines read operations for responsibility data.
type ResponsibilityReader interface {
	// FindResponsibilityByID retrieves a specific responsibility by its ID.
	// Returns apperrors.ErrNotFound when absent or soft-deleted.
	FindResponsibilityByID(ctx context.Context, responsibilityID string) (*domain.Responsibility, error)

	// ListResponsibilities retrieves all non-deleted responsibilities, name ascending.
	ListResponsibilities(ctx context.Context) ([]domain.Responsibility, error)
}

// ResponsibilityWriter defines write operations for responsibility data.
// History is append-only: implementations must only ever add lines.
type ResponsibilityWriter interface {
	// SaveResponsibility persists a new responsibility, including its seeded history.
	SaveResponsibility(ctx context.Context, resp domain.Responsibility) error

	// UpdateResponsibility persists field changes and appends exactly one
	// history line in the same write.
	UpdateResponsibility(ctx context.Context, resp domain.Responsibility, historyLine string) error

	// TransferBudget atomically moves amount from one responsibility to the
	// other, appending one history line to each side. It fails as a unit:
	// apperrors.ErrNotFound if either side is missing, or
	// *apperrors.InsufficientFundsError if the source budget is short.
	// On success it returns the updated pair, source first.
	TransferBudget(ctx context.Context, fromID, toID string, amount decimal.Decimal, fromLine, toLine string) ([]domain.Responsibility, error)
}

// ResponsibilityLifecycleManager defines soft-delete operations.
type ResponsibilityLifecycleManager interface {
	// MarkResponsibilityDeleted marks a responsibility as deleted (soft delete).
	MarkResponsibilityDeleted(ctx context.Context, responsibilityID string, deletedAt time.Time, deletedBy string) error
}

// ResponsibilityRepositoryFacade combines all responsibility-related repository interfaces.
type ResponsibilityRepositoryFacade interface {
	ResponsibilityReader
	ResponsibilityWriter
	ResponsibilityLifecycleManager
}
