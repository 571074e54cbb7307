package services

import (
	"context"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
)

// ResponsibilityReaderSvc defines read operations for responsibility data.
type ResponsibilityReaderSvc interface {
	// GetResponsibilityByID retrieves a responsibility by ID.
	GetResponsibilityByID(ctx context.Context, responsibilityID string) (*domain.Responsibility, error)

	// ListResponsibilities retrieves all responsibilities, name ascending.
	ListResponsibilities(ctx context.Context) ([]domain.Responsibility, error)
}

// ResponsibilityWriterSvc defines the budget-engine operations on
// responsibilities.
type ResponsibilityWriterSvc interface {
	// CreateResponsibility creates a new budget envelope, seeds its history
	// and notifies the assignee(s).
	CreateResponsibility(ctx context.Context, req dto.CreateResponsibilityRequest, creatorID string) (*domain.Responsibility, error)

	// UpdateResponsibility applies field changes and appends exactly one
	// history line.
	UpdateResponsibility(ctx context.Context, responsibilityID string, req dto.UpdateResponsibilityRequest, editorID string) (*domain.Responsibility, error)

	// ReallocateBudget atomically moves amount between two envelopes,
	// conserving the total. Only managers may call it. On success it
	// returns the updated pair, source first.
	ReallocateBudget(ctx context.Context, req dto.ReallocateBudgetRequest, actorID string) ([]domain.Responsibility, error)

	// DeleteResponsibility soft-deletes an envelope. The engine's own
	// operations never hard-delete.
	DeleteResponsibility(ctx context.Context, responsibilityID string, actorID string) error
}

// ResponsibilitySvcFacade combines all responsibility-related service interfaces.
type ResponsibilitySvcFacade interface {
	ResponsibilityReaderSvc
	ResponsibilityWriterSvc
}
