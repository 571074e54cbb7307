package dto

import (
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssigneeSpec identifies the single owner of a responsibility.
type AssigneeSpec struct {
	Type domain.AssigneeType `json:"type" binding:"required,oneof=user group"`
	ID   string              `json:"id" binding:"required"`
}

// AllocationSpec is one member's slice of a distributed budget.
type AllocationSpec struct {
	UserID string          `json:"userId" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateResponsibilityRequest defines the data needed to create a new
// budget envelope. DistributedAllocations is required to sum to Budget
// (within tolerance) when Model is DISTRIBUTED; the service re-validates.
type CreateResponsibilityRequest struct {
	Name                   string           `json:"name" binding:"required"`
	Budget                 decimal.Decimal  `json:"budget" binding:"required"`
	Model                  string           `json:"model" binding:"required,budgetmodel"`
	Assignee               AssigneeSpec     `json:"assignee" binding:"required"`
	DistributedAllocations []AllocationSpec `json:"distributedAllocations"`
}

// UpdateResponsibilityRequest defines the data allowed for updating an
// envelope. Use pointers to distinguish omitted fields from zero values.
type UpdateResponsibilityRequest struct {
	Name                   *string           `json:"name"`
	Budget                 *decimal.Decimal  `json:"budget"`
	Model                  *string           `json:"model" binding:"omitempty,budgetmodel"`
	Assignee               *AssigneeSpec     `json:"assignee"`
	DistributedAllocations *[]AllocationSpec `json:"distributedAllocations"`
}

// ReallocateBudgetRequest asks for a zero-sum transfer between envelopes.
type ReallocateBudgetRequest struct {
	FromID string          `json:"fromId" binding:"required"`
	ToID   string          `json:"toId" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ResponsibilityResponse defines the data returned for a responsibility.
type ResponsibilityResponse struct {
	ResponsibilityID       string                         `json:"id"`
	Name                   string                         `json:"name"`
	Budget                 decimal.Decimal                `json:"budget"`
	Model                  domain.BudgetModel             `json:"model"`
	Assignee               domain.Assignee                `json:"assignee"`
	DistributedAllocations []domain.DistributedAllocation `json:"distributedAllocations,omitempty"`
	History                []string                       `json:"history"`
}

// ReallocateBudgetResponse reports a successful transfer with the updated
// pair of envelopes, source first.
type ReallocateBudgetResponse struct {
	Success bool                     `json:"success"`
	Updated []ResponsibilityResponse `json:"updatedResponsibilities"`
}

// ToResponsibilityResponse converts a domain.Responsibility to its DTO.
func ToResponsibilityResponse(r *domain.Responsibility) ResponsibilityResponse {
	return ResponsibilityResponse{
		ResponsibilityID:       r.ResponsibilityID,
		Name:                   r.Name,
		Budget:                 r.Budget,
		Model:                  r.Model,
		Assignee:               r.Assignee,
		DistributedAllocations: r.DistributedAllocations,
		History:                r.History,
	}
}

// ToListResponsibilityResponse converts a slice of domain.Responsibility to DTOs.
func ToListResponsibilityResponse(resps []domain.Responsibility) []ResponsibilityResponse {
	res := make([]ResponsibilityResponse, len(resps))
	for i, r := range resps {
		res[i] = ToResponsibilityResponse(&r)
	}
	return res
}

// ToDomainAllocations converts allocation specs to domain values.
func ToDomainAllocations(specs []AllocationSpec) []domain.DistributedAllocation {
	if specs == nil {
		return nil
	}
	out := make([]domain.DistributedAllocation, len(specs))
	for i, s := range specs {
		out[i] = domain.DistributedAllocation{UserID: s.UserID, Amount: s.Amount}
	}
	return out
}
