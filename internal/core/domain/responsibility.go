package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetModel governs how a responsibility's budget is held: one shared
// pool, or a pool pre-split into per-member allocations.
type BudgetModel string

const (
	ModelShared      BudgetModel = "SHARED"
	ModelDistributed BudgetModel = "DISTRIBUTED"
)

// AssigneeType discriminates the owner of a responsibility.
type AssigneeType string

const (
	AssigneeUser  AssigneeType = "user"
	AssigneeGroup AssigneeType = "group"
)

// Assignee is the single owner of a responsibility: exactly one user or
// one group.
type Assignee struct {
	Type AssigneeType `json:"type"`
	ID   string       `json:"id"`
}

// DistributedAllocation is one member's slice of a DISTRIBUTED budget.
type DistributedAllocation struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

// AllocationTolerance is the permitted absolute difference between the sum
// of distributed allocations and the responsibility budget.
var AllocationTolerance = decimal.NewFromFloat(0.001)

// Responsibility is a named budget envelope assigned to a user or group.
// Budget and History are mutated only through the budget engine; History
// is append-only.
type Responsibility struct {
	ResponsibilityID       string                  `json:"responsibilityID"`
	Name                   string                  `json:"name"`
	Budget                 decimal.Decimal         `json:"budget"`
	Model                  BudgetModel             `json:"model"`
	Assignee               Assignee                `json:"assignee"`
	DistributedAllocations []DistributedAllocation `json:"distributedAllocations,omitempty"`
	History                []string                `json:"history"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// AllocationsMatchBudget reports whether the distributed allocations sum to
// the budget within AllocationTolerance. Responsibilities on the SHARED
// model (or with no allocations to check) always pass.
func (r *Responsibility) AllocationsMatchBudget() bool {
	if r.Model != ModelDistributed {
		return true
	}
	sum := decimal.Zero
	for _, a := range r.DistributedAllocations {
		sum = sum.Add(a.Amount)
	}
	return sum.Sub(r.Budget).Abs().LessThanOrEqual(AllocationTolerance)
}
