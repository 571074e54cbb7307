package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the acting user lacks the role required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation is not valid for the resource's current state.
var ErrConflict = errors.New("conflict with current state")

// BudgetExceededError is the business-rule rejection returned when a
// submission would push an envelope's consumption past its budget. It
// carries the figures the caller needs to render a meaningful message.
type BudgetExceededError struct {
	Attempted    decimal.Decimal
	CurrentSpent decimal.Decimal
	Budget       decimal.Decimal
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("budget exceeded: this expense (%s) exceeds the remaining budget. Current spent: %s, Budget: %s",
		e.Attempted.StringFixed(2), e.CurrentSpent.StringFixed(2), e.Budget.StringFixed(2))
}

// InsufficientFundsError is returned when a reallocation asks for more than
// the source envelope holds.
type InsufficientFundsError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: requested %s but only %s is available",
		e.Requested.StringFixed(2), e.Available.StringFixed(2))
}
