package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
)

// validateBudgetModel accepts the SHARED and DISTRIBUTED budget models.
func validateBudgetModel(fl validator.FieldLevel) bool {
	switch domain.BudgetModel(fl.Field().String()) {
	case domain.ModelShared, domain.ModelDistributed:
		return true
	}
	return false
}

// RegisterCustomValidations wires the package's custom rules into gin's
// binding validator. Call once at startup.
func RegisterCustomValidations() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v.RegisterValidation("budgetmodel", validateBudgetModel)
	}
	return nil
}
