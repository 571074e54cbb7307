package dto

import (
	"time"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemSpec is one invoice line of an expense draft.
type LineItemSpec struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// AttachmentSpec is a binary document reference submitted with a draft.
type AttachmentSpec struct {
	FileName string `json:"fileName" binding:"required"`
	FileType string `json:"fileType" binding:"required"`
	Data     string `json:"data" binding:"required"`
}

// CreateExpenseRequest is a complete expense draft. The engine trusts the
// submitted total for budget-consumption arithmetic.
type CreateExpenseRequest struct {
	Vendor           string           `json:"vendor" binding:"required"`
	InvoiceNumber    string           `json:"invoiceNumber"`
	Date             time.Time        `json:"date" binding:"required"`
	LineItems        []LineItemSpec   `json:"lineItems" binding:"required,min=1,dive"`
	Tax              decimal.Decimal  `json:"tax"`
	Total            decimal.Decimal  `json:"total" binding:"required"`
	Notes            string           `json:"notes"`
	Category         string           `json:"category"`
	ResponsibilityID string           `json:"responsibilityId" binding:"required"`
	Attachments      []AttachmentSpec `json:"attachments"`
}

// UpdateExpenseStatusRequest asks for a status transition on a pending expense.
type UpdateExpenseStatusRequest struct {
	Status domain.ExpenseStatus `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID        string               `json:"id"`
	Vendor           string               `json:"vendor"`
	InvoiceNumber    string               `json:"invoiceNumber"`
	Date             time.Time            `json:"date"`
	CreatedAt        time.Time            `json:"createdAt"`
	LineItems        []domain.LineItem    `json:"lineItems"`
	Tax              decimal.Decimal      `json:"tax"`
	Total            decimal.Decimal      `json:"total"`
	Notes            string               `json:"notes"`
	Category         string               `json:"category"`
	Status           domain.ExpenseStatus `json:"status"`
	SubmittedBy      string               `json:"submittedBy"`
	ResponsibilityID string               `json:"responsibilityId"`
	Attachments      []domain.Attachment  `json:"attachments,omitempty"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:        e.ExpenseID,
		Vendor:           e.Vendor,
		InvoiceNumber:    e.InvoiceNumber,
		Date:             e.Date,
		CreatedAt:        e.CreatedAt,
		LineItems:        e.LineItems,
		Tax:              e.Tax,
		Total:            e.Total,
		Notes:            e.Notes,
		Category:         e.Category,
		Status:           e.Status,
		SubmittedBy:      e.SubmittedBy,
		ResponsibilityID: e.ResponsibilityID,
		Attachments:      e.Attachments,
	}
}

// ToListExpenseResponse converts a slice of domain.Expense to DTOs.
func ToListExpenseResponse(expenses []domain.Expense) []ExpenseResponse {
	res := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		res[i] = ToExpenseResponse(&e)
	}
	return res
}

// ToDomainLineItems converts line item specs to domain values.
func ToDomainLineItems(specs []LineItemSpec) []domain.LineItem {
	out := make([]domain.LineItem, len(specs))
	for i, s := range specs {
		out[i] = domain.LineItem{Description: s.Description, Quantity: s.Quantity, Amount: s.Amount}
	}
	return out
}

// ToDomainAttachments converts attachment specs to domain values.
func ToDomainAttachments(specs []AttachmentSpec) []domain.Attachment {
	if specs == nil {
		return nil
	}
	out := make([]domain.Attachment, len(specs))
	for i, s := range specs {
		out[i] = domain.Attachment{FileName: s.FileName, FileType: s.FileType, Data: s.Data}
	}
	return out
}
