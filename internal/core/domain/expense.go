package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus indicates where an expense sits in the approval flow.
// PENDING is the only initial state; APPROVED and REJECTED are terminal.
type ExpenseStatus string

const (
	StatusPending  ExpenseStatus = "PENDING"
	StatusApproved ExpenseStatus = "APPROVED"
	StatusRejected ExpenseStatus = "REJECTED"
)

// IsTerminal reports whether no further status transition is defined.
func (s ExpenseStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// LineItem is a single invoice line.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

// Attachment is a binary document embedded in the expense record. Data is
// an opaque encoded payload (base64 data URI as submitted by the client).
type Attachment struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Data     string `json:"data"`
}

// Expense is a submitted invoice drawing against a responsibility's budget.
// SubmittedBy and ResponsibilityID are immutable after creation; Status is
// mutated exactly once by a manager in the normal flow.
type Expense struct {
	ExpenseID        string          `json:"expenseID"`
	Vendor           string          `json:"vendor"`
	InvoiceNumber    string          `json:"invoiceNumber"`
	Date             time.Time       `json:"date"`      // Business/submission date
	CreatedAt        time.Time       `json:"createdAt"` // Server-assigned, authoritative for ordering
	LineItems        []LineItem      `json:"lineItems"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	Notes            string          `json:"notes"`
	Category         string          `json:"category"`
	Status           ExpenseStatus   `json:"status"`
	SubmittedBy      string          `json:"submittedBy"`      // UserID, immutable
	ResponsibilityID string          `json:"responsibilityId"` // Envelope drawn from, immutable
	Attachments      []Attachment    `json:"attachments,omitempty"`
	DeletedAt        *time.Time      `json:"deletedAt,omitempty"`
}

// Vendor is a supplier name registered the first time an expense cites it.
type Vendor struct {
	VendorID string `json:"vendorID"`
	Name     string `json:"name"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
