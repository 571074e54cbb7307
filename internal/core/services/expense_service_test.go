package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	"github.com/khalidalhothifi/expense-manager/internal/core/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
)

const (
	managerID  = "user-manager"
	employeeID = "user-employee"
	envelopeID = "resp-operations"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	f *engineFixture
}

func (s *ExpenseServiceTestSuite) SetupTest() {
	s.f = newEngineFixture()
	r := s.Require()
	s.f.seedUser(r, managerID, "Mona Manager", "mona@example.com", domain.RoleManager)
	s.f.seedUser(r, employeeID, "Evan Employee", "evan@example.com", domain.RoleUser)
	s.f.seedResponsibility(r, envelopeID, "Operations", decimal.NewFromInt(1000),
		domain.Assignee{Type: domain.AssigneeUser, ID: employeeID})
}

func (s *ExpenseServiceTestSuite) draft(total decimal.Decimal) dto.CreateExpenseRequest {
	return dto.CreateExpenseRequest{
		Vendor:           "Acme Supplies",
		InvoiceNumber:    "INV-1001",
		Date:             time.Now().UTC(),
		LineItems:        []dto.LineItemSpec{{Description: "Paper", Quantity: decimal.NewFromInt(1), Amount: total}},
		Total:            total,
		ResponsibilityID: envelopeID,
	}
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_Success() {
	ctx := context.Background()

	expense, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(400)), employeeID)

	s.Require().NoError(err)
	s.Require().NotNil(expense)
	s.Equal(domain.StatusPending, expense.Status)
	s.Equal(employeeID, expense.SubmittedBy)
	s.Equal(envelopeID, expense.ResponsibilityID)
	s.NotEmpty(expense.ExpenseID)
	s.False(expense.CreatedAt.IsZero())

	stored, err := s.f.expenses.GetExpenseByID(ctx, expense.ExpenseID)
	s.Require().NoError(err)
	s.True(stored.Total.Equal(decimal.NewFromInt(400)))
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_AutoRegistersVendor() {
	ctx := context.Background()

	_, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(100)), employeeID)
	s.Require().NoError(err)

	vendors, err := s.f.vendors.ListVendors(ctx)
	s.Require().NoError(err)
	s.Require().Len(vendors, 1)
	s.Equal("Acme Supplies", vendors[0].Name)

	// A second submission with a different casing must not duplicate it.
	req := s.draft(decimal.NewFromInt(100))
	req.Vendor = "ACME SUPPLIES"
	_, err = s.f.expenses.SubmitExpense(ctx, req, employeeID)
	s.Require().NoError(err)

	vendors, err = s.f.vendors.ListVendors(ctx)
	s.Require().NoError(err)
	s.Len(vendors, 1)
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_NotifiesManagers() {
	ctx := context.Background()

	_, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(250)), employeeID)
	s.Require().NoError(err)

	calls := s.f.notifier.byTrigger(domain.TriggerNewInvoice)
	s.Require().Len(calls, 1)
	s.Equal([]string{"mona@example.com"}, calls[0].Recipients)
	s.Equal("Acme Supplies", calls[0].Variables["vendor"])
	s.Equal("250.00", calls[0].Variables["total"])
	s.Equal("Evan Employee", calls[0].Variables["userName"])
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_BudgetExceeded() {
	ctx := context.Background()

	_, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(1200)), employeeID)

	var exceeded *apperrors.BudgetExceededError
	s.Require().ErrorAs(err, &exceeded)
	s.True(exceeded.Attempted.Equal(decimal.NewFromInt(1200)))
	s.True(exceeded.CurrentSpent.IsZero())
	s.True(exceeded.Budget.Equal(decimal.NewFromInt(1000)))

	expenses, err := s.f.expenses.ListExpenses(ctx)
	s.Require().NoError(err)
	s.Empty(expenses)
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_PendingCountsAgainstBudget() {
	ctx := context.Background()

	_, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(700)), employeeID)
	s.Require().NoError(err)

	_, err = s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(400)), employeeID)

	var exceeded *apperrors.BudgetExceededError
	s.Require().ErrorAs(err, &exceeded)
	s.True(exceeded.CurrentSpent.Equal(decimal.NewFromInt(700)))
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_ExactBudgetAllowed() {
	ctx := context.Background()

	_, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(600)), employeeID)
	s.Require().NoError(err)

	// Consumption lands exactly on the cap; the boundary is inclusive.
	_, err = s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(400)), employeeID)
	s.Require().NoError(err)

	_, err = s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromFloat(0.01)), employeeID)
	var exceeded *apperrors.BudgetExceededError
	s.Require().ErrorAs(err, &exceeded)
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_ManagerOverridesCap() {
	ctx := context.Background()

	expense, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(1500)), managerID)

	s.Require().NoError(err)
	s.Equal(domain.StatusPending, expense.Status)
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_RejectedExpensesFreeBudget() {
	ctx := context.Background()

	first, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(800)), employeeID)
	s.Require().NoError(err)

	_, err = s.f.expenses.UpdateExpenseStatus(ctx, first.ExpenseID, domain.StatusRejected, managerID)
	s.Require().NoError(err)

	// The rejected expense no longer consumes the envelope.
	_, err = s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(900)), employeeID)
	s.Require().NoError(err)
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_NegativeTotal() {
	ctx := context.Background()

	_, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(-5)), employeeID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_UnknownResponsibility() {
	ctx := context.Background()

	req := s.draft(decimal.NewFromInt(10))
	req.ResponsibilityID = "resp-missing"
	_, err := s.f.expenses.SubmitExpense(ctx, req, employeeID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ExpenseServiceTestSuite) TestSubmitExpense_ThresholdWarning() {
	ctx := context.Background()

	_, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(500)), employeeID)
	s.Require().NoError(err)
	s.Empty(s.f.notifier.byTrigger(domain.TriggerBudgetThreshold))

	_, err = s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(300)), employeeID)
	s.Require().NoError(err)

	warnings := s.f.notifier.byTrigger(domain.TriggerBudgetThreshold)
	s.Require().Len(warnings, 1)
	s.Equal("Operations", warnings[0].Variables["responsibilityName"])
	s.Equal("80", warnings[0].Variables["usagePercentage"])
}

func (s *ExpenseServiceTestSuite) TestUpdateExpenseStatus_Approve() {
	ctx := context.Background()

	expense, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(300)), employeeID)
	s.Require().NoError(err)

	updated, err := s.f.expenses.UpdateExpenseStatus(ctx, expense.ExpenseID, domain.StatusApproved, managerID)

	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, updated.Status)

	calls := s.f.notifier.byTrigger(domain.TriggerExpenseApproved)
	s.Require().Len(calls, 1)
	s.Equal([]string{"evan@example.com"}, calls[0].Recipients)
	s.Equal("300.00", calls[0].Variables["total"])
}

func (s *ExpenseServiceTestSuite) TestUpdateExpenseStatus_RejectNotifiesSubmitter() {
	ctx := context.Background()

	expense, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(300)), employeeID)
	s.Require().NoError(err)

	_, err = s.f.expenses.UpdateExpenseStatus(ctx, expense.ExpenseID, domain.StatusRejected, managerID)
	s.Require().NoError(err)

	calls := s.f.notifier.byTrigger(domain.TriggerExpenseRejected)
	s.Require().Len(calls, 1)
	s.Equal([]string{"evan@example.com"}, calls[0].Recipients)
}

func (s *ExpenseServiceTestSuite) TestUpdateExpenseStatus_NonManagerForbidden() {
	ctx := context.Background()

	expense, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(100)), employeeID)
	s.Require().NoError(err)

	_, err = s.f.expenses.UpdateExpenseStatus(ctx, expense.ExpenseID, domain.StatusApproved, employeeID)

	s.Require().ErrorIs(err, apperrors.ErrForbidden)

	stored, err := s.f.expenses.GetExpenseByID(ctx, expense.ExpenseID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, stored.Status)
}

func (s *ExpenseServiceTestSuite) TestUpdateExpenseStatus_TerminalIsConflict() {
	ctx := context.Background()

	expense, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(100)), employeeID)
	s.Require().NoError(err)

	_, err = s.f.expenses.UpdateExpenseStatus(ctx, expense.ExpenseID, domain.StatusApproved, managerID)
	s.Require().NoError(err)

	_, err = s.f.expenses.UpdateExpenseStatus(ctx, expense.ExpenseID, domain.StatusRejected, managerID)
	s.Require().ErrorIs(err, apperrors.ErrConflict)

	stored, err := s.f.expenses.GetExpenseByID(ctx, expense.ExpenseID)
	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, stored.Status)
}

func (s *ExpenseServiceTestSuite) TestUpdateExpenseStatus_InvalidTarget() {
	ctx := context.Background()

	expense, err := s.f.expenses.SubmitExpense(ctx, s.draft(decimal.NewFromInt(100)), employeeID)
	s.Require().NoError(err)

	_, err = s.f.expenses.UpdateExpenseStatus(ctx, expense.ExpenseID, domain.StatusPending, managerID)
	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), services.ErrUndefinedStatus.Error())
}

func (s *ExpenseServiceTestSuite) TestUpdateExpenseStatus_NotFound() {
	ctx := context.Background()

	_, err := s.f.expenses.UpdateExpenseStatus(ctx, "exp-missing", domain.StatusApproved, managerID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
