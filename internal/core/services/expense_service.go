package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
	"github.com/khalidalhothifi/expense-manager/internal/middleware"
)

var (
	ErrNegativeAmount    = errors.New("expense amounts must not be negative")
	ErrStatusNotPending  = errors.New("expense status can only change while pending")
	ErrUndefinedStatus   = errors.New("expense status must be APPROVED or REJECTED")
	ErrSubmitterNotFound = errors.New("submitting user not found")
)

// budgetThresholdRatio is the consumption share of an envelope's budget at
// which managers receive a warning notification.
var budgetThresholdRatio = decimal.NewFromFloat(0.8)

// expenseService implements the expense side of the budget engine:
// submission against the envelope cap and the approval state machine.
type expenseService struct {
	expenseRepo portsrepo.ExpenseRepositoryFacade
	respRepo    portsrepo.ResponsibilityRepositoryFacade
	userSvc     portssvc.UserReaderSvc
	vendorSvc   portssvc.VendorSvcFacade
	notifier    portssvc.NotifierSvcFacade
}

// NewExpenseService creates the expense service.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	respRepo portsrepo.ResponsibilityRepositoryFacade,
	userSvc portssvc.UserReaderSvc,
	vendorSvc portssvc.VendorSvcFacade,
	notifier portssvc.NotifierSvcFacade,
) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
		respRepo:    respRepo,
		userSvc:     userSvc,
		vendorSvc:   vendorSvc,
		notifier:    notifier,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// SubmitExpense validates the draft against the target responsibility's
// budget and persists it with status PENDING. The consumption aggregate and
// the insert run as one atomic unit in the repository, so concurrent
// submissions against the same envelope cannot jointly overshoot the cap.
// Managers may exceed the cap (manual exception path); regular users are
// rejected with the figures the UI needs to explain the rejection.
func (s *expenseService) SubmitExpense(ctx context.Context, req dto.CreateExpenseRequest, submitterID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	submitter, err := s.userSvc.GetUserByID(ctx, submitterID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSubmitterNotFound, submitterID)
		}
		return nil, fmt.Errorf("failed to resolve submitter: %w", err)
	}

	if req.Total.IsNegative() || req.Tax.IsNegative() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNegativeAmount)
	}
	for _, item := range req.LineItems {
		if item.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNegativeAmount)
		}
	}

	resp, err := s.respRepo.FindResponsibilityByID(ctx, req.ResponsibilityID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch responsibility for submission", slog.String("error", err.Error()), slog.String("responsibility_id", req.ResponsibilityID))
		}
		return nil, fmt.Errorf("failed to find responsibility %s: %w", req.ResponsibilityID, err)
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:        "exp-" + uuid.NewString(),
		Vendor:           req.Vendor,
		InvoiceNumber:    req.InvoiceNumber,
		Date:             req.Date,
		CreatedAt:        now,
		LineItems:        dto.ToDomainLineItems(req.LineItems),
		Tax:              req.Tax,
		Total:            req.Total,
		Notes:            req.Notes,
		Category:         req.Category,
		Status:           domain.StatusPending,
		SubmittedBy:      submitter.UserID,
		ResponsibilityID: resp.ResponsibilityID,
		Attachments:      dto.ToDomainAttachments(req.Attachments),
	}

	// The cap is hard for regular users and advisory for managers.
	enforceCap := !submitter.IsManager()
	if err := s.expenseRepo.SaveExpense(ctx, expense, enforceCap); err != nil {
		var bex *apperrors.BudgetExceededError
		if errors.As(err, &bex) {
			logger.Warn("Expense rejected by budget cap",
				slog.String("responsibility_id", resp.ResponsibilityID),
				slog.String("attempted", bex.Attempted.String()),
				slog.String("current_spent", bex.CurrentSpent.String()),
				slog.String("budget", bex.Budget.String()))
			return nil, err
		}
		logger.Error("Failed to save expense", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	// Vendor registration mirrors the submission form's behavior; a failure
	// here must not undo a committed expense.
	if err := s.vendorSvc.EnsureVendor(ctx, req.Vendor, submitter.UserID); err != nil {
		logger.Warn("Failed to register vendor for submitted expense", slog.String("vendor", req.Vendor), slog.String("error", err.Error()))
	}

	s.notifyManagers(ctx, domain.TriggerNewInvoice, map[string]string{
		"vendor":   expense.Vendor,
		"total":    expense.Total.StringFixed(2),
		"userName": submitter.Name,
	})
	s.warnOnBudgetThreshold(ctx, resp)

	logger.Info("Expense submitted successfully", slog.String("expense_id", expense.ExpenseID), slog.String("responsibility_id", resp.ResponsibilityID))
	return &expense, nil
}

// UpdateExpenseStatus transitions a PENDING expense to APPROVED or REJECTED.
// Terminal states accept no further transitions. Only managers may approve
// or reject.
func (s *expenseService) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, actorID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if status != domain.StatusApproved && status != domain.StatusRejected {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrUndefinedStatus)
	}

	actor, err := s.userSvc.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}
	if !actor.IsManager() {
		logger.Warn("Non-manager attempted expense status change", slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("%w: only managers may approve or reject expenses", apperrors.ErrForbidden)
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find expense for status update", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	if expense.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrStatusNotPending)
	}

	if err := s.expenseRepo.UpdateExpenseStatus(ctx, expenseID, status); err != nil {
		logger.Error("Failed to update expense status", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to update expense status: %w", err)
	}
	expense.Status = status

	trigger := domain.TriggerExpenseApproved
	if status == domain.StatusRejected {
		trigger = domain.TriggerExpenseRejected
	}
	if submitter, err := s.userSvc.GetUserByID(ctx, expense.SubmittedBy); err != nil {
		logger.Warn("Submitter not found for status notification", slog.String("submitted_by", expense.SubmittedBy))
	} else {
		s.notifier.Send(ctx, trigger, map[string]string{
			"vendor": expense.Vendor,
			"total":  expense.Total.StringFixed(2),
		}, []string{submitter.Email})
	}

	logger.Info("Expense status updated", slog.String("expense_id", expenseID), slog.String("status", string(status)))
	return expense, nil
}

// GetExpenseByID retrieves an expense by ID.
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	return expense, nil
}

// ListExpenses retrieves all expenses, newest first.
func (s *expenseService) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	expenses, err := s.expenseRepo.ListExpenses(ctx)
	if err != nil {
		logger.Error("Failed to list expenses", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

// notifyManagers sends the trigger to every manager's email address.
func (s *expenseService) notifyManagers(ctx context.Context, trigger domain.NotificationTrigger, variables map[string]string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	managers, err := s.userSvc.ListManagers(ctx)
	if err != nil {
		logger.Warn("Failed to list managers for notification", slog.String("trigger", string(trigger)), slog.String("error", err.Error()))
		return
	}
	emails := make([]string, 0, len(managers))
	for _, m := range managers {
		emails = append(emails, m.Email)
	}
	s.notifier.Send(ctx, trigger, variables, emails)
}

// warnOnBudgetThreshold notifies managers when an envelope's consumption
// crosses the warning ratio after a submission.
func (s *expenseService) warnOnBudgetThreshold(ctx context.Context, resp *domain.Responsibility) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if !resp.Budget.IsPositive() {
		return
	}
	spent, err := s.expenseRepo.SumNonRejectedExpenses(ctx, resp.ResponsibilityID)
	if err != nil {
		logger.Warn("Failed to compute consumption for threshold check", slog.String("responsibility_id", resp.ResponsibilityID), slog.String("error", err.Error()))
		return
	}
	usage := spent.Div(resp.Budget)
	if usage.LessThan(budgetThresholdRatio) {
		return
	}
	s.notifyManagers(ctx, domain.TriggerBudgetThreshold, map[string]string{
		"responsibilityName": resp.Name,
		"usagePercentage":    usage.Mul(decimal.NewFromInt(100)).Round(0).String(),
	})
}
