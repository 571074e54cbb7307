package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
	"github.com/khalidalhothifi/expense-manager/internal/middleware"
)

var (
	ErrSameEnvelope       = errors.New("cannot reallocate between an envelope and itself")
	ErrNonPositiveAmount  = errors.New("reallocation amount must be positive")
	ErrNegativeBudget     = errors.New("budget must not be negative")
	ErrAllocationMismatch = errors.New("distributed allocations must sum to the budget")
)

// responsibilityService implements the envelope side of the budget engine:
// creation, edits and zero-sum reallocations, each appending exactly one
// history line per committed mutation.
type responsibilityService struct {
	respRepo portsrepo.ResponsibilityRepositoryFacade
	userSvc  portssvc.UserReaderSvc
	groupSvc portssvc.GroupSvcFacade
	notifier portssvc.NotifierSvcFacade
}

// NewResponsibilityService creates the responsibility service.
func NewResponsibilityService(
	respRepo portsrepo.ResponsibilityRepositoryFacade,
	userSvc portssvc.UserReaderSvc,
	groupSvc portssvc.GroupSvcFacade,
	notifier portssvc.NotifierSvcFacade,
) portssvc.ResponsibilitySvcFacade {
	return &responsibilityService{
		respRepo: respRepo,
		userSvc:  userSvc,
		groupSvc: groupSvc,
		notifier: notifier,
	}
}

var _ portssvc.ResponsibilitySvcFacade = (*responsibilityService)(nil)

// CreateResponsibility creates a new budget envelope, seeds its history with
// the creation entry and notifies the assigned user or group members.
func (s *responsibilityService) CreateResponsibility(ctx context.Context, req dto.CreateResponsibilityRequest, creatorID string) (*domain.Responsibility, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creator, err := s.userSvc.GetUserByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve creator: %w", err)
	}

	if req.Budget.IsNegative() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNegativeBudget)
	}

	now := time.Now().UTC()
	resp := domain.Responsibility{
		ResponsibilityID:       "resp-" + uuid.NewString(),
		Name:                   req.Name,
		Budget:                 req.Budget,
		Model:                  domain.BudgetModel(req.Model),
		Assignee:               domain.Assignee{Type: req.Assignee.Type, ID: req.Assignee.ID},
		DistributedAllocations: dto.ToDomainAllocations(req.DistributedAllocations),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creator.UserID,
		},
	}
	if !resp.AllocationsMatchBudget() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrAllocationMismatch)
	}

	resp.History = []string{domain.HistoryEntry{
		Kind:   domain.HistoryCreated,
		Actor:  creator.Name,
		At:     now,
		Amount: resp.Budget,
	}.Render()}

	if err := s.respRepo.SaveResponsibility(ctx, resp); err != nil {
		logger.Error("Failed to save responsibility", slog.String("error", err.Error()), slog.String("responsibility_id", resp.ResponsibilityID))
		return nil, fmt.Errorf("failed to save responsibility: %w", err)
	}

	recipients := s.resolveAssigneeEmails(ctx, resp.Assignee)
	s.notifier.Send(ctx, domain.TriggerResponsibilityAssigned, map[string]string{
		"responsibilityName": resp.Name,
		"budget":             resp.Budget.StringFixed(2),
	}, recipients)

	logger.Info("Responsibility created", slog.String("responsibility_id", resp.ResponsibilityID), slog.String("name", resp.Name))
	return &resp, nil
}

// UpdateResponsibility applies field changes and appends exactly one history
// line: a budget line when the budget changed, a generic details line
// otherwise.
func (s *responsibilityService) UpdateResponsibility(ctx context.Context, responsibilityID string, req dto.UpdateResponsibilityRequest, editorID string) (*domain.Responsibility, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	editor, err := s.userSvc.GetUserByID(ctx, editorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve editor: %w", err)
	}

	resp, err := s.respRepo.FindResponsibilityByID(ctx, responsibilityID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find responsibility for update", slog.String("error", err.Error()), slog.String("responsibility_id", responsibilityID))
		}
		return nil, fmt.Errorf("failed to find responsibility %s: %w", responsibilityID, err)
	}

	oldBudget := resp.Budget
	if req.Name != nil {
		resp.Name = *req.Name
	}
	if req.Budget != nil {
		if req.Budget.IsNegative() {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNegativeBudget)
		}
		resp.Budget = *req.Budget
	}
	if req.Model != nil {
		resp.Model = domain.BudgetModel(*req.Model)
	}
	if req.Assignee != nil {
		resp.Assignee = domain.Assignee{Type: req.Assignee.Type, ID: req.Assignee.ID}
	}
	if req.DistributedAllocations != nil {
		resp.DistributedAllocations = dto.ToDomainAllocations(*req.DistributedAllocations)
	}
	if !resp.AllocationsMatchBudget() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrAllocationMismatch)
	}

	now := time.Now().UTC()
	entry := domain.HistoryEntry{Kind: domain.HistoryDetailsEdited, Actor: editor.Name, At: now}
	if !resp.Budget.Equal(oldBudget) {
		entry = domain.HistoryEntry{
			Kind:      domain.HistoryBudgetEdited,
			Actor:     editor.Name,
			At:        now,
			OldBudget: oldBudget,
			NewBudget: resp.Budget,
		}
	}
	line := entry.Render()

	resp.LastUpdatedAt = now
	resp.LastUpdatedBy = editor.UserID
	if err := s.respRepo.UpdateResponsibility(ctx, *resp, line); err != nil {
		logger.Error("Failed to update responsibility", slog.String("error", err.Error()), slog.String("responsibility_id", responsibilityID))
		return nil, fmt.Errorf("failed to update responsibility: %w", err)
	}
	resp.History = append(resp.History, line)

	logger.Info("Responsibility updated", slog.String("responsibility_id", responsibilityID))
	return resp, nil
}

// ReallocateBudget atomically moves amount from one envelope to another.
// Preconditions are checked in order, short-circuiting on the first
// failure: distinct envelopes, positive amount, both envelopes exist,
// sufficient source budget. Only managers may reallocate.
func (s *responsibilityService) ReallocateBudget(ctx context.Context, req dto.ReallocateBudgetRequest, actorID string) ([]domain.Responsibility, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.userSvc.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}
	if !actor.IsManager() {
		logger.Warn("Non-manager attempted reallocation")
		return nil, fmt.Errorf("%w: only managers may reallocate budgets", apperrors.ErrForbidden)
	}

	if req.FromID == req.ToID {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrSameEnvelope)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNonPositiveAmount)
	}

	from, err := s.respRepo.FindResponsibilityByID(ctx, req.FromID)
	if err != nil {
		return nil, fmt.Errorf("failed to find source responsibility %s: %w", req.FromID, err)
	}
	to, err := s.respRepo.FindResponsibilityByID(ctx, req.ToID)
	if err != nil {
		return nil, fmt.Errorf("failed to find target responsibility %s: %w", req.ToID, err)
	}

	now := time.Now().UTC()
	fromLine := domain.HistoryEntry{
		Kind:         domain.HistoryReallocatedFrom,
		Actor:        actor.Name,
		At:           now,
		Amount:       req.Amount,
		Counterparty: to.Name,
	}.Render()
	toLine := domain.HistoryEntry{
		Kind:         domain.HistoryReallocatedTo,
		Actor:        actor.Name,
		At:           now,
		Amount:       req.Amount,
		Counterparty: from.Name,
	}.Render()

	updated, err := s.respRepo.TransferBudget(ctx, req.FromID, req.ToID, req.Amount, fromLine, toLine)
	if err != nil {
		var insErr *apperrors.InsufficientFundsError
		if errors.As(err, &insErr) {
			logger.Warn("Reallocation rejected for insufficient funds",
				slog.String("from_id", req.FromID),
				slog.String("requested", insErr.Requested.String()),
				slog.String("available", insErr.Available.String()))
			return nil, err
		}
		logger.Error("Failed to transfer budget", slog.String("error", err.Error()), slog.String("from_id", req.FromID), slog.String("to_id", req.ToID))
		return nil, fmt.Errorf("failed to transfer budget: %w", err)
	}

	logger.Info("Budget reallocated",
		slog.String("from_id", req.FromID),
		slog.String("to_id", req.ToID),
		slog.String("amount", req.Amount.StringFixed(2)))
	return updated, nil
}

// GetResponsibilityByID retrieves a responsibility by ID.
func (s *responsibilityService) GetResponsibilityByID(ctx context.Context, responsibilityID string) (*domain.Responsibility, error) {
	resp, err := s.respRepo.FindResponsibilityByID(ctx, responsibilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to find responsibility %s: %w", responsibilityID, err)
	}
	return resp, nil
}

// ListResponsibilities retrieves all responsibilities, name ascending.
func (s *responsibilityService) ListResponsibilities(ctx context.Context) ([]domain.Responsibility, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	resps, err := s.respRepo.ListResponsibilities(ctx)
	if err != nil {
		logger.Error("Failed to list responsibilities", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list responsibilities: %w", err)
	}
	if resps == nil {
		return []domain.Responsibility{}, nil
	}
	return resps, nil
}

// DeleteResponsibility soft-deletes an envelope.
func (s *responsibilityService) DeleteResponsibility(ctx context.Context, responsibilityID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.respRepo.MarkResponsibilityDeleted(ctx, responsibilityID, time.Now().UTC(), actorID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete responsibility", slog.String("error", err.Error()), slog.String("responsibility_id", responsibilityID))
		}
		return err
	}
	logger.Info("Responsibility deleted", slog.String("responsibility_id", responsibilityID))
	return nil
}

// resolveAssigneeEmails expands the assignee into recipient addresses: the
// user's own address, or every member of the assigned group.
func (s *responsibilityService) resolveAssigneeEmails(ctx context.Context, assignee domain.Assignee) []string {
	logger := middleware.GetLoggerFromCtx(ctx)

	switch assignee.Type {
	case domain.AssigneeUser:
		user, err := s.userSvc.GetUserByID(ctx, assignee.ID)
		if err != nil {
			logger.Warn("Assigned user not found for notification", slog.String("user_id", assignee.ID))
			return nil
		}
		return []string{user.Email}
	case domain.AssigneeGroup:
		group, err := s.groupSvc.GetGroupByID(ctx, assignee.ID)
		if err != nil {
			logger.Warn("Assigned group not found for notification", slog.String("group_id", assignee.ID))
			return nil
		}
		members, err := s.userSvc.GetUsersByIDs(ctx, group.MemberIDs)
		if err != nil {
			logger.Warn("Failed to resolve group members for notification", slog.String("group_id", assignee.ID), slog.String("error", err.Error()))
			return nil
		}
		emails := make([]string, 0, len(members))
		for _, id := range group.MemberIDs {
			if member, ok := members[id]; ok {
				emails = append(emails, member.Email)
			}
		}
		return emails
	}
	return nil
}
