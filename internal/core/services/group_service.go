package services

import (
	"context"
	"time"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
	"github.com/khalidalhothifi/expense-manager/internal/middleware"
)

type groupService struct {
	groupRepo portsrepo.GroupRepositoryFacade
}

// NewGroupService creates the group service.
func NewGroupService(groupRepo portsrepo.GroupRepositoryFacade) portssvc.GroupSvcFacade {
	return &groupService{groupRepo: groupRepo}
}

var _ portssvc.GroupSvcFacade = (*groupService)(nil)

// GetGroupByID retrieves a group by ID.
func (s *groupService) GetGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	return s.groupRepo.FindGroupByID(ctx, groupID)
}

// ListGroups retrieves all groups, name ascending.
func (s *groupService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	return s.groupRepo.ListGroups(ctx)
}

// UpdateGroup updates a group's name and membership. Only non-nil fields in
// the request are applied.
func (s *groupService) UpdateGroup(ctx context.Context, groupID string, req dto.UpdateGroupRequest, editorID string) (*domain.Group, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.MemberIDs != nil {
		group.MemberIDs = *req.MemberIDs
	}
	group.LastUpdatedAt = time.Now().UTC()
	group.LastUpdatedBy = editorID

	if err := s.groupRepo.UpdateGroup(ctx, *group); err != nil {
		logger.Error("failed to update group", "groupID", groupID, "error", err)
		return nil, err
	}
	return group, nil
}
