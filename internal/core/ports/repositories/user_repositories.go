package repositories

import (
	"context"
	"time"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address; used by login.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsersByIDs retrieves the given users, keyed by ID. Missing IDs are
	// simply absent from the map.
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)

	// ListUsers retrieves all non-deleted users, name ascending.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// ListUsersByRole retrieves all non-deleted users holding the role.
	ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserLifecycleManager defines operations for managing user lifecycle.
type UserLifecycleManager interface {
	// MarkUserDeleted marks a user as deleted (soft delete).
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}

// GroupReader defines read operations for group data.
type GroupReader interface {
	// FindGroupByID retrieves a specific group by its ID.
	FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error)

	// ListGroups retrieves all non-deleted groups, name ascending.
	ListGroups(ctx context.Context) ([]domain.Group, error)
}

// GroupWriter defines write operations for group data.
type GroupWriter interface {
	// UpdateGroup updates a group's name and membership.
	UpdateGroup(ctx context.Context, group domain.Group) error
}

// GroupRepositoryFacade combines all group-related repository interfaces.
type GroupRepositoryFacade interface {
	GroupReader
	GroupWriter
}
