package services

import (
	"context"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUsersByIDs retrieves the given users, keyed by ID.
	GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)

	// ListUsers retrieves all users, name ascending.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// ListManagers retrieves all users with the manager role.
	ListManagers(ctx context.Context) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// CreateUser creates a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorID string) (*domain.User, error)

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, editorID string) (*domain.User, error)
}

// UserLifecycleSvc defines operations for managing user lifecycle.
type UserLifecycleSvc interface {
	// DeleteUser marks a user as deleted (soft delete).
	DeleteUser(ctx context.Context, userID string, actorID string) error

	// RequestPasswordReset acknowledges a reset request for the user. Token
	// issuance and delivery are outside the core's contract.
	RequestPasswordReset(ctx context.Context, userID string) error
}

// UserAuthSvc defines operations for user authentication.
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}

// GroupSvcFacade defines operations on user groups.
type GroupSvcFacade interface {
	// GetGroupByID retrieves a group by ID.
	GetGroupByID(ctx context.Context, groupID string) (*domain.Group, error)

	// ListGroups retrieves all groups, name ascending.
	ListGroups(ctx context.Context) ([]domain.Group, error)

	// UpdateGroup updates a group's name and membership.
	UpdateGroup(ctx context.Context, groupID string, req dto.UpdateGroupRequest, editorID string) (*domain.Group, error)
}

// VendorSvcFacade defines operations on vendors.
type VendorSvcFacade interface {
	// ListVendors retrieves all vendors, name ascending.
	ListVendors(ctx context.Context) ([]domain.Vendor, error)

	// CreateVendor registers a new vendor.
	CreateVendor(ctx context.Context, req dto.CreateVendorRequest, creatorID string) (*domain.Vendor, error)

	// EnsureVendor registers the vendor name if it is not known yet.
	EnsureVendor(ctx context.Context, name string, creatorID string) error
}
