package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
	"github.com/khalidalhothifi/expense-manager/internal/middleware"
	"github.com/khalidalhothifi/expense-manager/internal/utils"
)

// ErrInvalidCredentials is returned by AuthenticateUser for a wrong email or
// password. The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUsersByIDs retrieves the given users, keyed by ID.
func (s *userService) GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	if len(userIDs) == 0 {
		return map[string]domain.User{}, nil
	}
	return s.userRepo.FindUsersByIDs(ctx, userIDs)
}

// ListUsers retrieves all users, name ascending.
func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListUsers(ctx)
}

// ListManagers retrieves all users with the manager role.
func (s *userService) ListManagers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListUsersByRole(ctx, domain.RoleManager)
}

// CreateUser creates a new user with a hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.userRepo.FindUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email %s", apperrors.ErrDuplicate, email)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       "user-" + uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		Role:         req.Role,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("failed to save user", "error", err)
		return nil, err
	}
	logger.Info("user created", "userID", user.UserID, "role", user.Role)
	return &user, nil
}

// UpdateUser updates an existing user's details. Only non-nil fields in the
// request are applied.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, editorID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = editorID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		logger.Error("failed to update user", "userID", userID, "error", err)
		return nil, err
	}
	return user, nil
}

// DeleteUser marks a user as deleted.
func (s *userService) DeleteUser(ctx context.Context, userID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now().UTC(), actorID); err != nil {
		logger.Error("failed to delete user", "userID", userID, "error", err)
		return err
	}
	logger.Info("user deleted", "userID", userID, "actorID", actorID)
	return nil
}

// RequestPasswordReset acknowledges a reset request for the user. The reset
// itself is handled out of band by an administrator.
func (s *userService) RequestPasswordReset(ctx context.Context, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	logger.Info("password reset requested", "userID", user.UserID, "email", user.Email)
	return nil
}

// AuthenticateUser authenticates a user with email and password.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("failed login attempt", "email", email)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
