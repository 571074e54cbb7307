package dto

import (
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a new user.
type CreateUserRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Role     domain.Role `json:"role" binding:"required,oneof=MANAGER USER"`
	Password string      `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateUserRequest struct {
	Name  *string      `json:"name"`
	Email *string      `json:"email" binding:"omitempty,email"`
	Role  *domain.Role `json:"role" binding:"omitempty,oneof=MANAGER USER"`
}

// UserResponse defines the data returned for a user. The password hash is
// never included.
type UserResponse struct {
	UserID string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
}

// ToListUserResponse converts a slice of domain.User to UserResponse DTOs.
func ToListUserResponse(users []domain.User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i, u := range users {
		res[i] = ToUserResponse(&u)
	}
	return res
}

// LoginRequest carries the credentials for email/password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued token and the authenticated user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ResetPasswordResponse acknowledges a password-reset request.
type ResetPasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UpdateGroupRequest defines the data allowed for updating a group.
type UpdateGroupRequest struct {
	Name      *string   `json:"name"`
	MemberIDs *[]string `json:"memberIds"`
}

// GroupResponse defines the data returned for a group.
type GroupResponse struct {
	GroupID   string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

// ToGroupResponse converts a domain.Group to GroupResponse DTO.
func ToGroupResponse(g *domain.Group) GroupResponse {
	return GroupResponse{
		GroupID:   g.GroupID,
		Name:      g.Name,
		MemberIDs: g.MemberIDs,
	}
}

// ToListGroupResponse converts a slice of domain.Group to GroupResponse DTOs.
func ToListGroupResponse(groups []domain.Group) []GroupResponse {
	res := make([]GroupResponse, len(groups))
	for i, g := range groups {
		res[i] = ToGroupResponse(&g)
	}
	return res
}
