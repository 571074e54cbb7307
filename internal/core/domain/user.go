package domain

import "time"

// Role determines what a user may do: managers approve expenses, move
// budgets between responsibilities and override the budget cap.
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// User represents an application user in the domain.
type User struct {
	UserID       string `json:"userID"` // Primary Key (e.g., UUID)
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"` // Never serialized
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// Group is a named set of users; used to resolve group assignees of a
// financial responsibility to individual recipients.
type Group struct {
	GroupID   string   `json:"groupID"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
