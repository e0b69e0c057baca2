package model

import "github.com/google/uuid"

// UserRole determines what a user may do in the console.
type UserRole string

const (
	UserRoleSuperAdmin UserRole = "superadmin"
	UserRoleOrgAdmin   UserRole = "orgadmin"
	UserRoleClientUser UserRole = "clientuser"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleSuperAdmin, UserRoleOrgAdmin, UserRoleClientUser:
		return true
	}
	return false
}

// UserStatus is the membership lifecycle state.
type UserStatus string

const (
	UserStatusInvited   UserStatus = "invited"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusInvited, UserStatusActive, UserStatusSuspended:
		return true
	}
	return false
}

// AppUser belongs to exactly one account. Every account keeps at least
// one user at all times after provisioning completes.
type AppUser struct {
	Base
	AccountID    uuid.UUID  `json:"accountId" db:"account_id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         UserRole   `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`
}

// CreateUserRequest represents user creation parameters.
type CreateUserRequest struct {
	AccountID uuid.UUID `json:"accountId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"password"`
	Role      UserRole  `json:"role"`
}

// UserUpdate carries the mutable fields of a user. Nil fields are left
// untouched.
type UserUpdate struct {
	Name   *string     `json:"name"`
	Role   *UserRole   `json:"role"`
	Status *UserStatus `json:"status"`
}

// UserFilters narrows user listings.
type UserFilters struct {
	AccountID uuid.UUID
	Role      UserRole
	Status    UserStatus
}

// CallerIdentity is the authenticated caller, resolved once by the auth
// middleware and passed explicitly to capability-gated operations.
type CallerIdentity struct {
	UserID uuid.UUID
	Email  string
	Role   UserRole
}

func (c CallerIdentity) IsSuperAdmin() bool {
	return c.Role == UserRoleSuperAdmin
}
