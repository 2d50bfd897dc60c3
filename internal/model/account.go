package model

import "time"

// Account is a login-capable identity. UserID doubles as the login username.
type Account struct {
	ID           int         `json:"id"`
	UserID       string      `json:"userID"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        *string     `json:"phone"`
	Role         Role        `json:"role"`
	PasswordHash string      `json:"-"`
	Detail       *RoleDetail `json:"detail,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// RoleDetail is the role-specific extension of an Account. Only the fields
// belonging to the account's role are set.
type RoleDetail struct {
	// admin
	Designation  *string `json:"designation,omitempty"`
	ResearchArea *string `json:"researchArea,omitempty"`
	// student
	Department *string `json:"department,omitempty"`
	Year       *int    `json:"year,omitempty"`
}

// DefaultRoleDetail returns the detail row inserted alongside a new account.
func DefaultRoleDetail(role Role) RoleDetail {
	switch role {
	case RoleAdmin:
		designation := "New Administrator"
		return RoleDetail{Designation: &designation}
	default:
		department := "General"
		year := 1
		return RoleDetail{Department: &department, Year: &year}
	}
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	Role Role
}

// CreateAccountRequest is the payload for registering a new account.
type CreateAccountRequest struct {
	UserID   string  `json:"userID" binding:"required,min=3,max=64,userid"`
	Name     string  `json:"name" binding:"required,max=100"`
	Email    string  `json:"email" binding:"required,email,max=255"`
	Role     Role    `json:"role" binding:"required,oneof=admin student"`
	Password string  `json:"password" binding:"required,min=6,max=128"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
}

// LoginRequest is the payload for authentication. Lengths are not bounded
// here so that every credential mismatch fails the same way.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the payload for changing the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,max=128"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=128"`
}

// ListAccountsQuery holds the query string of an account listing.
type ListAccountsQuery struct {
	PageQuery
	Role Role `form:"role" binding:"omitempty,oneof=admin student"`
}
