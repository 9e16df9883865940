package models

import (
	"strings"
	"time"
)

// UserRole represents the closed set of roles known to the system.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleMentor    UserRole = "mentor"
	RoleTPO       UserRole = "tpo"
	RolePrincipal UserRole = "principal"
)

// Valid reports whether the role belongs to the known set.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleMentor, RoleTPO, RolePrincipal:
		return true
	default:
		return false
	}
}

// User represents an application account stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Role         UserRole  `db:"role" json:"role"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Account bundles a user with the role profile created alongside it.
type Account struct {
	User    User
	Student *Student
	Mentor  *Mentor
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
