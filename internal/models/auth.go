package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignupRequest registers a new account and its role profile.
type SignupRequest struct {
	Username   string   `json:"username" validate:"required,min=3,max=150"`
	Password   string   `json:"password" validate:"required,min=6"`
	FirstName  string   `json:"first_name" validate:"required,max=150"`
	LastName   string   `json:"last_name" validate:"max=150"`
	Email      string   `json:"email" validate:"required,email"`
	Role       UserRole `json:"user_type" validate:"required,oneof=student mentor tpo principal"`
	Phone      string   `json:"phone" validate:"omitempty,max=15"`
	Branch     string   `json:"branch" validate:"required_if=Role student,max=50"`
	Department string   `json:"department" validate:"max=100"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token, the caller identity and where the client should navigate.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	Redirect    string    `json:"redirect"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	Role      UserRole `json:"role"`
	StudentID string   `json:"student_id,omitempty"`
	MentorID  string   `json:"mentor_id,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	StudentID string   `json:"student_id,omitempty"`
	MentorID  string   `json:"mentor_id,omitempty"`
	jwt.RegisteredClaims
}
