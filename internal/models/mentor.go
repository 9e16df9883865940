package models

import "time"

// Mentor is a staff member responsible for a subset of students.
type Mentor struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Department string    `db:"department" json:"department"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// DefaultDepartment is used when a mentor signs up without one.
const DefaultDepartment = "Computer Science"
