package models

import "time"

// Student is a learner tracked for academics and placements.
// CGPA is derived from semester records and never accepted as input.
type Student struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	FirstName       string    `db:"first_name" json:"-"`
	LastName        string    `db:"last_name" json:"-"`
	Branch          string    `db:"branch" json:"branch"`
	MentorID        *string   `db:"mentor_id" json:"mentor_id,omitempty"`
	MentorName      *string   `db:"mentor_name" json:"mentor_name,omitempty"`
	CGPA            float64   `db:"cgpa" json:"cgpa"`
	Attendance      int       `db:"attendance" json:"attendance"`
	Credits         int       `db:"credits" json:"credits"`
	CurrentSemester int       `db:"current_semester" json:"current_semester"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter narrows institution-wide student listings.
type StudentFilter struct {
	Branch   string
	MentorID string
}

// Semester bounds.
const (
	FirstSemester = 1
	LastSemester  = 8
)

// Semester stores one term GPA for a student. (student_id, semester_number) is unique.
type Semester struct {
	ID             string  `db:"id" json:"id"`
	StudentID      string  `db:"student_id" json:"student_id"`
	SemesterNumber int     `db:"semester_number" json:"semester_number"`
	GPA            float64 `db:"gpa" json:"gpa"`
}

// SeedSemesters returns the zero-GPA semesters created with every student.
func SeedSemesters(studentID string) []Semester {
	semesters := make([]Semester, 0, LastSemester)
	for n := FirstSemester; n <= LastSemester; n++ {
		semesters = append(semesters, Semester{StudentID: studentID, SemesterNumber: n})
	}
	return semesters
}

// AcademicRecord is the academic state of a student after an update.
type AcademicRecord struct {
	StudentID       string     `json:"student_id"`
	CurrentSemester int        `json:"current_semester"`
	CGPA            float64    `json:"cgpa"`
	Semesters       []Semester `json:"semesters"`
}

// StudentTotals are institution-wide aggregates over all students.
type StudentTotals struct {
	Total       int     `db:"total" json:"total_students"`
	Placed      int     `db:"placed" json:"placed_students"`
	InProgress  int     `db:"in_progress" json:"in_progress_students"`
	AverageCGPA float64 `db:"average_cgpa" json:"average_cgpa"`
}
