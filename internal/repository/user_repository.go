package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/placement-tracker-api/internal/models"
)

// ErrDuplicate reports a unique constraint violation, e.g. a username taken concurrently.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

const userColumns = `id, username, email, password_hash, first_name, last_name, role, phone, created_at, updated_at`

// UserRepository provides database access for accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns a user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// ExistsByUsername reports whether the username is taken.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// ExistsByEmail reports whether the email is taken, ignoring case.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// ProfileIDs returns the student and mentor ids linked to the user, empty when absent.
func (r *UserRepository) ProfileIDs(ctx context.Context, userID string) (studentID, mentorID string, err error) {
	const query = `SELECT COALESCE((SELECT id FROM students WHERE user_id = $1), '') AS student_id,
COALESCE((SELECT id FROM mentors WHERE user_id = $1), '') AS mentor_id`
	var row struct {
		StudentID string `db:"student_id"`
		MentorID  string `db:"mentor_id"`
	}
	if err = r.db.GetContext(ctx, &row, query, userID); err != nil {
		return "", "", fmt.Errorf("find profile ids: %w", err)
	}
	return row.StudentID, row.MentorID, nil
}

// CreateAccount inserts the user and its role profile atomically.
// Students get their eight zero-GPA semesters in the same transaction.
func (r *UserRepository) CreateAccount(ctx context.Context, account *models.Account) (err error) {
	now := time.Now().UTC()
	user := &account.User
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin account transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertUser = `INSERT INTO users (id, username, email, password_hash, first_name, last_name, role, phone, created_at, updated_at)
VALUES (:id, :username, :email, :password_hash, :first_name, :last_name, :role, :phone, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertUser, user); err != nil {
		return mapWriteError("create user", err)
	}

	if student := account.Student; student != nil {
		if student.ID == "" {
			student.ID = uuid.NewString()
		}
		student.UserID = user.ID
		student.CreatedAt = now
		student.UpdatedAt = now
		if student.CurrentSemester == 0 {
			student.CurrentSemester = models.FirstSemester
		}
		const insertStudent = `INSERT INTO students (id, user_id, name, email, branch, mentor_id, cgpa, attendance, credits, current_semester, created_at, updated_at)
VALUES (:id, :user_id, :name, :email, :branch, :mentor_id, :cgpa, :attendance, :credits, :current_semester, :created_at, :updated_at)`
		if _, err = tx.NamedExecContext(ctx, insertStudent, student); err != nil {
			return mapWriteError("create student", err)
		}
		const insertSemester = `INSERT INTO semesters (id, student_id, semester_number, gpa) VALUES ($1, $2, $3, $4)`
		for _, sem := range models.SeedSemesters(student.ID) {
			if _, err = tx.ExecContext(ctx, insertSemester, uuid.NewString(), sem.StudentID, sem.SemesterNumber, sem.GPA); err != nil {
				return fmt.Errorf("seed semester %d: %w", sem.SemesterNumber, err)
			}
		}
	}

	if mentor := account.Mentor; mentor != nil {
		if mentor.ID == "" {
			mentor.ID = uuid.NewString()
		}
		mentor.UserID = user.ID
		mentor.CreatedAt = now
		if mentor.Department == "" {
			mentor.Department = models.DefaultDepartment
		}
		const insertMentor = `INSERT INTO mentors (id, user_id, name, email, department, phone, created_at)
VALUES (:id, :user_id, :name, :email, :department, :phone, :created_at)`
		if _, err = tx.NamedExecContext(ctx, insertMentor, mentor); err != nil {
			return mapWriteError("create mentor", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit account: %w", err)
	}
	return nil
}
