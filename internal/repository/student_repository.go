package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/placement-tracker-api/internal/models"
)

const studentSelect = `SELECT s.id, s.user_id, s.name, s.email, COALESCE(u.first_name, '') AS first_name, COALESCE(u.last_name, '') AS last_name,
s.branch, s.mentor_id, m.name AS mentor_name, s.cgpa, s.attendance, s.credits, s.current_semester, s.created_at, s.updated_at
FROM students s LEFT JOIN mentors m ON m.id = s.mentor_id LEFT JOIN users u ON u.id = s.user_id`

// StudentRepository manages persistence for students and their semesters.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := studentSelect + ` WHERE s.id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if isMissingRow(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// List returns students matching the filter ordered by name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	var conditions []string
	var args []interface{}
	if filter.Branch != "" {
		conditions = append(conditions, fmt.Sprintf("s.branch = $%d", len(args)+1))
		args = append(args, filter.Branch)
	}
	if filter.MentorID != "" {
		conditions = append(conditions, fmt.Sprintf("s.mentor_id = $%d", len(args)+1))
		args = append(args, filter.MentorID)
	}

	query := studentSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY LOWER(s.name), s.id"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListBranches returns the distinct non-empty branches.
func (r *StudentRepository) ListBranches(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT branch FROM students WHERE branch <> '' ORDER BY branch`
	var branches []string
	if err := r.db.SelectContext(ctx, &branches, query); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// Totals aggregates student counts and average CGPA across the institution.
func (r *StudentRepository) Totals(ctx context.Context) (*models.StudentTotals, error) {
	const query = `SELECT COUNT(*) AS total,
COUNT(*) FILTER (WHERE EXISTS (SELECT 1 FROM placements p WHERE p.student_id = s.id AND p.status = 'Accepted')) AS placed,
COUNT(*) FILTER (WHERE EXISTS (SELECT 1 FROM placements p WHERE p.student_id = s.id AND p.status = 'Pending')) AS in_progress,
COALESCE(AVG(s.cgpa), 0) AS average_cgpa
FROM students s`
	var totals models.StudentTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("aggregate students: %w", err)
	}
	return &totals, nil
}

// AssignMentor sets or clears the mentor of one student.
func (r *StudentRepository) AssignMentor(ctx context.Context, studentID string, mentorID *string) error {
	const query = `UPDATE students SET mentor_id = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, studentID, mentorID, time.Now().UTC())
	if err != nil {
		if isMissingRow(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("assign mentor: %w", err)
	}
	return requireAffected(res, "assign mentor")
}

// BulkAssignMentor assigns one mentor to every listed student. If any id is unknown nothing changes and
// sql.ErrNoRows is returned. Ids must be distinct.
func (r *StudentRepository) BulkAssignMentor(ctx context.Context, studentIDs []string, mentorID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk assign transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE students SET mentor_id = $1, updated_at = $2 WHERE id = ANY($3)`
	res, err := tx.ExecContext(ctx, query, mentorID, time.Now().UTC(), pq.Array(studentIDs))
	if err != nil {
		if isMissingRow(err) {
			err = sql.ErrNoRows
			return err
		}
		return fmt.Errorf("bulk assign mentor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("bulk assign rows: %w", err)
	}
	if affected != int64(len(studentIDs)) {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk assign: %w", err)
	}
	return nil
}

// ListSemesters returns a student's semesters ordered by number.
func (r *StudentRepository) ListSemesters(ctx context.Context, studentID string) ([]models.Semester, error) {
	const query = `SELECT id, student_id, semester_number, gpa FROM semesters WHERE student_id = $1 ORDER BY semester_number`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, studentID); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// ListSemestersByStudents groups semesters of the given students by student id.
func (r *StudentRepository) ListSemestersByStudents(ctx context.Context, studentIDs []string) (map[string][]models.Semester, error) {
	result := make(map[string][]models.Semester, len(studentIDs))
	if len(studentIDs) == 0 {
		return result, nil
	}
	const query = `SELECT id, student_id, semester_number, gpa FROM semesters WHERE student_id = ANY($1) ORDER BY student_id, semester_number`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, pq.Array(studentIDs)); err != nil {
		return nil, fmt.Errorf("list semesters by students: %w", err)
	}
	for _, sem := range semesters {
		result[sem.StudentID] = append(result[sem.StudentID], sem)
	}
	return result, nil
}

// AcademicUpdate describes one transactional academic update.
type AcademicUpdate struct {
	StudentID string
	// CurrentSemester is left unchanged when nil.
	CurrentSemester *int
	Semesters       []models.Semester
	// Recompute derives the CGPA from the stored semesters after the upserts.
	Recompute func(current int, semesters []models.Semester) float64
}

// UpdateAcademics upserts semester GPAs, optionally moves the current semester and persists the recomputed CGPA,
// all inside a single transaction holding the student row lock.
func (r *StudentRepository) UpdateAcademics(ctx context.Context, update AcademicUpdate) (record *models.AcademicRecord, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin academic transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current int
	const lockQuery = `SELECT current_semester FROM students WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, lockQuery, update.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock student: %w", err)
	}

	const upsertQuery = `INSERT INTO semesters (id, student_id, semester_number, gpa) VALUES ($1, $2, $3, $4)
ON CONFLICT (student_id, semester_number) DO UPDATE SET gpa = EXCLUDED.gpa`
	for _, sem := range update.Semesters {
		if _, err = tx.ExecContext(ctx, upsertQuery, uuid.NewString(), update.StudentID, sem.SemesterNumber, sem.GPA); err != nil {
			return nil, fmt.Errorf("upsert semester %d: %w", sem.SemesterNumber, err)
		}
	}
	if update.CurrentSemester != nil {
		current = *update.CurrentSemester
	}

	var semesters []models.Semester
	const listQuery = `SELECT id, student_id, semester_number, gpa FROM semesters WHERE student_id = $1 ORDER BY semester_number`
	if err = tx.SelectContext(ctx, &semesters, listQuery, update.StudentID); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}

	var cgpa float64
	if update.Recompute != nil {
		cgpa = update.Recompute(current, semesters)
	}

	const updateQuery = `UPDATE students SET cgpa = $2, current_semester = $3, updated_at = $4 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, update.StudentID, cgpa, current, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("update student academics: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit academic update: %w", err)
	}
	return &models.AcademicRecord{
		StudentID:       update.StudentID,
		CurrentSemester: current,
		CGPA:            cgpa,
		Semesters:       semesters,
	}, nil
}
