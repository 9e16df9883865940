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

const placementColumns = `id, student_id, company, position, package, package_unit, status, created_at`

// PlacementRepository manages placement offers.
type PlacementRepository struct {
	db *sqlx.DB
}

// NewPlacementRepository constructs a PlacementRepository.
func NewPlacementRepository(db *sqlx.DB) *PlacementRepository {
	return &PlacementRepository{db: db}
}

// FindByID returns a placement by id.
func (r *PlacementRepository) FindByID(ctx context.Context, id string) (*models.Placement, error) {
	query := `SELECT ` + placementColumns + ` FROM placements WHERE id = $1 LIMIT 1`
	var placement models.Placement
	if err := r.db.GetContext(ctx, &placement, query, id); err != nil {
		if isMissingRow(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find placement by id: %w", err)
	}
	return &placement, nil
}

// ListByStudent returns a student's placements newest first.
func (r *PlacementRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Placement, error) {
	query := `SELECT ` + placementColumns + ` FROM placements WHERE student_id = $1 ORDER BY created_at DESC, id`
	var placements []models.Placement
	if err := r.db.SelectContext(ctx, &placements, query, studentID); err != nil {
		return nil, fmt.Errorf("list placements by student: %w", err)
	}
	return placements, nil
}

// ListByStudents groups the placements of many students by student id, newest first.
func (r *PlacementRepository) ListByStudents(ctx context.Context, studentIDs []string) (map[string][]models.Placement, error) {
	result := make(map[string][]models.Placement, len(studentIDs))
	if len(studentIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + placementColumns + ` FROM placements WHERE student_id = ANY($1) ORDER BY created_at DESC, id`
	var placements []models.Placement
	if err := r.db.SelectContext(ctx, &placements, query, pq.Array(studentIDs)); err != nil {
		return nil, fmt.Errorf("list placements by students: %w", err)
	}
	for _, p := range placements {
		result[p.StudentID] = append(result[p.StudentID], p)
	}
	return result, nil
}

// ListRecords returns every placement joined with its student, newest first.
func (r *PlacementRepository) ListRecords(ctx context.Context) ([]models.PlacementRecord, error) {
	const query = `SELECT p.id, p.student_id, p.company, p.position, p.package, p.package_unit, p.status, p.created_at,
s.name AS student_name, s.email AS student_email, s.branch AS student_branch
FROM placements p JOIN students s ON s.id = p.student_id
ORDER BY p.created_at DESC, p.id`
	var records []models.PlacementRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list placement records: %w", err)
	}
	return records, nil
}

// Create inserts a placement.
func (r *PlacementRepository) Create(ctx context.Context, placement *models.Placement) error {
	if placement.ID == "" {
		placement.ID = uuid.NewString()
	}
	if placement.CreatedAt.IsZero() {
		placement.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO placements (id, student_id, company, position, package, package_unit, status, created_at)
VALUES (:id, :student_id, :company, :position, :package, :package_unit, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, placement); err != nil {
		return fmt.Errorf("create placement: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a placement.
func (r *PlacementRepository) Update(ctx context.Context, placement *models.Placement) error {
	const query = `UPDATE placements SET company = :company, position = :position, package = :package, package_unit = :package_unit, status = :status WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, placement)
	if err != nil {
		if isMissingRow(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("update placement: %w", err)
	}
	return requireAffected(res, "update placement")
}

// Delete removes a placement.
func (r *PlacementRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM placements WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isMissingRow(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("delete placement: %w", err)
	}
	return requireAffected(res, "delete placement")
}

// invalidTextRepresentation is the Postgres code for values that do not parse as the column type,
// such as an id that is not a uuid.
const invalidTextRepresentation = "22P02"

// isMissingRow reports lookups that cannot match any row. An id Postgres rejects as malformed names no row.
func isMissingRow(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
