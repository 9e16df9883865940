package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/placement-tracker-api/internal/models"
)

const mentorColumns = `id, user_id, name, email, department, phone, created_at`

// MentorRepository reads mentor profiles.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository constructs a MentorRepository.
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

// List returns all mentors ordered by name.
func (r *MentorRepository) List(ctx context.Context) ([]models.Mentor, error) {
	query := `SELECT ` + mentorColumns + ` FROM mentors ORDER BY LOWER(name), id`
	var mentors []models.Mentor
	if err := r.db.SelectContext(ctx, &mentors, query); err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	return mentors, nil
}

// FindByID returns a mentor by id.
func (r *MentorRepository) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	query := `SELECT ` + mentorColumns + ` FROM mentors WHERE id = $1 LIMIT 1`
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, id); err != nil {
		if isMissingRow(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find mentor by id: %w", err)
	}
	return &mentor, nil
}
