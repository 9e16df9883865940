package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-tracker-api/internal/dto"
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

type mentorFinder interface {
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
}

// MentorService runs the cohort query over a mentor's assigned students.
type MentorService struct {
	students   studentLister
	placements placementGrouper
	mentors    mentorFinder
	logger     *zap.Logger
}

// NewMentorService constructs a MentorService.
func NewMentorService(students studentLister, placements placementGrouper, mentors mentorFinder, logger *zap.Logger) *MentorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorService{students: students, placements: placements, mentors: mentors, logger: logger}
}

// Dashboard returns one page of the mentor's cohort with statistics over the filtered set.
func (s *MentorService) Dashboard(ctx context.Context, actor *models.JWTClaims, opts placement.CohortOptions) (*dto.MentorDashboardResponse, *placement.Page, error) {
	mentor, scope, err := s.scope(ctx, actor)
	if err != nil {
		return nil, nil, err
	}
	result := placement.QueryCohort(scope, opts)
	return &dto.MentorDashboardResponse{
		Mentor:   mentor,
		Students: result.Students,
		Stats:    result.Stats,
		Filters:  cohortFilters(opts),
	}, &result.Page, nil
}

// ExportRows returns the filtered and sorted cohort without pagination.
func (s *MentorService) ExportRows(ctx context.Context, actor *models.JWTClaims, opts placement.CohortOptions) ([]placement.StudentView, error) {
	_, scope, err := s.scope(ctx, actor)
	if err != nil {
		return nil, err
	}
	return placement.FilterCohort(scope, opts), nil
}

func (s *MentorService) scope(ctx context.Context, actor *models.JWTClaims) (*models.Mentor, []placement.StudentRecord, error) {
	if err := Authorize(actor, ActionMentorDashboard, nil); err != nil {
		return nil, nil, err
	}
	mentor, err := s.mentors.FindByID(ctx, actor.MentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "mentor profile not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	records, err := loadStudentRecords(ctx, s.students, s.placements, models.StudentFilter{MentorID: mentor.ID})
	if err != nil {
		return nil, nil, err
	}
	return mentor, records, nil
}

func cohortFilters(opts placement.CohortOptions) dto.CohortFilters {
	filters := dto.CohortFilters{
		Search: opts.Search,
		Status: opts.Status,
		GPA:    opts.GPA,
		Sort:   opts.Sort,
	}
	if filters.Status == "" {
		filters.Status = placement.FilterAll
	}
	if filters.GPA == "" {
		filters.GPA = placement.FilterAll
	}
	if filters.Sort == "" {
		filters.Sort = placement.SortNameAsc
	}
	return filters
}
