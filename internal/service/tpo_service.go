package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-tracker-api/internal/dto"
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

const (
	tpoDashboardCacheKey     = "dash:tpo:overview"
	tpoDashboardCachePattern = "dash:tpo:*"
	unassignMentor           = "none"
)

type tpoStudentRepository interface {
	studentLister
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListBranches(ctx context.Context) ([]string, error)
	Totals(ctx context.Context) (*models.StudentTotals, error)
	AssignMentor(ctx context.Context, studentID string, mentorID *string) error
	BulkAssignMentor(ctx context.Context, studentIDs []string, mentorID string) error
}

type tpoPlacementRepository interface {
	placementGrouper
	ListRecords(ctx context.Context) ([]models.PlacementRecord, error)
}

type mentorRepository interface {
	mentorFinder
	List(ctx context.Context) ([]models.Mentor, error)
}

// TPOServiceParams groups constructor dependencies.
type TPOServiceParams struct {
	Students   tpoStudentRepository
	Placements tpoPlacementRepository
	Mentors    mentorRepository
	Cache      *CacheService
	Metrics    *MetricsService
	Validator  *validator.Validate
	Logger     *zap.Logger
	CacheTTL   time.Duration
}

// TPOService serves placement office reporting and mentor administration.
type TPOService struct {
	students   tpoStudentRepository
	placements tpoPlacementRepository
	mentors    mentorRepository
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	cacheTTL   time.Duration
}

// NewTPOService constructs a TPOService.
func NewTPOService(params TPOServiceParams) *TPOService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TPOService{
		students:   params.Students,
		placements: params.Placements,
		mentors:    params.Mentors,
		cache:      params.Cache,
		metrics:    params.Metrics,
		validator:  validate,
		logger:     logger,
		cacheTTL:   ttl,
	}
}

// Dashboard lists students matching the filter together with institution-wide statistics.
// The unfiltered overview is cached; filters are applied on top of it. The bool reports a cache hit.
func (s *TPOService) Dashboard(ctx context.Context, actor *models.JWTClaims, filter dto.TPODashboardFilter) (*dto.TPODashboardResponse, bool, error) {
	if err := Authorize(actor, ActionTPOAdmin, nil); err != nil {
		return nil, false, err
	}

	overview, hit, err := s.overview(ctx)
	if err != nil {
		return nil, false, err
	}

	students := make([]placement.StudentView, 0, len(overview.Students))
	for _, v := range overview.Students {
		if filter.Branch != "" && filter.Branch != placement.FilterAll && v.Branch != filter.Branch {
			continue
		}
		if filter.MentorID != "" && filter.MentorID != placement.FilterAll && (v.MentorID == nil || *v.MentorID != filter.MentorID) {
			continue
		}
		students = append(students, v)
	}
	overview.Students = placement.FilterByStatus(students, filter.Status)
	overview.Filters = filter
	return overview, hit, nil
}

func (s *TPOService) overview(ctx context.Context) (*dto.TPODashboardResponse, bool, error) {
	var cached dto.TPODashboardResponse
	hit, err := s.cache.Get(ctx, tpoDashboardCacheKey, &cached)
	if err != nil {
		s.logger.Warn("tpo dashboard cache read failed", zap.Error(err))
	}
	if hit {
		return &cached, true, nil
	}

	overview, err := s.composeOverview(ctx)
	if err != nil {
		return nil, false, err
	}
	_ = s.cache.Set(ctx, tpoDashboardCacheKey, overview, s.cacheTTL)
	return overview, false, nil
}

func (s *TPOService) composeOverview(ctx context.Context) (*dto.TPODashboardResponse, error) {
	records, err := loadStudentRecords(ctx, s.students, s.placements, models.StudentFilter{})
	if err != nil {
		return nil, err
	}
	mentors, err := s.mentors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentors")
	}
	branches, err := s.students.ListBranches(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load branches")
	}
	if mentors == nil {
		mentors = []models.Mentor{}
	}
	if branches == nil {
		branches = []string{}
	}

	views := placement.EvaluateAll(records)
	stats := dto.InstitutionStats{
		TotalStudents: len(views),
		AverageCGPA:   placement.AverageCGPA(views),
	}
	for i, v := range views {
		switch v.Status {
		case placement.StatusPlaced:
			stats.Placed++
		case placement.StatusInProgress:
			stats.InProgress++
		case placement.StatusNotPlaced:
		}
		for _, p := range records[i].Placements {
			stats.HighestPackage = math.Max(stats.HighestPackage, placement.Normalized(p))
		}
	}
	stats.NotPlaced = stats.TotalStudents - stats.Placed
	stats.HighestPackage = math.Round(stats.HighestPackage*100) / 100

	return &dto.TPODashboardResponse{
		Students: views,
		Mentors:  mentors,
		Branches: branches,
		Stats:    stats,
	}, nil
}

// AssignMentor sets one student's mentor, or clears it when the mentor id is "none".
func (s *TPOService) AssignMentor(ctx context.Context, actor *models.JWTClaims, req dto.AssignMentorRequest) (*models.Student, error) {
	if err := Authorize(actor, ActionTPOAdmin, nil); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	var mentorID *string
	if req.MentorID != unassignMentor {
		mentor, err := s.mentors.FindByID(ctx, req.MentorID)
		if err != nil {
			return nil, notFoundOr(err, "mentor not found", "failed to load mentor")
		}
		mentorID = &mentor.ID
	}

	if err := s.students.AssignMentor(ctx, req.StudentID, mentorID); err != nil {
		return nil, notFoundOr(err, "student not found", "failed to assign mentor")
	}
	s.afterMutation(ctx, mutationAssign)

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	return student, nil
}

// BulkAssignMentor assigns one mentor to many students atomically. Any unknown student fails the whole call.
func (s *TPOService) BulkAssignMentor(ctx context.Context, actor *models.JWTClaims, req dto.BulkAssignRequest) (*dto.BulkAssignResponse, error) {
	if err := Authorize(actor, ActionTPOAdmin, nil); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk assignment payload")
	}
	mentor, err := s.mentors.FindByID(ctx, req.MentorID)
	if err != nil {
		return nil, notFoundOr(err, "mentor not found", "failed to load mentor")
	}

	ids := dedupe(req.StudentIDs)
	if err := s.students.BulkAssignMentor(ctx, ids, mentor.ID); err != nil {
		return nil, notFoundOr(err, "one or more students not found", "failed to assign mentor")
	}
	s.afterMutation(ctx, mutationBulkAssign)
	return &dto.BulkAssignResponse{MentorID: mentor.ID, Updated: len(ids)}, nil
}

// Placements runs the placement listing query and attaches institution totals.
func (s *TPOService) Placements(ctx context.Context, actor *models.JWTClaims, opts placement.ListingOptions) (*dto.PlacementListingResponse, *placement.Page, error) {
	records, err := s.placementRecords(ctx, actor)
	if err != nil {
		return nil, nil, err
	}
	totals, err := s.students.Totals(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate students")
	}
	branches, err := s.students.ListBranches(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load branches")
	}

	result := placement.QueryPlacements(records, opts)
	result.Stats.Branches = branches
	if result.Stats.Branches == nil {
		result.Stats.Branches = []string{}
	}
	institution := *totals
	institution.AverageCGPA = math.Round(institution.AverageCGPA*100) / 100

	return &dto.PlacementListingResponse{
		Placements:  result.Placements,
		Stats:       result.Stats,
		Institution: institution,
		Filters:     listingFilters(opts),
	}, &result.Page, nil
}

// PlacementExportRows returns the filtered placements newest first, ignoring the requested sort.
func (s *TPOService) PlacementExportRows(ctx context.Context, actor *models.JWTClaims, opts placement.ListingOptions) ([]placement.PlacementView, error) {
	records, err := s.placementRecords(ctx, actor)
	if err != nil {
		return nil, err
	}
	opts.Sort = placement.SortDateDesc
	return placement.FilterPlacements(records, opts), nil
}

// StudentExportRows returns every student with derived placement fields in name order.
func (s *TPOService) StudentExportRows(ctx context.Context, actor *models.JWTClaims) ([]placement.StudentView, error) {
	if err := Authorize(actor, ActionTPOAdmin, nil); err != nil {
		return nil, err
	}
	records, err := loadStudentRecords(ctx, s.students, s.placements, models.StudentFilter{})
	if err != nil {
		return nil, err
	}
	views := placement.EvaluateAll(records)
	placement.SortStudents(views, placement.SortNameAsc)
	return views, nil
}

func (s *TPOService) placementRecords(ctx context.Context, actor *models.JWTClaims) ([]models.PlacementRecord, error) {
	if err := Authorize(actor, ActionTPOAdmin, nil); err != nil {
		return nil, err
	}
	records, err := s.placements.ListRecords(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placements")
	}
	return records, nil
}

func (s *TPOService) afterMutation(ctx context.Context, kind string) {
	s.metrics.RecordMutation(kind)
	_ = s.cache.Invalidate(ctx, tpoDashboardCachePattern)
}

func listingFilters(opts placement.ListingOptions) dto.PlacementListingFilters {
	filters := dto.PlacementListingFilters{Status: opts.Status, Branch: opts.Branch, Search: opts.Search, Sort: opts.Sort}
	if filters.Status == "" {
		filters.Status = placement.FilterAll
	}
	if filters.Branch == "" {
		filters.Branch = placement.FilterAll
	}
	if filters.Sort == "" {
		filters.Sort = placement.SortDateDesc
	}
	return filters
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
