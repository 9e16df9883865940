package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-tracker-api/internal/dto"
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
	"github.com/noah-isme/placement-tracker-api/internal/repository"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListSemesters(ctx context.Context, studentID string) ([]models.Semester, error)
}

type studentAcademicWriter interface {
	studentReader
	UpdateAcademics(ctx context.Context, update repository.AcademicUpdate) (*models.AcademicRecord, error)
}

type placementStore interface {
	FindByID(ctx context.Context, id string) (*models.Placement, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Placement, error)
	Create(ctx context.Context, placement *models.Placement) error
	Update(ctx context.Context, placement *models.Placement) error
	Delete(ctx context.Context, id string) error
}

// Mutation kinds reported to metrics.
const (
	mutationPlacementCreate = "placement_create"
	mutationPlacementUpdate = "placement_update"
	mutationPlacementDelete = "placement_delete"
	mutationAcademics       = "academics"
	mutationSemester        = "semester"
	mutationAssign          = "assign"
	mutationBulkAssign      = "bulk_assign"
)

// StudentService serves the student dashboard, placement edits and academic updates.
type StudentService struct {
	students   studentAcademicWriter
	placements placementStore
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(students studentAcademicWriter, placements placementStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, placements: placements, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Dashboard returns the student's profile, semesters, placements and derived placement state.
func (s *StudentService) Dashboard(ctx context.Context, actor *models.JWTClaims, studentID string) (*dto.StudentDashboardResponse, error) {
	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionViewStudentDashboard, student); err != nil {
		return nil, err
	}

	semesters, err := s.students.ListSemesters(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semesters")
	}
	placements, err := s.placements.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placements")
	}
	if semesters == nil {
		semesters = []models.Semester{}
	}
	if placements == nil {
		placements = []models.Placement{}
	}

	view := placement.Evaluate(placement.StudentRecord{Student: *student, Placements: placements})
	return &dto.StudentDashboardResponse{
		Student:         *student,
		Semesters:       semesters,
		Placements:      placements,
		Status:          view.Status,
		TopOffer:        view.TopOffer,
		Offers:          placement.CountOffers(placements),
		CurrentSemester: student.CurrentSemester,
	}, nil
}

// AddPlacement records a new offer for the student.
func (s *StudentService) AddPlacement(ctx context.Context, actor *models.JWTClaims, studentID string, req dto.PlacementRequest) (*models.Placement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payload")
	}
	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionMutatePlacements, student); err != nil {
		return nil, err
	}

	record := &models.Placement{StudentID: student.ID}
	applyPlacement(record, req)
	if err := s.placements.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create placement")
	}
	s.afterMutation(ctx, mutationPlacementCreate)
	return record, nil
}

// UpdatePlacement edits an offer owned by the requesting student.
func (s *StudentService) UpdatePlacement(ctx context.Context, actor *models.JWTClaims, placementID string, req dto.PlacementRequest) (*models.Placement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payload")
	}
	record, err := s.loadOwnedPlacement(ctx, actor, placementID)
	if err != nil {
		return nil, err
	}

	applyPlacement(record, req)
	if err := s.placements.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "placement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update placement")
	}
	s.afterMutation(ctx, mutationPlacementUpdate)
	return record, nil
}

// DeletePlacement removes an offer owned by the requesting student.
func (s *StudentService) DeletePlacement(ctx context.Context, actor *models.JWTClaims, placementID string) error {
	record, err := s.loadOwnedPlacement(ctx, actor, placementID)
	if err != nil {
		return err
	}
	if err := s.placements.Delete(ctx, record.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "placement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete placement")
	}
	s.afterMutation(ctx, mutationPlacementDelete)
	return nil
}

// UpdateAcademics sets the current semester, upserts the given GPAs and recomputes the CGPA
// from completed semesters only.
func (s *StudentService) UpdateAcademics(ctx context.Context, actor *models.JWTClaims, studentID string, req dto.AcademicUpdateRequest) (*models.AcademicRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academic payload")
	}
	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionUpdateAcademics, student); err != nil {
		return nil, err
	}

	entries := make([]models.Semester, 0, len(req.Semesters))
	for _, sem := range req.Semesters {
		entries = append(entries, models.Semester{StudentID: student.ID, SemesterNumber: sem.SemesterNumber, GPA: *sem.GPA})
	}
	current := req.CurrentSemester
	record, err := s.students.UpdateAcademics(ctx, repository.AcademicUpdate{
		StudentID:       student.ID,
		CurrentSemester: &current,
		Semesters:       entries,
		Recompute:       placement.CutoffCGPA,
	})
	if err != nil {
		return nil, s.academicError(err)
	}
	s.afterMutation(ctx, mutationAcademics)
	return record, nil
}

// UpdateSemester sets one semester's GPA and recomputes the CGPA as the rounded average of all stored semesters.
func (s *StudentService) UpdateSemester(ctx context.Context, actor *models.JWTClaims, studentID, rawSemester string, req dto.SemesterUpdateRequest) (*dto.SemesterUpdateResponse, error) {
	number, err := strconv.Atoi(rawSemester)
	if err != nil || number < models.FirstSemester || number > models.LastSemester {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester number must be between 1 and 8")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid GPA value")
	}
	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionUpdateAcademics, student); err != nil {
		return nil, err
	}

	record, err := s.students.UpdateAcademics(ctx, repository.AcademicUpdate{
		StudentID: student.ID,
		Semesters: []models.Semester{{StudentID: student.ID, SemesterNumber: number, GPA: *req.GPA}},
		Recompute: func(_ int, semesters []models.Semester) float64 {
			return placement.FullAverageCGPA(semesters)
		},
	})
	if err != nil {
		return nil, s.academicError(err)
	}
	s.afterMutation(ctx, mutationSemester)
	return &dto.SemesterUpdateResponse{
		SemesterNumber: number,
		GPA:            *req.GPA,
		CGPA:           record.CGPA,
		Message:        fmt.Sprintf("Semester %d updated. CGPA is now %s.", number, formatCGPA(record.CGPA)),
	}, nil
}

func (s *StudentService) loadStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

func (s *StudentService) loadOwnedPlacement(ctx context.Context, actor *models.JWTClaims, placementID string) (*models.Placement, error) {
	record, err := s.placements.FindByID(ctx, placementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "placement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placement")
	}
	student, err := s.loadStudent(ctx, record.StudentID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionMutatePlacements, student); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *StudentService) academicError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update academics")
}

// afterMutation drops cached institution dashboards. Invalidation failures are logged by the cache service.
func (s *StudentService) afterMutation(ctx context.Context, kind string) {
	s.metrics.RecordMutation(kind)
	_ = s.cache.Invalidate(ctx, tpoDashboardCachePattern)
}

func applyPlacement(record *models.Placement, req dto.PlacementRequest) {
	record.Company = req.Company
	record.Position = req.Position
	record.Package = *req.Package
	record.PackageUnit = req.PackageUnit
	if record.PackageUnit == "" {
		record.PackageUnit = models.UnitLPA
	}
	record.Status = req.Status
	if record.Status == "" {
		record.Status = models.OfferPending
	}
}

// formatCGPA prints the shortest representation, keeping one decimal for whole numbers.
func formatCGPA(v float64) string {
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
