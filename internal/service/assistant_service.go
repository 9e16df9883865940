package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-tracker-api/internal/dto"
	"github.com/noah-isme/placement-tracker-api/internal/models"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

// TextGenerator produces an answer for a fully assembled prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type assistantStudentRepository interface {
	studentLister
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListSemesters(ctx context.Context, studentID string) ([]models.Semester, error)
	ListSemestersByStudents(ctx context.Context, studentIDs []string) (map[string][]models.Semester, error)
}

type assistantPlacementRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Placement, error)
	ListRecords(ctx context.Context) ([]models.PlacementRecord, error)
}

type mentorLister interface {
	List(ctx context.Context) ([]models.Mentor, error)
}

const (
	assistantScopeTPO     = "tpo"
	assistantScopeStudent = "student"

	tpoPreamble     = "You are an analytics assistant for a college placement office. Answer using only the institution data below."
	studentPreamble = "You are a guidance assistant for one student. The data below is that student's own academic and placement record."
	studentRules    = "- Never reveal or speculate about other students or mentors.\n- Offer guidance, preparation tips and analysis of this record.\n- Keep the tone friendly and encouraging."
	htmlRules       = "- Respond only with clean HTML, never markdown.\n- Use <h3>, <p>, <ul>, <li> and <b> for structure.\n- Keep the answer clear and well organised."
)

type semesterSnapshot struct {
	SemesterNumber int     `json:"semester_number"`
	GPA            float64 `json:"gpa"`
}

type studentSnapshot struct {
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Branch          string             `json:"branch"`
	CGPA            float64            `json:"cgpa"`
	CurrentSemester int                `json:"current_semester"`
	Semesters       []semesterSnapshot `json:"semesters"`
	Mentor          string             `json:"mentor"`
}

type placementSnapshot struct {
	Student  string             `json:"student"`
	Branch   string             `json:"branch"`
	Company  string             `json:"company"`
	Position string             `json:"position"`
	Package  float64            `json:"package"`
	Unit     models.PackageUnit `json:"unit"`
	Status   models.OfferStatus `json:"status"`
}

type menteeSnapshot struct {
	Name   string `json:"name"`
	Branch string `json:"branch"`
}

type mentorSnapshot struct {
	Name       string           `json:"name"`
	Department string           `json:"department"`
	Students   []menteeSnapshot `json:"students"`
}

type institutionSnapshot struct {
	Students   []studentSnapshot   `json:"students"`
	Placements []placementSnapshot `json:"placements"`
	Mentors    []mentorSnapshot    `json:"mentors"`
}

type ownPlacementSnapshot struct {
	Company     string             `json:"company"`
	Position    string             `json:"position"`
	Package     float64            `json:"package"`
	PackageUnit models.PackageUnit `json:"package_unit"`
	Status      models.OfferStatus `json:"status"`
}

type personalSnapshot struct {
	studentSnapshot
	Placements []ownPlacementSnapshot `json:"placements"`
}

// AssistantService answers free-text questions over a JSON snapshot of the caller's visible data.
type AssistantService struct {
	students   assistantStudentRepository
	placements assistantPlacementRepository
	mentors    mentorLister
	generator  TextGenerator
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAssistantService constructs an AssistantService. A nil generator disables the assistant.
func NewAssistantService(students assistantStudentRepository, placements assistantPlacementRepository, mentors mentorLister, generator TextGenerator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssistantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantService{
		students:   students,
		placements: placements,
		mentors:    mentors,
		generator:  generator,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
	}
}

// Enabled reports whether a generator is configured.
func (s *AssistantService) Enabled() bool {
	return s != nil && s.generator != nil
}

// AskTPO answers a placement office question over the whole institution.
func (s *AssistantService) AskTPO(ctx context.Context, actor *models.JWTClaims, req dto.AssistantRequest) (*dto.AssistantResponse, error) {
	if err := Authorize(actor, ActionTPOAdmin, nil); err != nil {
		s.metrics.RecordAssistant(assistantScopeTPO, "denied")
		return nil, err
	}
	if err := s.precheck(assistantScopeTPO, req); err != nil {
		return nil, err
	}
	snapshot, err := s.institutionSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.ask(ctx, assistantScopeTPO, buildPrompt(tpoPreamble, snapshot, req.Question, ""))
}

// AskStudent answers a student's question over their own record only.
// Ownership depends only on the id, so refused requests are decided before any read.
func (s *AssistantService) AskStudent(ctx context.Context, actor *models.JWTClaims, studentID string, req dto.AssistantRequest) (*dto.AssistantResponse, error) {
	if err := Authorize(actor, ActionStudentAssistant, &models.Student{ID: studentID}); err != nil {
		s.metrics.RecordAssistant(assistantScopeStudent, "denied")
		return nil, err
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	if err := s.precheck(assistantScopeStudent, req); err != nil {
		return nil, err
	}
	snapshot, err := s.personalSnapshot(ctx, student)
	if err != nil {
		return nil, err
	}
	return s.ask(ctx, assistantScopeStudent, buildPrompt(studentPreamble, snapshot, req.Question, studentRules))
}

func (s *AssistantService) precheck(scope string, req dto.AssistantRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "question is required")
	}
	if !s.Enabled() {
		s.metrics.RecordAssistant(scope, "disabled")
		return appErrors.Clone(appErrors.ErrUnavailable, "assistant is not configured")
	}
	return nil
}

func (s *AssistantService) ask(ctx context.Context, scope, prompt string) (*dto.AssistantResponse, error) {
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.metrics.RecordAssistant(scope, "error")
		s.logger.Warn("assistant generation failed", zap.String("scope", scope), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "assistant is temporarily unavailable")
	}
	s.metrics.RecordAssistant(scope, "ok")
	return &dto.AssistantResponse{Answer: answer}, nil
}

func (s *AssistantService) institutionSnapshot(ctx context.Context) (*institutionSnapshot, error) {
	students, err := s.students.List(ctx, models.StudentFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	semesters, err := s.students.ListSemestersByStudents(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semesters")
	}
	records, err := s.placements.ListRecords(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placements")
	}
	mentors, err := s.mentors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentors")
	}

	snapshot := &institutionSnapshot{
		Students:   make([]studentSnapshot, 0, len(students)),
		Placements: make([]placementSnapshot, 0, len(records)),
		Mentors:    make([]mentorSnapshot, 0, len(mentors)),
	}
	mentees := make(map[string][]menteeSnapshot)
	for _, st := range students {
		snapshot.Students = append(snapshot.Students, toStudentSnapshot(st, semesters[st.ID], "Not Assigned"))
		if st.MentorID != nil {
			mentees[*st.MentorID] = append(mentees[*st.MentorID], menteeSnapshot{Name: st.Name, Branch: st.Branch})
		}
	}
	for _, r := range records {
		snapshot.Placements = append(snapshot.Placements, placementSnapshot{
			Student:  r.StudentName,
			Branch:   r.StudentBranch,
			Company:  r.Company,
			Position: r.Position,
			Package:  r.Package,
			Unit:     r.PackageUnit,
			Status:   r.Status,
		})
	}
	for _, m := range mentors {
		list := mentees[m.ID]
		if list == nil {
			list = []menteeSnapshot{}
		}
		snapshot.Mentors = append(snapshot.Mentors, mentorSnapshot{Name: m.Name, Department: m.Department, Students: list})
	}
	return snapshot, nil
}

func (s *AssistantService) personalSnapshot(ctx context.Context, student *models.Student) (*personalSnapshot, error) {
	semesters, err := s.students.ListSemesters(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semesters")
	}
	placements, err := s.placements.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placements")
	}
	snapshot := &personalSnapshot{
		studentSnapshot: toStudentSnapshot(*student, semesters, "No mentor assigned"),
		Placements:      make([]ownPlacementSnapshot, 0, len(placements)),
	}
	for _, p := range placements {
		snapshot.Placements = append(snapshot.Placements, ownPlacementSnapshot{
			Company:     p.Company,
			Position:    p.Position,
			Package:     p.Package,
			PackageUnit: p.PackageUnit,
			Status:      p.Status,
		})
	}
	return snapshot, nil
}

func toStudentSnapshot(st models.Student, semesters []models.Semester, noMentor string) studentSnapshot {
	out := studentSnapshot{
		Name:            st.Name,
		Email:           st.Email,
		Branch:          st.Branch,
		CGPA:            st.CGPA,
		CurrentSemester: st.CurrentSemester,
		Semesters:       make([]semesterSnapshot, 0, len(semesters)),
		Mentor:          noMentor,
	}
	if st.MentorName != nil && *st.MentorName != "" {
		out.Mentor = *st.MentorName
	}
	for _, sem := range semesters {
		out.Semesters = append(out.Semesters, semesterSnapshot{SemesterNumber: sem.SemesterNumber, GPA: sem.GPA})
	}
	return out
}

func buildPrompt(preamble string, snapshot interface{}, question, extraRules string) string {
	data, err := json.Marshal(snapshot)
	if err != nil {
		data = []byte("{}")
	}
	var b strings.Builder
	b.WriteString(preamble)
	fmt.Fprintf(&b, "\n\nData:\n%s\n\nQuestion:\n%s\n\nRules:\n", data, strings.TrimSpace(question))
	if extraRules != "" {
		b.WriteString(extraRules)
		b.WriteString("\n")
	}
	b.WriteString(htmlRules)
	return b.String()
}
