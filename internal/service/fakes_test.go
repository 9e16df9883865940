package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/repository"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

type fakeStudents struct {
	students  []models.Student
	semesters map[string][]models.Semester
	mentors   *fakeMentors
	listErr   error
	listCalls int
	findCalls int
}

func (f *fakeStudents) find(id string) *models.Student {
	for i := range f.students {
		if f.students[i].ID == id {
			return &f.students[i]
		}
	}
	return nil
}

func (f *fakeStudents) FindByID(_ context.Context, id string) (*models.Student, error) {
	f.findCalls++
	s := f.find(id)
	if s == nil {
		return nil, sql.ErrNoRows
	}
	out := *s
	return &out, nil
}

func (f *fakeStudents) List(_ context.Context, filter models.StudentFilter) ([]models.Student, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Student, 0, len(f.students))
	for _, s := range f.students {
		if filter.Branch != "" && s.Branch != filter.Branch {
			continue
		}
		if filter.MentorID != "" && (s.MentorID == nil || *s.MentorID != filter.MentorID) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (f *fakeStudents) ListBranches(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, s := range f.students {
		if s.Branch != "" && !seen[s.Branch] {
			seen[s.Branch] = true
			out = append(out, s.Branch)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStudents) Totals(context.Context) (*models.StudentTotals, error) {
	totals := &models.StudentTotals{Total: len(f.students)}
	var sum float64
	for _, s := range f.students {
		sum += s.CGPA
	}
	if len(f.students) > 0 {
		totals.AverageCGPA = sum / float64(len(f.students))
	}
	return totals, nil
}

func (f *fakeStudents) AssignMentor(_ context.Context, studentID string, mentorID *string) error {
	s := f.find(studentID)
	if s == nil {
		return sql.ErrNoRows
	}
	s.MentorID = mentorID
	s.MentorName = nil
	if mentorID != nil && f.mentors != nil {
		for _, m := range f.mentors.mentors {
			if m.ID == *mentorID {
				name := m.Name
				s.MentorName = &name
			}
		}
	}
	return nil
}

func (f *fakeStudents) BulkAssignMentor(ctx context.Context, studentIDs []string, mentorID string) error {
	for _, id := range studentIDs {
		if f.find(id) == nil {
			return sql.ErrNoRows
		}
	}
	for _, id := range studentIDs {
		m := mentorID
		if err := f.AssignMentor(ctx, id, &m); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStudents) ListSemesters(_ context.Context, studentID string) ([]models.Semester, error) {
	return append([]models.Semester(nil), f.semesters[studentID]...), nil
}

func (f *fakeStudents) ListSemestersByStudents(_ context.Context, ids []string) (map[string][]models.Semester, error) {
	out := make(map[string][]models.Semester, len(ids))
	for _, id := range ids {
		if sems, ok := f.semesters[id]; ok {
			out[id] = sems
		}
	}
	return out, nil
}

func (f *fakeStudents) UpdateAcademics(_ context.Context, update repository.AcademicUpdate) (*models.AcademicRecord, error) {
	s := f.find(update.StudentID)
	if s == nil {
		return nil, sql.ErrNoRows
	}
	if f.semesters == nil {
		f.semesters = map[string][]models.Semester{}
	}
	stored := f.semesters[s.ID]
	for _, sem := range update.Semesters {
		replaced := false
		for i := range stored {
			if stored[i].SemesterNumber == sem.SemesterNumber {
				stored[i].GPA = sem.GPA
				replaced = true
			}
		}
		if !replaced {
			stored = append(stored, sem)
		}
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].SemesterNumber < stored[j].SemesterNumber })
	f.semesters[s.ID] = stored

	current := s.CurrentSemester
	if update.CurrentSemester != nil {
		current = *update.CurrentSemester
	}
	s.CurrentSemester = current
	s.CGPA = update.Recompute(current, stored)
	return &models.AcademicRecord{StudentID: s.ID, CurrentSemester: current, CGPA: s.CGPA, Semesters: stored}, nil
}

type fakePlacements struct {
	students   *fakeStudents
	placements []models.Placement
	seq        int
}

func (f *fakePlacements) FindByID(_ context.Context, id string) (*models.Placement, error) {
	for _, p := range f.placements {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakePlacements) ListByStudent(_ context.Context, studentID string) ([]models.Placement, error) {
	var out []models.Placement
	for _, p := range f.placements {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlacements) ListByStudents(_ context.Context, ids []string) (map[string][]models.Placement, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := map[string][]models.Placement{}
	for _, p := range f.placements {
		if wanted[p.StudentID] {
			out[p.StudentID] = append(out[p.StudentID], p)
		}
	}
	return out, nil
}

func (f *fakePlacements) ListRecords(context.Context) ([]models.PlacementRecord, error) {
	out := make([]models.PlacementRecord, 0, len(f.placements))
	for _, p := range f.placements {
		rec := models.PlacementRecord{Placement: p}
		if s := f.students.find(p.StudentID); s != nil {
			rec.StudentName, rec.StudentEmail, rec.StudentBranch = s.Name, s.Email, s.Branch
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakePlacements) Create(_ context.Context, p *models.Placement) error {
	f.seq++
	p.ID = "new-" + strconv.Itoa(f.seq)
	p.CreatedAt = time.Date(2024, 6, 1, 0, 0, f.seq, 0, time.UTC)
	f.placements = append(f.placements, *p)
	return nil
}

func (f *fakePlacements) Update(_ context.Context, p *models.Placement) error {
	for i := range f.placements {
		if f.placements[i].ID == p.ID {
			f.placements[i] = *p
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakePlacements) Delete(_ context.Context, id string) error {
	for i := range f.placements {
		if f.placements[i].ID == id {
			f.placements = append(f.placements[:i], f.placements[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeMentors struct {
	mentors []models.Mentor
}

func (f *fakeMentors) List(context.Context) ([]models.Mentor, error) {
	return append([]models.Mentor(nil), f.mentors...), nil
}

func (f *fakeMentors) FindByID(_ context.Context, id string) (*models.Mentor, error) {
	for _, m := range f.mentors {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

// memoryCache stores JSON encoded values like the redis repository does.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

func strID(v string) *string { return &v }

// sampleInstitution builds three students over two mentors:
// ana (CSE, placed), ben (ECE, in progress) and cai (CSE, no offers, unassigned).
func sampleInstitution() (*fakeStudents, *fakePlacements, *fakeMentors) {
	mentors := &fakeMentors{mentors: []models.Mentor{
		{ID: "m1", Name: "Dr. Rao", Department: "CSE"},
		{ID: "m2", Name: "Dr. Iyer", Department: "ECE"},
	}}
	students := &fakeStudents{
		mentors: mentors,
		students: []models.Student{
			{ID: "s1", UserID: "u1", Name: "Ana", Email: "ana@example.com", Branch: "CSE", MentorID: strID("m1"), MentorName: strID("Dr. Rao"), CGPA: 9, CurrentSemester: 5},
			{ID: "s2", UserID: "u2", Name: "Ben", Email: "ben@example.com", Branch: "ECE", MentorID: strID("m1"), MentorName: strID("Dr. Rao"), CGPA: 7.5, CurrentSemester: 5},
			{ID: "s3", UserID: "u3", Name: "Cai", Email: "cai@example.com", Branch: "CSE", CGPA: 8, CurrentSemester: 3},
		},
		semesters: map[string][]models.Semester{
			"s1": {{StudentID: "s1", SemesterNumber: 1, GPA: 9}, {StudentID: "s1", SemesterNumber: 2, GPA: 9}},
			"s3": {{StudentID: "s3", SemesterNumber: 1, GPA: 8}},
		},
	}
	placements := &fakePlacements{students: students, placements: []models.Placement{
		{ID: "p1", StudentID: "s1", Company: "Acme", Position: "SDE", Package: 12, PackageUnit: models.UnitLPA, Status: models.OfferAccepted, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "p2", StudentID: "s1", Company: "Globex", Position: "SDE", Package: 1800, PackageUnit: models.UnitThousands, Status: models.OfferRejected, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "p3", StudentID: "s2", Company: "Initech", Position: "Analyst", Package: 6, PackageUnit: models.UnitLPA, Status: models.OfferPending, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	return students, placements, mentors
}

func tpoClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u9", Role: models.RoleTPO}
}

func studentClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-" + id, Role: models.RoleStudent, StudentID: id}
}

func mentorClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-" + id, Role: models.RoleMentor, MentorID: id}
}
