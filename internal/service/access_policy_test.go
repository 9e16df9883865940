package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/placement-tracker-api/internal/models"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

func strPtr(v string) *string { return &v }

func TestAuthorizeMatrix(t *testing.T) {
	owned := &models.Student{ID: "s1", MentorID: strPtr("m1")}
	student := &models.JWTClaims{Role: models.RoleStudent, StudentID: "s1"}
	otherStudent := &models.JWTClaims{Role: models.RoleStudent, StudentID: "s2"}
	mentor := &models.JWTClaims{Role: models.RoleMentor, MentorID: "m1"}
	otherMentor := &models.JWTClaims{Role: models.RoleMentor, MentorID: "m2"}
	tpo := &models.JWTClaims{Role: models.RoleTPO}
	principal := &models.JWTClaims{Role: models.RolePrincipal}
	unknown := &models.JWTClaims{Role: models.UserRole("janitor")}

	cases := []struct {
		name   string
		actor  *models.JWTClaims
		action Action
		allow  bool
	}{
		{"student views own dashboard", student, ActionViewStudentDashboard, true},
		{"student views other dashboard", otherStudent, ActionViewStudentDashboard, false},
		{"student edits own placements", student, ActionMutatePlacements, true},
		{"student updates own academics", student, ActionUpdateAcademics, true},
		{"student uses own assistant", student, ActionStudentAssistant, true},
		{"student opens tpo pages", student, ActionTPOAdmin, false},
		{"assigned mentor views dashboard", mentor, ActionViewStudentDashboard, true},
		{"other mentor views dashboard", otherMentor, ActionViewStudentDashboard, false},
		{"assigned mentor updates academics", mentor, ActionUpdateAcademics, true},
		{"mentor edits placements", mentor, ActionMutatePlacements, false},
		{"mentor opens mentor dashboard", mentor, ActionMentorDashboard, true},
		{"tpo updates academics", tpo, ActionUpdateAcademics, true},
		{"tpo administers", tpo, ActionTPOAdmin, true},
		{"tpo views student dashboard", tpo, ActionViewStudentDashboard, false},
		{"principal administers", principal, ActionTPOAdmin, false},
		{"unknown role", unknown, ActionViewStudentDashboard, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.action, owned)
			if tc.allow {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, appErrors.ErrForbidden))
		})
	}
}

func TestAuthorizeRequiresActor(t *testing.T) {
	err := Authorize(nil, ActionTPOAdmin, nil)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthorizeUnassignedStudent(t *testing.T) {
	mentor := &models.JWTClaims{Role: models.RoleMentor, MentorID: "m1"}
	err := Authorize(mentor, ActionViewStudentDashboard, &models.Student{ID: "s9"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
