package service

import (
	"github.com/noah-isme/placement-tracker-api/internal/models"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

// Action enumerates the protected operations.
type Action int

const (
	ActionViewStudentDashboard Action = iota
	ActionMutatePlacements
	ActionUpdateAcademics
	ActionStudentAssistant
	ActionMentorDashboard
	ActionTPOAdmin
)

// Authorize decides whether actor may perform action on target. target is the student the action concerns
// and may be nil for actions without one. Every role is switched exhaustively and unknown cases deny.
func Authorize(actor *models.JWTClaims, action Action, target *models.Student) error {
	if actor == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if allowed(actor, action, target) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "you are not allowed to access this resource")
}

func allowed(actor *models.JWTClaims, action Action, target *models.Student) bool {
	switch actor.Role {
	case models.RoleStudent:
		switch action {
		case ActionViewStudentDashboard, ActionMutatePlacements, ActionUpdateAcademics, ActionStudentAssistant:
			return ownsStudent(actor, target)
		default:
			return false
		}
	case models.RoleMentor:
		switch action {
		case ActionViewStudentDashboard, ActionUpdateAcademics:
			return mentors(actor, target)
		case ActionMentorDashboard:
			return actor.MentorID != ""
		default:
			return false
		}
	case models.RoleTPO:
		switch action {
		case ActionUpdateAcademics, ActionTPOAdmin:
			return true
		default:
			return false
		}
	case models.RolePrincipal:
		return false
	default:
		return false
	}
}

func ownsStudent(actor *models.JWTClaims, target *models.Student) bool {
	return target != nil && actor.StudentID != "" && target.ID == actor.StudentID
}

func mentors(actor *models.JWTClaims, target *models.Student) bool {
	return target != nil && actor.MentorID != "" && target.MentorID != nil && *target.MentorID == actor.MentorID
}
