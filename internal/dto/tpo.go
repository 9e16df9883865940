package dto

import (
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
)

// TPODashboardFilter narrows the placement office dashboard.
type TPODashboardFilter struct {
	Branch   string `form:"branch" json:"branch"`
	MentorID string `form:"mentor" json:"mentor"`
	Status   string `form:"status" json:"status"`
}

// InstitutionStats are the headline numbers of the placement office dashboard.
type InstitutionStats struct {
	TotalStudents  int     `json:"total_students"`
	Placed         int     `json:"placed"`
	NotPlaced      int     `json:"not_placed"`
	InProgress     int     `json:"in_progress"`
	AverageCGPA    float64 `json:"average_cgpa"`
	HighestPackage float64 `json:"highest_package"`
}

// TPODashboardResponse lists students with derived placement fields, mentors and branches.
type TPODashboardResponse struct {
	Students []placement.StudentView `json:"students"`
	Mentors  []models.Mentor         `json:"mentors"`
	Branches []string                `json:"branches"`
	Stats    InstitutionStats        `json:"stats"`
	Filters  TPODashboardFilter      `json:"filters"`
}

// AssignMentorRequest sets one student's mentor. MentorID "none" clears the assignment.
type AssignMentorRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	MentorID  string `json:"mentor_id" validate:"required"`
}

// BulkAssignRequest assigns one mentor to many students.
type BulkAssignRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,dive,required"`
	MentorID   string   `json:"mentor_id" validate:"required"`
}

// BulkAssignResponse reports how many students were updated.
type BulkAssignResponse struct {
	MentorID string `json:"mentor_id"`
	Updated  int    `json:"updated"`
}

// PlacementListingResponse is one page of the placement listing with institution and listing stats.
type PlacementListingResponse struct {
	Placements  []placement.PlacementView `json:"placements"`
	Stats       placement.ListingStats    `json:"stats"`
	Institution models.StudentTotals      `json:"institution"`
	Filters     PlacementListingFilters   `json:"filters"`
}

// PlacementListingFilters echoes the applied listing options.
type PlacementListingFilters struct {
	Status string `json:"status"`
	Branch string `json:"branch"`
	Search string `json:"q"`
	Sort   string `json:"sort"`
}
