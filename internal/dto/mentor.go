package dto

import (
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
)

// MentorDashboardResponse is one page of a mentor's cohort.
type MentorDashboardResponse struct {
	Mentor   *models.Mentor          `json:"mentor"`
	Students []placement.StudentView `json:"students"`
	Stats    placement.CohortStats   `json:"stats"`
	Filters  CohortFilters           `json:"filters"`
}

// CohortFilters echoes the applied cohort query options.
type CohortFilters struct {
	Search string `json:"q"`
	Status string `json:"status"`
	GPA    string `json:"gpa"`
	Sort   string `json:"sort"`
}
