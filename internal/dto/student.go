package dto

import (
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
)

// PlacementRequest is the payload for adding or editing a placement.
// An empty unit defaults to LPA and an empty status to Pending; unrecognised units are stored as given.
type PlacementRequest struct {
	Company     string             `json:"company" validate:"required,max=100"`
	Position    string             `json:"position" validate:"required,max=100"`
	Package     *float64           `json:"package" validate:"required"`
	PackageUnit models.PackageUnit `json:"package_unit" validate:"max=5"`
	Status      models.OfferStatus `json:"status" validate:"omitempty,oneof=Pending Accepted Rejected"`
}

// SemesterGPA is one semester entry of an academic update.
type SemesterGPA struct {
	SemesterNumber int      `json:"semester_number" validate:"min=1,max=8"`
	GPA            *float64 `json:"gpa" validate:"required"`
}

// AcademicUpdateRequest moves the current semester and upserts semester GPAs.
type AcademicUpdateRequest struct {
	CurrentSemester int           `json:"current_semester" validate:"min=1,max=8"`
	Semesters       []SemesterGPA `json:"semesters" validate:"dive"`
}

// SemesterUpdateRequest sets the GPA of the semester named in the path.
type SemesterUpdateRequest struct {
	GPA *float64 `json:"gpa" validate:"required"`
}

// SemesterUpdateResponse reports the recomputed CGPA after a single semester update.
type SemesterUpdateResponse struct {
	SemesterNumber int     `json:"semester_number"`
	GPA            float64 `json:"gpa"`
	CGPA           float64 `json:"cgpa"`
	Message        string  `json:"message"`
}

// StudentDashboardResponse is everything shown on a student's own page.
type StudentDashboardResponse struct {
	Student         models.Student        `json:"student"`
	Semesters       []models.Semester     `json:"semesters"`
	Placements      []models.Placement    `json:"placements"`
	Status          placement.Status      `json:"placement_status"`
	TopOffer        *placement.OfferView  `json:"top_offer"`
	Offers          placement.OfferCounts `json:"offers"`
	CurrentSemester int                   `json:"current_semester"`
}
