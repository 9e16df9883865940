package placement

import "github.com/noah-isme/placement-tracker-api/internal/models"

// StudentRecord is a stored student together with all of its placements.
type StudentRecord struct {
	Student    models.Student
	Placements []models.Placement
}

// OfferView projects a top offer for presentation.
type OfferView struct {
	PlacementID string             `json:"placement_id"`
	Company     string             `json:"company"`
	Position    string             `json:"position"`
	PackageLPA  float64            `json:"package_lpa"`
	Status      models.OfferStatus `json:"status"`
}

// StudentView is a student with derived placement fields.
type StudentView struct {
	models.Student
	Status   Status     `json:"placement_status"`
	TopOffer *OfferView `json:"top_offer"`
}

// Placed reports whether the student holds an accepted offer.
func (v StudentView) Placed() bool {
	return v.Status == StatusPlaced
}

// TopPackage is the top offer's LPA value, 0 without a top offer.
func (v StudentView) TopPackage() float64 {
	if v.TopOffer == nil {
		return 0
	}
	return v.TopOffer.PackageLPA
}

// Evaluate computes the derived view of one student.
func Evaluate(record StudentRecord) StudentView {
	view := StudentView{
		Student: record.Student,
		Status:  ClassifyStatus(record.Placements),
	}
	if top := TopOffer(record.Placements); top != nil {
		view.TopOffer = &OfferView{
			PlacementID: top.ID,
			Company:     top.Company,
			Position:    top.Position,
			PackageLPA:  Normalized(*top),
			Status:      top.Status,
		}
	}
	return view
}

// EvaluateAll evaluates records preserving order.
func EvaluateAll(records []StudentRecord) []StudentView {
	views := make([]StudentView, 0, len(records))
	for _, r := range records {
		views = append(views, Evaluate(r))
	}
	return views
}
