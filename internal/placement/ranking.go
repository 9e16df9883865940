package placement

import "github.com/noah-isme/placement-tracker-api/internal/models"

// Status is the derived placement state of a student.
type Status string

const (
	StatusNotPlaced  Status = "Not Placed"
	StatusInProgress Status = "In Progress"
	StatusPlaced     Status = "Placed"
)

// FilterKey is the query-string form of the status.
func (s Status) FilterKey() string {
	switch s {
	case StatusPlaced:
		return "placed"
	case StatusInProgress:
		return "in-progress"
	default:
		return "not-placed"
	}
}

// TopOffer picks the representative offer: the best accepted offer, otherwise the best offer of any status.
// The first offer wins ties. It returns nil for an empty set.
func TopOffer(placements []models.Placement) *models.Placement {
	var bestAccepted, bestAny *models.Placement
	for i := range placements {
		p := &placements[i]
		if bestAny == nil || Normalized(*p) > Normalized(*bestAny) {
			bestAny = p
		}
		if p.Status != models.OfferAccepted {
			continue
		}
		if bestAccepted == nil || Normalized(*p) > Normalized(*bestAccepted) {
			bestAccepted = p
		}
	}
	if bestAccepted != nil {
		return bestAccepted
	}
	return bestAny
}

// ClassifyStatus derives the student's status from accepted offers only; it ignores TopOffer's fallback.
func ClassifyStatus(placements []models.Placement) Status {
	if len(placements) == 0 {
		return StatusNotPlaced
	}
	for _, p := range placements {
		if p.Status == models.OfferAccepted {
			return StatusPlaced
		}
	}
	return StatusInProgress
}

// OfferCounts tallies placements per offer status.
type OfferCounts struct {
	Accepted int `json:"accepted"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// CountOffers tallies the placement set by status.
func CountOffers(placements []models.Placement) OfferCounts {
	var counts OfferCounts
	for _, p := range placements {
		switch p.Status {
		case models.OfferAccepted:
			counts.Accepted++
		case models.OfferPending:
			counts.Pending++
		case models.OfferRejected:
			counts.Rejected++
		}
	}
	return counts
}
