package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-tracker-api/internal/models"
)

func offer(company string, status models.OfferStatus, pkg float64, unit models.PackageUnit) models.Placement {
	return models.Placement{ID: company, Company: company, Position: "SDE", Package: pkg, PackageUnit: unit, Status: status}
}

func TestNormalizePackage(t *testing.T) {
	assert.Equal(t, 12.0, NormalizePackage(12, models.UnitLPA))
	assert.Equal(t, 6.0, NormalizePackage(600, models.UnitThousands))
	assert.Equal(t, 42.0, NormalizePackage(42, models.PackageUnit("USD")))
	assert.Equal(t, 0.0, NormalizePackage(0, models.UnitThousands))
}

func TestTopOfferPrefersAccepted(t *testing.T) {
	placements := []models.Placement{
		offer("A", models.OfferRejected, 4.0, models.UnitLPA),
		offer("B", models.OfferAccepted, 6.0, models.UnitLPA),
		offer("C", models.OfferAccepted, 5.5, models.UnitLPA),
	}
	top := TopOffer(placements)
	require.NotNil(t, top)
	assert.Equal(t, "B", top.Company)
	assert.Equal(t, StatusPlaced, ClassifyStatus(placements))
}

func TestTopOfferAcceptedBeatsLargerPending(t *testing.T) {
	placements := []models.Placement{
		offer("Big", models.OfferPending, 20, models.UnitLPA),
		offer("Small", models.OfferAccepted, 300, models.UnitThousands),
	}
	top := TopOffer(placements)
	require.NotNil(t, top)
	assert.Equal(t, "Small", top.Company)
}

func TestTopOfferFallsBackToAnyStatus(t *testing.T) {
	placements := []models.Placement{offer("X", models.OfferPending, 3.0, models.UnitLPA)}
	top := TopOffer(placements)
	require.NotNil(t, top)
	assert.Equal(t, "X", top.Company)
	assert.Equal(t, StatusInProgress, ClassifyStatus(placements))
}

func TestTopOfferComparesNormalizedValues(t *testing.T) {
	placements := []models.Placement{
		offer("Lakh", models.OfferRejected, 5, models.UnitLPA),
		offer("Thousands", models.OfferPending, 800, models.UnitThousands),
	}
	top := TopOffer(placements)
	require.NotNil(t, top)
	assert.Equal(t, "Thousands", top.Company)
}

func TestTopOfferTieKeepsFirst(t *testing.T) {
	placements := []models.Placement{
		offer("First", models.OfferAccepted, 5, models.UnitLPA),
		offer("Second", models.OfferAccepted, 500, models.UnitThousands),
	}
	top := TopOffer(placements)
	require.NotNil(t, top)
	assert.Equal(t, "First", top.Company)
}

func TestTopOfferEmpty(t *testing.T) {
	assert.Nil(t, TopOffer(nil))
	assert.Equal(t, StatusNotPlaced, ClassifyStatus(nil))
}

func TestClassifyRejectedOnly(t *testing.T) {
	placements := []models.Placement{offer("R", models.OfferRejected, 9, models.UnitLPA)}
	assert.Equal(t, StatusInProgress, ClassifyStatus(placements))
}

func TestStatusFilterKeys(t *testing.T) {
	assert.Equal(t, "placed", StatusPlaced.FilterKey())
	assert.Equal(t, "in-progress", StatusInProgress.FilterKey())
	assert.Equal(t, "not-placed", StatusNotPlaced.FilterKey())
}

func TestCountOffers(t *testing.T) {
	counts := CountOffers([]models.Placement{
		offer("A", models.OfferAccepted, 1, models.UnitLPA),
		offer("B", models.OfferPending, 1, models.UnitLPA),
		offer("C", models.OfferPending, 1, models.UnitLPA),
		offer("D", models.OfferRejected, 1, models.UnitLPA),
	})
	assert.Equal(t, OfferCounts{Accepted: 1, Pending: 2, Rejected: 1}, counts)
}

func TestEvaluateProjectsTopOffer(t *testing.T) {
	view := Evaluate(StudentRecord{
		Student:    models.Student{ID: "s1", Name: "Asha"},
		Placements: []models.Placement{offer("Acme", models.OfferAccepted, 450, models.UnitThousands)},
	})
	require.NotNil(t, view.TopOffer)
	assert.Equal(t, "Acme", view.TopOffer.Company)
	assert.InDelta(t, 4.5, view.TopPackage(), 1e-9)
	assert.True(t, view.Placed())

	empty := Evaluate(StudentRecord{Student: models.Student{ID: "s2"}})
	assert.Nil(t, empty.TopOffer)
	assert.Equal(t, 0.0, empty.TopPackage())
	assert.Equal(t, StatusNotPlaced, empty.Status)
}
