// Package placement derives per-student placement and academic views from stored records
// and runs the cohort queries behind the mentor and placement office dashboards.
// Everything here is pure: callers load records, these functions compute.
package placement

import (
	"math"

	"github.com/noah-isme/placement-tracker-api/internal/models"
)

// thousandsPerLPA converts K-denominated packages into LPA.
const thousandsPerLPA = 100.0

// NormalizePackage converts a raw package into LPA. Unknown units pass through unchanged.
func NormalizePackage(value float64, unit models.PackageUnit) float64 {
	switch unit {
	case models.UnitLPA:
		return value
	case models.UnitThousands:
		return value / thousandsPerLPA
	default:
		return value
	}
}

// Normalized returns the placement's package in LPA.
func Normalized(p models.Placement) float64 {
	return NormalizePackage(p.Package, p.PackageUnit)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
