package placement

import (
	"sort"
	"strings"

	"github.com/noah-isme/placement-tracker-api/internal/models"
)

// Placement listing sort keys.
const (
	SortDateDesc    = "date_desc"
	SortDateAsc     = "date_asc"
	SortCompanyAsc  = "company_asc"
	SortCompanyDesc = "company_desc"
)

// ListingTopN is the number of companies reported by the placement listing.
const ListingTopN = 8

// ListingOptions are the query options of the placement listing.
type ListingOptions struct {
	Status string
	Branch string
	Search string
	Sort   string
	Page   string
}

// PlacementView is a placement record with its normalized package.
type PlacementView struct {
	models.PlacementRecord
	PackageLPA float64 `json:"package_lpa"`
}

// ListingStats summarises the filtered placements.
type ListingStats struct {
	Filtered       int            `json:"filtered"`
	HighestPackage float64        `json:"highest_package"`
	TopCompanies   []CompanyCount `json:"top_companies"`
	PackageBuckets []Bucket       `json:"package_buckets"`
	Branches       []string       `json:"branches"`
}

// ListingResult is one page of placements together with statistics over the filtered set.
type ListingResult struct {
	Placements []PlacementView `json:"placements"`
	Page       Page            `json:"page"`
	Stats      ListingStats    `json:"stats"`
}

// FilterPlacements applies status, branch and search filters then sorts.
func FilterPlacements(records []models.PlacementRecord, opts ListingOptions) []PlacementView {
	needle := strings.ToLower(strings.TrimSpace(opts.Search))
	views := make([]PlacementView, 0, len(records))
	for _, r := range records {
		if opts.Status != "" && opts.Status != FilterAll && string(r.Status) != opts.Status {
			continue
		}
		if opts.Branch != "" && opts.Branch != FilterAll && r.StudentBranch != opts.Branch {
			continue
		}
		if needle != "" && !matchesPlacement(r, needle) {
			continue
		}
		views = append(views, PlacementView{PlacementRecord: r, PackageLPA: Normalized(r.Placement)})
	}
	SortPlacements(views, opts.Sort)
	return views
}

// QueryPlacements runs the placement listing query.
func QueryPlacements(records []models.PlacementRecord, opts ListingOptions) ListingResult {
	filtered := FilterPlacements(records, opts)
	pageItems, page := Paginate(filtered, opts.Page, ListingPageSize)

	companies := make([]string, 0, len(filtered))
	packages := make([]float64, 0, len(filtered))
	stats := ListingStats{Filtered: len(filtered)}
	for _, v := range filtered {
		companies = append(companies, v.Company)
		packages = append(packages, v.PackageLPA)
		if v.PackageLPA > stats.HighestPackage {
			stats.HighestPackage = v.PackageLPA
		}
	}
	stats.HighestPackage = round2(stats.HighestPackage)
	stats.TopCompanies = TopCompanies(companies, ListingTopN)
	stats.PackageBuckets = PackageBuckets(packages)

	branches := make([]string, 0, len(records))
	for _, r := range records {
		branches = append(branches, r.StudentBranch)
	}
	stats.Branches = DistinctBranches(branches)

	return ListingResult{Placements: pageItems, Page: page, Stats: stats}
}

// SortPlacements orders views in place. Everything is first ordered newest first so that
// ties under the other keys resolve to the most recent placement. Unknown keys sort newest first.
func SortPlacements(views []PlacementView, key string) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	var less func(a, b PlacementView) bool
	switch key {
	case SortDateAsc:
		less = func(a, b PlacementView) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortPackageDesc:
		less = func(a, b PlacementView) bool { return a.PackageLPA > b.PackageLPA }
	case SortPackageAsc:
		less = func(a, b PlacementView) bool { return a.PackageLPA < b.PackageLPA }
	case SortCompanyAsc:
		less = func(a, b PlacementView) bool { return strings.ToLower(a.Company) < strings.ToLower(b.Company) }
	case SortCompanyDesc:
		less = func(a, b PlacementView) bool { return strings.ToLower(a.Company) > strings.ToLower(b.Company) }
	default:
		return
	}
	sort.SliceStable(views, func(i, j int) bool { return less(views[i], views[j]) })
}

func matchesPlacement(r models.PlacementRecord, needle string) bool {
	for _, field := range []string{r.StudentName, r.StudentEmail, r.Company, r.Position} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
