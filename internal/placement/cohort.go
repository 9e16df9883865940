package placement

import (
	"sort"
	"strings"
)

// Shared filter value meaning "no filter".
const FilterAll = "all"

// Student cohort sort keys.
const (
	SortNameAsc     = "name_asc"
	SortCGPAAsc     = "cgpa_asc"
	SortCGPADesc    = "cgpa_desc"
	SortPackageAsc  = "package_asc"
	SortPackageDesc = "package_desc"
)

// CohortTopN is the number of top earners reported by the cohort query.
const CohortTopN = 6

// CohortOptions are the query options of the student cohort query.
type CohortOptions struct {
	Search string
	Status string
	GPA    string
	Sort   string
	Page   string
}

// CohortStats summarises a filtered cohort.
type CohortStats struct {
	Total          int      `json:"total"`
	ScopeTotal     int      `json:"scope_total"`
	Placed         int      `json:"placed"`
	AverageCGPA    float64  `json:"average_cgpa"`
	HighestPackage float64  `json:"highest_package"`
	CGPABuckets    []Bucket `json:"cgpa_buckets"`
	TopEarners     []Earner `json:"top_earners"`
	Branches       []string `json:"branches"`
}

// CohortResult is one page of the cohort together with its statistics.
type CohortResult struct {
	Students []StudentView `json:"students"`
	Page     Page          `json:"page"`
	Stats    CohortStats   `json:"stats"`
}

// FilterCohort applies search, status and GPA filters then sorts. The scope is assumed to be applied already.
func FilterCohort(scope []StudentRecord, opts CohortOptions) []StudentView {
	needle := strings.ToLower(strings.TrimSpace(opts.Search))
	views := make([]StudentView, 0, len(scope))
	for _, r := range scope {
		if needle != "" && !matchesStudent(r, needle) {
			continue
		}
		view := Evaluate(r)
		if !statusMatches(view.Status, opts.Status) || !bandMatches(view.CGPA, opts.GPA) {
			continue
		}
		views = append(views, view)
	}
	SortStudents(views, opts.Sort)
	return views
}

// QueryCohort runs the full cohort query over a mentor's scope.
func QueryCohort(scope []StudentRecord, opts CohortOptions) CohortResult {
	filtered := FilterCohort(scope, opts)
	pageItems, page := Paginate(filtered, opts.Page, CohortPageSize)

	branches := make([]string, 0, len(scope))
	for _, r := range scope {
		branches = append(branches, r.Student.Branch)
	}

	stats := CohortStats{
		Total:       len(filtered),
		ScopeTotal:  len(scope),
		AverageCGPA: AverageCGPA(filtered),
		CGPABuckets: CGPABuckets(filtered),
		TopEarners:  TopEarners(filtered, CohortTopN),
		Branches:    DistinctBranches(branches),
	}
	for _, v := range filtered {
		if v.Placed() {
			stats.Placed++
		}
		if v.TopPackage() > stats.HighestPackage {
			stats.HighestPackage = v.TopPackage()
		}
	}
	stats.HighestPackage = round2(stats.HighestPackage)

	return CohortResult{Students: pageItems, Page: page, Stats: stats}
}

// SortStudents orders views in place by the sort key. Unknown keys sort by name.
func SortStudents(views []StudentView, key string) {
	var less func(a, b StudentView) bool
	switch key {
	case SortCGPAAsc:
		less = func(a, b StudentView) bool { return a.CGPA < b.CGPA }
	case SortCGPADesc:
		less = func(a, b StudentView) bool { return a.CGPA > b.CGPA }
	case SortPackageAsc:
		less = func(a, b StudentView) bool { return a.TopPackage() < b.TopPackage() }
	case SortPackageDesc:
		less = func(a, b StudentView) bool { return a.TopPackage() > b.TopPackage() }
	default:
		less = func(a, b StudentView) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
	sort.SliceStable(views, func(i, j int) bool { return less(views[i], views[j]) })
}

// FilterByStatus keeps the views whose status matches the filter key.
func FilterByStatus(views []StudentView, key string) []StudentView {
	out := make([]StudentView, 0, len(views))
	for _, v := range views {
		if statusMatches(v.Status, key) {
			out = append(out, v)
		}
	}
	return out
}

// matchesStudent searches the display name, the email and the account's first and last names.
func matchesStudent(r StudentRecord, needle string) bool {
	for _, field := range []string{r.Student.Name, r.Student.Email, r.Student.FirstName, r.Student.LastName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func statusMatches(status Status, key string) bool {
	switch key {
	case "placed", "in-progress", "not-placed":
		return status.FilterKey() == key
	default:
		return true
	}
}

func bandMatches(cgpa float64, band string) bool {
	switch band {
	case BandHigh, BandMedium, BandLow:
		return GPABand(cgpa) == band
	default:
		return true
	}
}
