package placement

import (
	"sort"
	"strings"
)

// Bucket is one labelled histogram bin.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CGPA histogram labels.
const (
	CGPABucketLow    = "<7.5"
	CGPABucketMedium = "7.5-8.4"
	CGPABucketHigh   = "8.5+"
)

// Package histogram labels, in LPA.
const (
	PackageBucketUnder3 = "<3"
	PackageBucket3To6   = "3-6"
	PackageBucket6To10  = "6-10"
	PackageBucket10Plus = "10+"
)

// GPA band boundaries.
const (
	highBandFloor   = 8.5
	mediumBandFloor = 7.5
)

// GPA band filter keys.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// GPABand classifies a CGPA: high at 8.5 and above, medium from 7.5, low below.
func GPABand(cgpa float64) string {
	switch {
	case cgpa >= highBandFloor:
		return BandHigh
	case cgpa >= mediumBandFloor:
		return BandMedium
	default:
		return BandLow
	}
}

// CGPABuckets counts views into the three CGPA bins.
func CGPABuckets(views []StudentView) []Bucket {
	buckets := []Bucket{{Label: CGPABucketLow}, {Label: CGPABucketMedium}, {Label: CGPABucketHigh}}
	for _, v := range views {
		switch GPABand(v.CGPA) {
		case BandLow:
			buckets[0].Count++
		case BandMedium:
			buckets[1].Count++
		default:
			buckets[2].Count++
		}
	}
	return buckets
}

// PackageBuckets counts LPA values into the four package bins.
func PackageBuckets(packages []float64) []Bucket {
	buckets := []Bucket{
		{Label: PackageBucketUnder3},
		{Label: PackageBucket3To6},
		{Label: PackageBucket6To10},
		{Label: PackageBucket10Plus},
	}
	for _, p := range packages {
		switch {
		case p < 3:
			buckets[0].Count++
		case p < 6:
			buckets[1].Count++
		case p < 10:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}
	return buckets
}

// AverageCGPA is the mean CGPA of the views, rounded to 2 places; 0 for none.
func AverageCGPA(views []StudentView) float64 {
	if len(views) == 0 {
		return 0
	}
	var total float64
	for _, v := range views {
		total += v.CGPA
	}
	return round2(total / float64(len(views)))
}

// Earner is a student ranked by top-offer package.
type Earner struct {
	Name    string  `json:"name"`
	Package float64 `json:"package"`
}

// TopEarners returns the n students with the highest top-offer packages. Students without offers are left out.
func TopEarners(views []StudentView, n int) []Earner {
	ordered := make([]StudentView, 0, len(views))
	for _, v := range views {
		if v.TopOffer != nil {
			ordered = append(ordered, v)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TopPackage() > ordered[j].TopPackage()
	})
	if n >= 0 && len(ordered) > n {
		ordered = ordered[:n]
	}
	earners := make([]Earner, 0, len(ordered))
	for _, v := range ordered {
		earners = append(earners, Earner{Name: v.Name, Package: round2(v.TopPackage())})
	}
	return earners
}

// CompanyCount is a company with its number of placements.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

const unknownCompany = "Unknown"

// TopCompanies ranks companies by placement count, ties by name, and keeps the first n.
func TopCompanies(companies []string, n int) []CompanyCount {
	counts := map[string]int{}
	for _, c := range companies {
		name := strings.TrimSpace(c)
		if name == "" {
			name = unknownCompany
		}
		counts[name]++
	}
	ranked := make([]CompanyCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, CompanyCount{Company: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Company < ranked[j].Company
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// DistinctBranches returns the sorted set of non-empty branches.
func DistinctBranches(branches []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, b := range branches {
		if b == "" {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
