package placement

import "github.com/noah-isme/placement-tracker-api/internal/models"

// CutoffCGPA averages completed semesters only: those numbered strictly below current.
// Semesters at or after current are ignored whatever their GPA. No completed semesters yields 0.
func CutoffCGPA(current int, semesters []models.Semester) float64 {
	var total float64
	var count int
	for _, s := range semesters {
		if s.SemesterNumber >= current {
			continue
		}
		total += s.GPA
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// FullAverageCGPA averages every stored semester, zero ones included, rounded to 2 places.
func FullAverageCGPA(semesters []models.Semester) float64 {
	if len(semesters) == 0 {
		return 0
	}
	var total float64
	for _, s := range semesters {
		total += s.GPA
	}
	return round2(total / float64(len(semesters)))
}
