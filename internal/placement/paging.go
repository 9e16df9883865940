package placement

import "strconv"

// Page sizes used by the dashboards.
const (
	CohortPageSize  = 12
	ListingPageSize = 15
)

// Page describes the window returned by Paginate.
type Page struct {
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	TotalItems int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// ResolvePage maps a raw page value onto a valid page number.
// Missing or non-numeric values give 1; out-of-range values, below 1 included, give the last page.
func ResolvePage(raw string, totalItems, size int) int {
	last := lastPage(totalItems, size)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > last {
		return last
	}
	return n
}

func lastPage(totalItems, size int) int {
	if size <= 0 || totalItems == 0 {
		return 1
	}
	return (totalItems + size - 1) / size
}

// Paginate slices items to the requested page. There is always at least one page, possibly empty.
func Paginate[T any](items []T, raw string, size int) ([]T, Page) {
	if size <= 0 {
		size = len(items)
	}
	number := ResolvePage(raw, len(items), size)
	page := Page{
		Number:     number,
		Size:       size,
		TotalItems: len(items),
		TotalPages: lastPage(len(items), size),
	}
	start := (number - 1) * size
	if start >= len(items) {
		return []T{}, page
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page
}
