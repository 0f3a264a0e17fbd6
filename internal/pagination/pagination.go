// Package pagination provides pure helpers for converting raw page/limit
// inputs into store offsets and for describing result pages in responses.
package pagination

// Page size bounds applied to every paginated listing.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params holds sanitized pagination inputs ready for a store query.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// PageInfo describes a result page for the response envelope.
type PageInfo struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalItems      int  `json:"totalItems"`
	ItemsPerPage    int  `json:"itemsPerPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	NextPage        *int `json:"nextPage"`
	PreviousPage    *int `json:"previousPage"`
}

// Clamp sanitizes raw page/limit values: page is clamped to >= 1 (zero or
// negative input falls back to 1), limit to [1, MaxPageSize] with
// DefaultPageSize for missing input. Offset is (page-1)*limit.
func Clamp(page, limit int) Params {
	if page < 1 {
		page = 1
	}

	switch {
	case limit < 1:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Describe computes page metadata for a listing of total items fetched
// with the given page and limit. totalPages is ceil(total/limit).
func Describe(page, limit, total int) PageInfo {
	totalPages := (total + limit - 1) / limit

	info := PageInfo{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalItems:      total,
		ItemsPerPage:    limit,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}

	if info.HasNextPage {
		next := page + 1
		info.NextPage = &next
	}
	if info.HasPreviousPage {
		prev := page - 1
		info.PreviousPage = &prev
	}

	return info
}
