package services

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page is a normalized pagination request, always within bounds.
type Page struct {
	Page    int
	PerPage int
}

func (p Page) Offset() int { return (p.Page - 1) * p.PerPage }

// NormalizePage clamps out-of-range values to the defaults and bounds. The
// strict rejection of malformed input happens at the API boundary; this is
// the permissive path shared with the page-rendering surface.
func NormalizePage(page, perPage int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Page{Page: page, PerPage: perPage}
}

// Pagination is the listing metadata returned alongside each page.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func NewPagination(p Page, total int) Pagination {
	totalPages := (total + p.PerPage - 1) / p.PerPage
	return Pagination{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
