package domain

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed. Limit is fixed per view (history 50, journals 20, todos 30).
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from an optional HTTP query
// param. A nil or sub-1 page falls back to 1; the per-view limit is supplied
// by the caller and floored at 1.
func NewPaginationParams(page *int, limit int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: limit}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	return p
}

// ClampToTotal snaps an out-of-range page number to the nearest valid page
// for the given total row count, mirroring how the board's old paginator
// behaved: asking for page 900 of 3 gives the last page rather than an
// error, and a total of zero still leaves you on page 1.
func (p PaginationParams) ClampToTotal(total int64) PaginationParams {
	last := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if last < 1 {
		last = 1
	}
	if p.Page > last {
		p.Page = last
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageInfo describes one page of a paginated listing in responses.
type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
