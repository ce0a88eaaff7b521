package domain

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Window returns the [start, end) bounds of the current page within total items.
// A non-positive PageSize selects everything; a page past the end is empty.
func (p PaginationParams) Window(total int) (start, end int) {
	if p.PageSize <= 0 {
		return 0, total
	}
	if p.Page > 1 && p.Page-1 > total/p.PageSize {
		return total, total
	}
	start = min(p.Offset(), total)
	end = start + min(p.PageSize, total-start)
	return start, end
}

// GuestFilter narrows a guest listing. Empty fields match everything.
type GuestFilter struct {
	// Search matches name, email, phone or group title, case-insensitively.
	Search  string
	GroupID *ID
}
