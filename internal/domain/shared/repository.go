package shared

// Page describes an optional pagination window. A zero PageSize means
// "no pagination".
type Page struct {
	Page     int
	PageSize int
}

// Normalize clamps page numbers and sizes into a sane range
func (p Page) Normalize() Page {
	if p.PageSize <= 0 {
		return Page{}
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 1
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Paginate slices an in-memory result according to p. Out-of-range pages
// yield an empty slice.
func Paginate[T any](items []T, p Page) Paginated[T] {
	p = p.Normalize()
	total := int64(len(items))
	if p.PageSize == 0 {
		return NewPaginated(items, total, 1, len(items))
	}
	start := (p.Page - 1) * p.PageSize
	if start >= len(items) {
		return NewPaginated([]T{}, total, p.Page, p.PageSize)
	}
	end := start + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	return NewPaginated(items[start:end], total, p.Page, p.PageSize)
}
