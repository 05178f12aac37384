package dto

// Page is one zero-based page of a larger result set.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

func NewPage[T any](items []T, page, pageSize, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = total / pageSize
		if total%pageSize != 0 {
			totalPages++
		}
	}
	return &Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages-1,
	}
}

// Bounds returns the [start, end) row range of a zero-based page over total
// rows. A pageSize of zero or less selects every row. Pages past the end
// yield an empty range at total; page is never multiplied out of range.
func Bounds(page, pageSize, total int) (int, int) {
	if pageSize <= 0 {
		return 0, total
	}
	if page < 0 {
		page = 0
	}
	if total <= 0 || page > (total-1)/pageSize {
		return total, total
	}
	start := page * pageSize
	return start, start + min(pageSize, total-start)
}
