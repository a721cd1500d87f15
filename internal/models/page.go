package models

// Page is one page of a paginated backend list.
type Page[T any] struct {
	Items      []T `json:"items" validate:"dive"`
	TotalCount int `json:"totalCount" validate:"gte=0"`
	PageNumber int `json:"pageNumber" validate:"gte=0"`
	PageSize   int `json:"pageSize" validate:"gte=0"`
}

// TotalPages rounds up; an empty page size counts as a single page.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 1
	}
	n := (p.TotalCount + p.PageSize - 1) / p.PageSize
	if n == 0 {
		return 1
	}
	return n
}

// ListQuery carries the discriminators of a list read.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
}

const DefaultPageSize = 10

// Normalize clamps paging to sane values.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = DefaultPageSize
	}
	return q
}
