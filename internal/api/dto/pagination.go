package dto

// PageQuery captures page/perPage query parameters with sane bounds.
type PageQuery struct {
	Page    int `query:"page"`
	PerPage int `query:"perPage"`
}

// Normalize clamps the query to defaults and limits.
func (q *PageQuery) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = 20
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}
}

// Offset computes the store offset for the page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}
