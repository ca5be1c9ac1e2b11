package model

// Pagination mirrors the CMS pagination block of a list response.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Page is one page of a paginated listing. Pagination is nil when the
// listing could not be fetched.
type Page[T any] struct {
	Items      []T
	Pagination *Pagination
}

// HasNext reports whether another page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Pagination != nil && p.Pagination.Page < p.Pagination.PageCount
}
