package calculator

import (
	"errors"
	"math"
)

const (
	// DefaultPage is used when the caller does not ask for a page.
	DefaultPage = 1
	// DefaultLimit is used when the caller does not ask for a page size.
	DefaultLimit = 10
)

var (
	ErrInvalidPage  = errors.New("page must be an integer greater than or equal to 1")
	ErrInvalidLimit = errors.New("limit must be an integer greater than or equal to 1")
)

// PageRequest is a validated page/limit pair.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest validates page and limit. Both must be >= 1 and the
// resulting offset must fit in an int.
func NewPageRequest(page, limit int) (PageRequest, error) {
	if limit < 1 {
		return PageRequest{}, ErrInvalidLimit
	}
	if page < 1 || page-1 > math.MaxInt/limit {
		return PageRequest{}, ErrInvalidPage
	}
	return PageRequest{Page: page, Limit: limit}, nil
}

// Offset is the number of rows to skip: (page - 1) × limit.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the metadata returned alongside a page of results.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// NewPagination computes the pagination metadata for a request over total rows.
// A page beyond TotalPages is not an error; the page is simply empty.
func NewPagination(req PageRequest, total int) Pagination {
	return Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: TotalPages(total, req.Limit),
	}
}

// TotalPages returns ceil(total / limit), or 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
