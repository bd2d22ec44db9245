package domain

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageQuery selects one page of a list. Pages start at 1.
type PageQuery struct {
	Page int
	Size int
}

// Normalize applies defaults and bounds.
func (q PageQuery) Normalize() PageQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	return q
}

// Values renders pageNo and pageSize query parameters.
func (q PageQuery) Values() url.Values {
	q = q.Normalize()
	values := url.Values{}
	values.Set("pageNo", strconv.Itoa(q.Page))
	values.Set("pageSize", strconv.Itoa(q.Size))
	return values
}
