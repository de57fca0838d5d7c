package store

import (
	"net/url"
	"strconv"
)

// QueryParams carries the top/skip continuation parameters used by the
// older paginated list endpoints.
type QueryParams struct {
	Top  int
	Skip int
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithTop sets the page size.
func (q *QueryParams) WithTop(top int) *QueryParams {
	q.Top = top

	return q
}

// WithSkip sets the number of items to skip.
func (q *QueryParams) WithSkip(skip int) *QueryParams {
	q.Skip = skip

	return q
}

// ToValues converts the parameters to url.Values. Zero values are omitted
// so the service applies its own defaults.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.Top > 0 {
		values.Set("top", strconv.Itoa(q.Top))
	}

	if q.Skip > 0 {
		values.Set("skip", strconv.Itoa(q.Skip))
	}

	return values
}
