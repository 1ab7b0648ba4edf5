package shared

import (
	"math"
	"net/http"
)

type Pagination struct {
	Limit  int
	Offset int
}

// Page reads limit and offset from the query. Absent values fall back to
// defaultLimit and 0. Malformed or out of range values are reported on v.
func Page(r *http.Request, v *Validator, defaultLimit, maxLimit int) Pagination {
	q := r.URL.Query()
	page := Pagination{Limit: defaultLimit}
	if limit, ok := v.Int("limit", q.Get("limit"), 1, maxLimit); ok {
		page.Limit = limit
	}
	if offset, ok := v.Int("offset", q.Get("offset"), 0, math.MaxInt32); ok {
		page.Offset = offset
	}
	return page
}
