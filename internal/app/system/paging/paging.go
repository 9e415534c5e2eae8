// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows returned by list endpoints.
const PageSize = 50

// MaxPageSize caps the limit a client may request.
const MaxPageSize = 500

// Page is a parsed limit/offset pair, ready for Find().SetLimit/SetSkip.
type Page struct {
	Limit  int64
	Offset int64
}

// Parse reads the "limit" and "offset" query parameters. A missing or invalid
// limit becomes PageSize; limits above MaxPageSize are clamped. A missing or
// negative offset becomes 0.
func Parse(r *http.Request) Page {
	return Page{
		Limit:  parseLimit(query.Get(r, "limit")),
		Offset: parseOffset(query.Get(r, "offset")),
	}
}

func parseLimit(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func parseOffset(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
