// internal/app/features/auditlog/types.go
package auditlog

import "github.com/dalemusser/spothub/internal/app/store/audit"

// listResult is the body of GET /audit.
type listResult struct {
	Events []audit.Event `json:"events"`
	Total  int64         `json:"total"`
	Limit  int64         `json:"limit"`
	Offset int64         `json:"offset"`
}

var categories = []string{audit.CategoryAuth, audit.CategoryAdmin, audit.CategoryBooking}

func knownCategory(c string) bool {
	for _, k := range categories {
		if c == k {
			return true
		}
	}
	return false
}
