// internal/app/features/auditlog/list.go
package auditlog

// Terminology: User Identifiers
//   - user_id: the user an event is about
//   - actor_id: the user who performed the action

import (
	"net/http"
	"time"

	"github.com/dalemusser/spothub/internal/app/store/audit"
	"github.com/dalemusser/spothub/internal/app/system/apperr"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/paging"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

// ServeList handles GET /audit.
//
// Query: category, event_type, user_id, actor_id, start_date and end_date
// (YYYY-MM-DD, end inclusive), limit, offset. Unparseable dates are ignored.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if err := authz.CheckRole(authz.CallerFrom(r), authz.AuditView).Err(); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events", err, "A database error occurred.")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events", err, "A database error occurred.")
		return
	}

	respond.OK(w, listResult{Events: events, Total: total, Limit: filter.Limit, Offset: filter.Offset})
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	page := paging.Parse(r)
	f := audit.QueryFilter{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "event_type"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	if f.Category != "" && !knownCategory(f.Category) {
		return f, apperr.New(apperr.InvalidInput, "unknown category")
	}

	var err error
	if f.UserID, err = optionalID(query.Get(r, "user_id")); err != nil {
		return f, err
	}
	if f.ActorID, err = optionalID(query.Get(r, "actor_id")); err != nil {
		return f, err
	}

	if t, err := time.Parse(dateLayout, query.Get(r, "start_date")); err == nil {
		f.StartTime = &t
	}
	if t, err := time.Parse(dateLayout, query.Get(r, "end_date")); err == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}
	return f, nil
}

func optionalID(s string) (*primitive.ObjectID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, "invalid user id")
	}
	return &id, nil
}
