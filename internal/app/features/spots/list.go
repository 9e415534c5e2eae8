// internal/app/features/spots/list.go
package spots

import (
	"net/http"

	"github.com/dalemusser/spothub/internal/app/services/spotservice"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/paging"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /spots, the public catalog.
//
// Query: category, q (title prefix), location (substring), limit, offset.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list public spots")
	defer cancel()

	page := paging.Parse(r)
	spots, err := h.Spots.ListPublic(ctx, spotservice.PublicFilter{
		Category: query.Get(r, "category"),
		Query:    query.Get(r, "q"),
		Location: query.Get(r, "location"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, spots)
}

// ServeMine handles GET /spots/mine.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list own spots")
	defer cancel()

	spots, err := h.Spots.ListMine(ctx, authz.CallerFrom(r))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, spots)
}

// ServeAll handles GET /spots/all?status=pending|approved|rejected.
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "list all spots")
	defer cancel()

	views, err := h.Spots.ListAll(ctx, authz.CallerFrom(r), query.Get(r, "status"))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, views)
}

// ServeGet handles GET /spots/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := spotID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get spot")
	defer cancel()

	spot, err := h.Spots.Get(ctx, authz.CallerFrom(r), id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, spot)
}
