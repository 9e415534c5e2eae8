// internal/app/features/spots/edit.go
package spots

import (
	"net/http"
	"strings"

	"github.com/dalemusser/spothub/internal/app/services/spotservice"
	"github.com/dalemusser/spothub/internal/app/store/audit"
	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
	"github.com/dalemusser/spothub/internal/domain/models"
)

// HandleCreate handles POST /spots.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in spotservice.Input
	if !h.ErrLog.Decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create spot")
	defer cancel()

	c := authz.CallerFrom(r)
	spot, err := h.Spots.Create(ctx, c, in)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.AuditLog.SpotChanged(ctx, r, audit.EventSpotCreated, c.ID, spot.ID, map[string]string{"title": spot.Title})

	respond.Created(w, spot, "Spot submitted for review.")
}

// updateInput is the body of PUT/PATCH /spots/{id}. A non-empty Action is a
// moderation decision; ToggleActive flips the active flag; otherwise the
// content fields replace the spot's content.
type updateInput struct {
	spotservice.Input
	Action       string `json:"action"`
	ReviewNotes  string `json:"reviewNotes"`
	ToggleActive bool   `json:"toggleActive"`
}

// HandleUpdate handles PUT and PATCH /spots/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := spotID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in updateInput
	if !h.ErrLog.Decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update spot")
	defer cancel()

	c := authz.CallerFrom(r)
	var (
		spot  *models.Spot
		event string
		msg   string
	)
	switch {
	case strings.TrimSpace(in.Action) != "":
		spot, err = h.Spots.Review(ctx, c, id, in.Action, in.ReviewNotes)
		if err == nil {
			event, msg = audit.EventSpotApproved, "Spot approved."
			if spot.Status == models.SpotRejected {
				event, msg = audit.EventSpotRejected, "Spot rejected."
			}
		}
	case in.ToggleActive:
		spot, err = h.Spots.ToggleActive(ctx, c, id)
		if err == nil {
			event, msg = toggleEvent(spot)
		}
	default:
		spot, err = h.Spots.Edit(ctx, c, id, in.Input)
		event, msg = audit.EventSpotUpdated, "Spot updated."
	}
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	details := map[string]string{"status": string(spot.Status)}
	if spot.ReviewNotes != "" && event == audit.EventSpotRejected {
		details["notes"] = spot.ReviewNotes
	}
	h.AuditLog.SpotChanged(ctx, r, event, c.ID, spot.ID, details)

	respond.OKMessage(w, spot, msg)
}

// HandleDelete handles DELETE /spots/{id}. Superadmins remove the spot;
// admins get a toggle of the active flag instead.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := spotID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete spot")
	defer cancel()

	c := authz.CallerFrom(r)
	res, err := h.Spots.Delete(ctx, c, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	if res.Deleted {
		h.AuditLog.SpotChanged(ctx, r, audit.EventSpotDeleted, c.ID, id, nil)
		respond.OKMessage(w, res, "Spot deleted.")
		return
	}
	event, msg := toggleEvent(res.Spot)
	h.AuditLog.SpotChanged(ctx, r, event, c.ID, id, nil)
	respond.OKMessage(w, res, msg)
}

func toggleEvent(spot *models.Spot) (string, string) {
	if spot.IsActive {
		return audit.EventSpotActivated, "Spot activated."
	}
	return audit.EventSpotDeactivated, "Spot deactivated."
}
