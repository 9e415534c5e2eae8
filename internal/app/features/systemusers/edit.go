// internal/app/features/systemusers/edit.go
package systemusers

import (
	"net/http"

	"github.com/dalemusser/spothub/internal/app/system/authz"
	"github.com/dalemusser/spothub/internal/app/system/respond"
	"github.com/dalemusser/spothub/internal/app/system/timeouts"
)

type roleInput struct {
	Role string `json:"role"`
}

// HandleUpdateRole handles PUT /users/{id} with body {"role": "..."}.
func (h *Handler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in roleInput
	if !h.ErrLog.Decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update user role")
	defer cancel()

	caller := authz.CallerFrom(r)
	change, err := h.Users.UpdateRole(ctx, caller, id, in.Role)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if change.From != change.User.Role {
		h.AuditLog.UserRoleChanged(ctx, r, caller.ID, id, string(change.From), string(change.User.Role))
	}
	respond.OKMessage(w, change.User, "Role updated.")
}

// HandleDelete handles DELETE /users/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete user")
	defer cancel()

	caller := authz.CallerFrom(r)
	u, err := h.Users.Delete(ctx, caller, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.AuditLog.UserDeleted(ctx, r, caller.ID, id, u.Email)
	respond.OKMessage(w, nil, "User deleted.")
}
