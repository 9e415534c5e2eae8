// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/dalemusser/spothub/internal/app/system/respond"
)

// Handler serves the identity of the signed-in caller.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ServeMe handles GET /auth/me.
//
//	{ "success":true, "data":{"id":"...","name":"...","email":"...","role":"admin"} }
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	respond.OK(w, u)
}
