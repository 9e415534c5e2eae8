// internal/app/features/userinfo/routes.go
package userinfo

import (
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.With(sm.RequireSignedIn).Get("/", h.ServeMe)
	return r
}
