// internal/app/features/loyalty/routes.go
package loyalty

import (
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts GET /loyalty. There is no client-facing write.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.With(sm.RequireSignedIn).Get("/", h.ServeBalance)
	return r
}
