// internal/app/features/applications/routes.go
package applications

import (
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/dalemusser/spothub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the booking routes (typically at "/applications").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleApply)
		pr.With(sm.RequireRole(models.RoleAdmin)).Put("/{id}", h.HandleUpdateStatus)
	})

	return r
}
