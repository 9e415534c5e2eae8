// internal/app/features/spots/routes.go
package spots

import (
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/dalemusser/spothub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the spot routes (typically at "/spots").
//
// The catalog and single-spot reads are public; LoadSessionUser upstream
// lets owners and superadmins read their non-public spots through the same
// path. Writes need at least admin; moderation and hard deletes are further
// narrowed to superadmin inside the service.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/mine", h.ServeMine)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))

		pr.Get("/all", h.ServeAll)
	})

	r.Get("/{id}", h.ServeGet)

	return r
}
