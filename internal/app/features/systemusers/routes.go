// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/dalemusser/spothub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts account administration (typically at "/users").
//
//	h := systemusers.NewHandler(users, audit, errLog, logger)
//	r.Mount("/users", systemusers.Routes(h, sessionMgr))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
		pr.Put("/{id}", h.HandleUpdateRole)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
