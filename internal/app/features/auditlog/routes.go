// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/dalemusser/spothub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log (typically at "/audit"). Superadmin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))

		pr.Get("/", h.ServeList)
	})

	return r
}
