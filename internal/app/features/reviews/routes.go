// internal/app/features/reviews/routes.go
package reviews

import (
	"github.com/dalemusser/spothub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the review routes (typically at "/reviews").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeForSpot)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleSubmit)
		pr.Get("/mine", h.ServeMine)
	})

	return r
}
