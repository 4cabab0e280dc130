// internal/app/features/members/routes.go
package members

import (
	"github.com/go-chi/chi/v5"

	"github.com/zehsscwu/unionhub/internal/app/system/auth"
)

// Routes mounts all Member routes under the base path (typically
// "/members" from bootstrap). List, view, and edit are role-aware in the
// handlers; direct add and delete are admin-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/{id}/view", h.ServeView)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireSignedIn)
		ar.Use(sm.RequireRole("admin"))

		ar.Get("/new", h.ServeNew)
		ar.Post("/", h.HandleCreate)
		ar.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
