// internal/app/features/works/routes.go
package works

import (
	"github.com/go-chi/chi/v5"

	"github.com/zehsscwu/unionhub/internal/app/system/auth"
)

// Routes mounts all Works routes under the base path (typically "/works"
// from bootstrap). Admins and institutions share the pages; institution
// scoping happens in the handlers.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin", "institution"))

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleAssign)
		pr.Post("/{kind}/{id}/remove", h.HandleRemove)
	})

	return r
}
