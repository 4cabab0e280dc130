// internal/app/features/requests/routes.go
package requests

import (
	"github.com/go-chi/chi/v5"

	"github.com/zehsscwu/unionhub/internal/app/system/auth"
)

// Routes mounts all Request routes under the base path (typically
// "/requests" from bootstrap). Institutions submit; admins review.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
	})

	r.Group(func(ir chi.Router) {
		ir.Use(sm.RequireSignedIn)
		ir.Use(sm.RequireRole("institution"))

		ir.Get("/new", h.ServeNew)
		ir.Post("/", h.HandleSubmit)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireSignedIn)
		ar.Use(sm.RequireRole("admin"))

		ar.Get("/{id}/review", h.ServeReview)
		ar.Post("/{id}/approve", h.HandleApprove)
		ar.Post("/{id}/reject", h.HandleReject)
		ar.Post("/{id}/reopen", h.HandleReopen)
	})

	return r
}
