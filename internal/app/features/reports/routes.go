// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"

	"github.com/zehsscwu/unionhub/internal/app/system/auth"
)

// Routes mounts all Report routes under the base path (typically
// "/reports" from bootstrap). Institutions may pull their own roster and
// workbook; everything else is admin-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin", "institution"))

		pr.Get("/", h.ServeIndex)
		pr.Get("/members.xlsx", h.ServeMembersXLSX)
		pr.Get("/institutions/{id}.xlsx", h.ServeInstitutionXLSX)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireSignedIn)
		ar.Use(sm.RequireRole("admin"))

		ar.Get("/institutions.xlsx", h.ServeInstitutionsXLSX)
	})

	return r
}
