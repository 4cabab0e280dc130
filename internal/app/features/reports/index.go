// internal/app/features/reports/index.go
package reports

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// indexData is the view model for the reports landing page.
type indexData struct {
	formutil.Base

	IsAdmin bool

	// OwnInstitutionID points institutions at their own workbook link.
	OwnInstitutionID string

	Institutions []models.Institution
}

// ServeIndex lists the available downloads for the signed-in role.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	role, _, identityID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	data := indexData{}
	switch role {
	case models.RoleAdmin:
		data.IsAdmin = true
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()
		if insts, err := h.Institutions.List(ctx, ""); err == nil {
			data.Institutions = insts
		}
	case models.RoleInstitution:
		data.OwnInstitutionID = identityID
	default:
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	formutil.SetBase(&data.Base, r, "Reports", "/dashboard")
	templates.Render(w, r, "reports_index", data)
}
