// internal/app/features/institutions/view.go
package institutions

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
)

// ServeView renders the read-only "View Institution" page with its rollup
// counts and member roster.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	inst, err := h.Institutions.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Institution not found.", "/institutions")
		return
	}

	members, err := h.Members.ListByInstitution(ctx, inst.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "institutions: load member roster", err, "Unable to load the institution.", "/institutions")
		return
	}

	data := viewData{
		Institution: *inst,
		Counts:      h.Metrics.FetchInstitutionCounts(ctx, inst.ID),
		Members:     members,
	}
	formutil.SetBase(&data.Base, r, inst.InstitutionName, "/institutions")

	templates.Render(w, r, "institution_view", data)
}
