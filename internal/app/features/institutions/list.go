// internal/app/features/institutions/list.go
package institutions

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
)

// ServeList handles GET /institutions (with optional ?q= search).
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Institutions.List(ctx, q)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list institutions", err, "Unable to load institutions.", "/dashboard")
		return
	}

	total, err := h.Institutions.Count(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count institutions", err, "Unable to load institutions.", "/dashboard")
		return
	}

	data := listData{
		Q:     q,
		Items: items,
		Total: total,
	}
	formutil.SetBase(&data.Base, r, "Institutions", "/dashboard")

	templates.Render(w, r, "institutions_list", data)
}
