// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"

	auditstore "github.com/zehsscwu/unionhub/internal/app/store/audit"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/paging"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
)

// ServeList handles GET /audit. Most recent events first, filterable by
// category, event type, and institution.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter := auditstore.QueryFilter{
		Category:      query.Get(r, "category"),
		EventType:     query.Get(r, "event_type"),
		InstitutionID: query.Get(r, "institution"),
	}

	start := paging.ParseStart(r)
	filter.Limit = paging.LimitPlusOne()
	filter.Offset = paging.Offset(start)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	items, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "auditlog: query", err, "Unable to load the audit trail.", "/dashboard")
		return
	}
	page := paging.TrimPage(&items, start)

	countFilter := filter
	countFilter.Limit, countFilter.Offset = 0, 0
	total, err := h.Events.CountByFilter(ctx, countFilter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "auditlog: count", err, "Unable to load the audit trail.", "/dashboard")
		return
	}

	data := listData{
		Category:      filter.Category,
		EventType:     filter.EventType,
		InstitutionID: filter.InstitutionID,
		Items:         items,
		Total:         total,
		HasPrev:       page.HasPrev,
		HasNext:       page.HasNext,
		Range:         paging.ComputeRange(start, len(items)),
	}

	insts, err := h.Institutions.List(ctx, "")
	if err != nil {
		h.Log.Warn("auditlog: loading institution names failed")
	} else {
		data.InstitutionNames = make(map[string]string, len(insts))
		for _, inst := range insts {
			data.InstitutionNames[inst.ID] = inst.InstitutionName
		}
	}

	formutil.SetBase(&data.Base, r, "Audit trail", "/dashboard")
	templates.Render(w, r, "audit_list", data)
}
