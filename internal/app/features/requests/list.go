// internal/app/features/requests/list.go
package requests

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"

	requeststore "github.com/zehsscwu/unionhub/internal/app/store/requests"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/paging"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// ServeList handles GET /requests. Admins get the review queue (pending by
// default, ?status= widens it); institutions see their own submissions in
// every state.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, identityID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	filter := requeststore.ListFilter{
		Status: query.Get(r, "status"),
	}
	switch role {
	case models.RoleAdmin:
		if filter.Status == "" {
			filter.Status = models.RequestPending
		}
	case models.RoleInstitution:
		filter.InstitutionID = identityID
	default:
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	start := paging.ParseStart(r)
	filter.Limit = paging.LimitPlusOne()
	filter.Offset = paging.Offset(start)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Requests.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "requests: list", err, "Unable to load requests.", "/dashboard")
		return
	}
	page := paging.TrimPage(&items, start)

	countFilter := filter
	countFilter.Limit, countFilter.Offset = 0, 0
	total, err := h.Requests.Count(ctx, countFilter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "requests: count", err, "Unable to load requests.", "/dashboard")
		return
	}

	data := listData{
		Status:  filter.Status,
		Items:   items,
		Total:   total,
		IsAdmin: role == models.RoleAdmin,
		HasPrev: page.HasPrev,
		HasNext: page.HasNext,
		Range:   paging.ComputeRange(start, len(items)),
	}

	if data.IsAdmin {
		insts, err := h.Institutions.List(ctx, "")
		if err != nil {
			h.Log.Warn("requests: loading institution names failed")
		} else {
			data.InstitutionNames = make(map[string]string, len(insts))
			for _, inst := range insts {
				data.InstitutionNames[inst.ID] = inst.InstitutionName
			}
		}
	}

	formutil.SetBase(&data.Base, r, "Membership requests", "/dashboard")
	templates.Render(w, r, "requests_list", data)
}
