// internal/app/features/members/list.go
package members

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"

	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/paging"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// ServeList handles GET /members. Admins see every member with search and
// filters; institutions see their own roster; members are sent to their
// own record.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, identityID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if role == models.RoleMember {
		http.Redirect(w, r, "/members/"+identityID+"/view", http.StatusSeeOther)
		return
	}

	filter := memberstore.ListFilter{
		Search: query.Search(r, "q"),
		Status: query.Get(r, "status"),
	}
	switch role {
	case models.RoleAdmin:
		filter.InstitutionID = query.Get(r, "institution")
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

	items, err := h.Members.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "members: list", err, "Unable to load members.", "/dashboard")
		return
	}
	page := paging.TrimPage(&items, start)

	countFilter := filter
	countFilter.Limit, countFilter.Offset = 0, 0
	total, err := h.Members.Count(ctx, countFilter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "members: count", err, "Unable to load members.", "/dashboard")
		return
	}

	data := listData{
		Q:             filter.Search,
		Status:        filter.Status,
		InstitutionID: filter.InstitutionID,
		Items:         items,
		Total:         total,
		IsAdmin:       role == models.RoleAdmin,
		HasPrev:       page.HasPrev,
		HasNext:       page.HasNext,
		Range:         paging.ComputeRange(start, len(items)),
	}

	if data.IsAdmin {
		insts, err := h.Institutions.List(ctx, "")
		if err != nil {
			h.Log.Warn("members: loading institutions for filter failed")
		} else {
			data.Institutions = insts
			data.InstitutionNames = make(map[string]string, len(insts))
			for _, inst := range insts {
				data.InstitutionNames[inst.ID] = inst.InstitutionName
			}
		}
	}

	formutil.SetBase(&data.Base, r, "Members", "/dashboard")
	templates.Render(w, r, "members_list", data)
}
