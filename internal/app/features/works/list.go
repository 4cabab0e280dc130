// internal/app/features/works/list.go
package works

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// resolveInstitution works out which institution the request is about:
// admins pass ?institution=, institutions always get their own. The empty
// string means an admin has not picked one yet.
func resolveInstitution(r *http.Request) (string, bool) {
	role, _, identityID, ok := authz.UserCtx(r)
	if !ok {
		return "", false
	}
	switch role {
	case models.RoleAdmin:
		return query.Get(r, "institution"), true
	case models.RoleInstitution:
		return identityID, true
	}
	return "", false
}

// ServeList handles GET /works: both bodies of one institution, with the
// assign form. Admins without an institution selected get the picker.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	institutionID, allowed := resolveInstitution(r)
	if !allowed {
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if institutionID == "" {
		insts, err := h.Institutions.List(ctx, "")
		if err != nil {
			h.ErrLog.LogServerError(w, r, "works: list institutions", err, "Unable to load institutions.", "/dashboard")
			return
		}
		data := pickData{Institutions: insts}
		formutil.SetBase(&data.Base, r, "Works bodies", "/dashboard")
		templates.Render(w, r, "works_pick", data)
		return
	}

	inst, err := h.Institutions.GetByID(ctx, institutionID)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Institution not found.", "/dashboard")
		return
	}

	roster, err := h.Members.ListByInstitution(ctx, inst.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "works: load roster", err, "Unable to load the works bodies.", "/dashboard")
		return
	}
	byID := make(map[string]models.Member, len(roster))
	for _, m := range roster {
		byID[m.ID] = m
	}

	council, err := h.Works.ListByInstitution(ctx, models.WorksCouncil, inst.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "works: load council", err, "Unable to load the works bodies.", "/dashboard")
		return
	}
	committee, err := h.Works.ListByInstitution(ctx, models.WorksCommittee, inst.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "works: load committee", err, "Unable to load the works bodies.", "/dashboard")
		return
	}

	data := listData{
		Institution: *inst,
		Council:     seatRows(council, byID),
		Committee:   seatRows(committee, byID),
		Roster:      roster,
		IsAdmin:     authz.IsAdmin(r),
	}
	if data.IsAdmin {
		if insts, err := h.Institutions.List(ctx, ""); err == nil {
			data.Institutions = insts
		}
	}
	formutil.SetBase(&data.Base, r, "Works bodies — "+inst.InstitutionName, "/dashboard")
	if msg := query.Get(r, "error"); msg != "" {
		data.SetError(msg)
	}
	templates.Render(w, r, "works_list", data)
}

func seatRows(seats []models.WorksAssignment, byID map[string]models.Member) []seatRow {
	rows := make([]seatRow, 0, len(seats))
	for _, s := range seats {
		row := seatRow{Assignment: s}
		if m, ok := byID[s.MemberID]; ok {
			row.MemberName = m.FullName
			row.MemberCode = m.MemberID
		}
		rows = append(rows, row)
	}
	return rows
}
