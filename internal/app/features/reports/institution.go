// internal/app/features/reports/institution.go
package reports

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	requeststore "github.com/zehsscwu/unionhub/internal/app/store/requests"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// ServeInstitutionXLSX handles GET /reports/institutions/{id}.xlsx: the
// complete workbook for one institution, with its details, roster, works
// bodies, and pending requests each on their own sheet. Admins may pull
// any institution; institutions only their own.
func (h *Handler) ServeInstitutionXLSX(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !authz.CanManageInstitution(r, id) {
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	inst, err := h.Institutions.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Institution not found.", "/reports")
		return
	}

	f, err := h.buildInstitutionWorkbook(ctx, inst)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reports: build institution workbook", err, "Unable to build the report.", "/reports")
		return
	}

	h.serveWorkbook(w, r, f, "institution-"+inst.InstitutionID)
}

func (h *Handler) buildInstitutionWorkbook(ctx context.Context, inst *models.Institution) (*excelize.File, error) {
	members, err := h.Members.ListByInstitution(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	memberByID := make(map[string]models.Member, len(members))
	for _, m := range members {
		memberByID[m.ID] = m
	}
	council, err := h.Works.ListByInstitution(ctx, models.WorksCouncil, inst.ID)
	if err != nil {
		return nil, err
	}
	committee, err := h.Works.ListByInstitution(ctx, models.WorksCommittee, inst.ID)
	if err != nil {
		return nil, err
	}
	pending, err := h.Requests.List(ctx, requeststore.ListFilter{
		InstitutionID: inst.ID,
		Status:        models.RequestPending,
	})
	if err != nil {
		return nil, err
	}

	const detailSheet = "Institution"
	f, err := newWorkbook(detailSheet)
	if err != nil {
		return nil, err
	}
	ok := false
	defer func() {
		if !ok {
			f.Close()
		}
	}()

	if err := writeHeader(f, detailSheet, []string{"Field", "Value"}); err != nil {
		return nil, err
	}
	details := [][]any{
		{"Code", inst.InstitutionID},
		{"Name", inst.InstitutionName},
		{"Email", inst.Email},
		{"Landline", inst.Landline},
		{"Head contact", inst.HeadContact},
		{"Bursar contact", inst.BursarContact},
		{"Branch", inst.Branch},
		{"Members", inst.TotalMembers},
		{"Works council seats", inst.TotalWorksCouncil},
		{"Works committee seats", inst.TotalWorksCommittee},
	}
	for i, row := range details {
		if err := writeRow(f, detailSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	const memberSheet = "Members"
	if err := addSheet(f, memberSheet); err != nil {
		return nil, err
	}
	if err := writeHeader(f, memberSheet, memberHeaders); err != nil {
		return nil, err
	}
	for i, m := range members {
		if err := writeRow(f, memberSheet, i+2, memberRow(m, inst.InstitutionName)); err != nil {
			return nil, err
		}
	}

	seatHeaders := []string{"Rank", "Member Number", "Full Name"}
	seatRow := func(a models.WorksAssignment) []any {
		m := memberByID[a.MemberID]
		return []any{a.Rank, m.MemberID, m.FullName}
	}
	for _, body := range []struct {
		sheet string
		seats []models.WorksAssignment
	}{
		{"Works Council", council},
		{"Works Committee", committee},
	} {
		if err := addSheet(f, body.sheet); err != nil {
			return nil, err
		}
		if err := writeHeader(f, body.sheet, seatHeaders); err != nil {
			return nil, err
		}
		for i, a := range body.seats {
			if err := writeRow(f, body.sheet, i+2, seatRow(a)); err != nil {
				return nil, err
			}
		}
	}

	const requestSheet = "Pending Requests"
	if err := addSheet(f, requestSheet); err != nil {
		return nil, err
	}
	if err := writeHeader(f, requestSheet, []string{"Full Name", "Job Title", "Grade", "Contact Number", "Submitted"}); err != nil {
		return nil, err
	}
	for i, req := range pending {
		row := []any{req.FullName, req.JobTitle, req.Grade, req.ContactNumber, req.CreatedAt.Format("2006-01-02")}
		if err := writeRow(f, requestSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	ok = true
	return f, nil
}
