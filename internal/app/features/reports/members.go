// internal/app/features/reports/members.go
package reports

import (
	"context"
	"net/http"

	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

var memberHeaders = []string{
	"Member Number", "Full Name", "Institution", "National ID", "Date of Birth",
	"Gender", "Job Title", "Date Joined", "Grade", "Contact Number",
	"Position in Union", "Branch", "Status",
}

func memberRow(m models.Member, institutionName string) []any {
	return []any{
		m.MemberID, m.FullName, institutionName, m.NationalID, m.DateOfBirth,
		m.Gender, m.JobTitle, m.DateJoined, m.Grade, m.ContactNumber,
		m.PositionInUnion, m.Branch, m.Status,
	}
}

// ServeMembersXLSX handles GET /reports/members.xlsx: every member for
// admins, the own roster for institutions.
func (h *Handler) ServeMembersXLSX(w http.ResponseWriter, r *http.Request) {
	role, _, identityID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	filter := memberstore.ListFilter{}
	switch role {
	case models.RoleAdmin:
	case models.RoleInstitution:
		filter.InstitutionID = identityID
	default:
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	members, err := h.Members.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reports: list members", err, "Unable to build the report.", "/reports")
		return
	}
	names, err := h.institutionNames(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reports: list institutions", err, "Unable to build the report.", "/reports")
		return
	}

	const sheet = "Members"
	f, err := newWorkbook(sheet)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reports: build workbook", err, "Unable to build the report.", "/reports")
		return
	}
	if err := writeHeader(f, sheet, memberHeaders); err != nil {
		f.Close()
		h.ErrLog.LogServerError(w, r, "reports: write header", err, "Unable to build the report.", "/reports")
		return
	}
	for i, m := range members {
		if err := writeRow(f, sheet, i+2, memberRow(m, names[m.InstitutionID])); err != nil {
			f.Close()
			h.ErrLog.LogServerError(w, r, "reports: write row", err, "Unable to build the report.", "/reports")
			return
		}
	}

	h.serveWorkbook(w, r, f, "members")
}

func (h *Handler) institutionNames(ctx context.Context) (map[string]string, error) {
	insts, err := h.Institutions.List(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(insts))
	for _, inst := range insts {
		names[inst.ID] = inst.InstitutionName
	}
	return names, nil
}
