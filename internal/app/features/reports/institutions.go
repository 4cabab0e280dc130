// internal/app/features/reports/institutions.go
package reports

import (
	"context"
	"net/http"

	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

var institutionHeaders = []string{
	"Code", "Name", "Email", "Landline", "Head Contact", "Bursar Contact",
	"Branch", "Members", "Works Council", "Works Committee",
}

func institutionRow(inst models.Institution) []any {
	return []any{
		inst.InstitutionID, inst.InstitutionName, inst.Email, inst.Landline,
		inst.HeadContact, inst.BursarContact, inst.Branch,
		inst.TotalMembers, inst.TotalWorksCouncil, inst.TotalWorksCommittee,
	}
}

// ServeInstitutionsXLSX handles GET /reports/institutions.xlsx.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeInstitutionsXLSX(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	insts, err := h.Institutions.List(ctx, "")
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reports: list institutions", err, "Unable to build the report.", "/reports")
		return
	}

	const sheet = "Institutions"
	f, err := newWorkbook(sheet)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reports: build workbook", err, "Unable to build the report.", "/reports")
		return
	}
	if err := writeHeader(f, sheet, institutionHeaders); err != nil {
		f.Close()
		h.ErrLog.LogServerError(w, r, "reports: write header", err, "Unable to build the report.", "/reports")
		return
	}
	for i, inst := range insts {
		if err := writeRow(f, sheet, i+2, institutionRow(inst)); err != nil {
			f.Close()
			h.ErrLog.LogServerError(w, r, "reports: write row", err, "Unable to build the report.", "/reports")
			return
		}
	}

	h.serveWorkbook(w, r, f, "institutions")
}
