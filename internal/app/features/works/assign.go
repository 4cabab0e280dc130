// internal/app/features/works/assign.go
package works

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	worksstore "github.com/zehsscwu/unionhub/internal/app/store/works"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

func worksURL(institutionID, errMsg string) string {
	u := "/works?institution=" + url.QueryEscape(institutionID)
	if errMsg != "" {
		u += "&error=" + url.QueryEscape(errMsg)
	}
	return u
}

// HandleAssign seats a member on a works body. The member must belong to
// the institution; a member holds at most one seat per body.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "works: parse assign form", err, "Invalid form submission.", "/works")
		return
	}

	kind := strings.TrimSpace(r.FormValue("kind"))
	institutionID := strings.TrimSpace(r.FormValue("institution_id"))
	memberIdentityID := strings.TrimSpace(r.FormValue("member_id"))
	rank := normalize.Name(r.FormValue("rank"))

	if !authz.CanManageInstitution(r, institutionID) {
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}
	if kind != models.WorksCouncil && kind != models.WorksCommittee {
		http.Redirect(w, r, worksURL(institutionID, "Pick a works body."), http.StatusSeeOther)
		return
	}
	if memberIdentityID == "" || rank == "" {
		http.Redirect(w, r, worksURL(institutionID, "A member and a rank are required."), http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Members.GetByID(ctx, memberIdentityID)
	if err != nil || m.InstitutionID != institutionID {
		http.Redirect(w, r, worksURL(institutionID, "That member does not belong to this institution."), http.StatusSeeOther)
		return
	}

	if _, err := h.Works.Assign(ctx, kind, models.WorksAssignment{
		InstitutionID: institutionID,
		MemberID:      m.ID,
		Rank:          rank,
	}); err != nil {
		if errors.Is(err, worksstore.ErrAlreadyAssigned) {
			http.Redirect(w, r, worksURL(institutionID, m.FullName+" already sits on that body."), http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "works: assign seat", err, "Unable to assign the seat right now.", worksURL(institutionID, ""))
		return
	}

	councilDelta, committeeDelta := int64(0), int64(0)
	if kind == models.WorksCouncil {
		councilDelta = 1
	} else {
		committeeDelta = 1
	}
	if err := h.Institutions.AdjustTotals(ctx, institutionID, 0, councilDelta, committeeDelta); err != nil {
		h.Log.Warn("works: adjusting institution totals failed",
			zap.String("institution_id", institutionID), zap.Error(err))
	}

	if h.AuditLog != nil {
		h.AuditLog.WorksSeatAssigned(ctx, r, actorID(r), institutionID, m.MemberID, kind, rank)
	}

	http.Redirect(w, r, worksURL(institutionID, ""), http.StatusSeeOther)
}
