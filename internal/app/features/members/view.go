// internal/app/features/members/view.go
package members

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// canSee reports whether the signed-in user may open this member record:
// admins, the member's institution, and the member themself.
func canSee(r *http.Request, m *models.Member) bool {
	_, _, identityID, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return authz.CanManageInstitution(r, m.InstitutionID) || identityID == m.ID
}

// canEdit reports whether the signed-in user may change this member record:
// admins and the member themself (self-service contact updates).
func canEdit(r *http.Request, m *models.Member) bool {
	_, _, identityID, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return authz.IsAdmin(r) || identityID == m.ID
}

// ServeView renders the read-only member page with works seats.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Member not found.", "/dashboard")
		return
	}
	if !canSee(r, m) {
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	data := viewData{
		Member:    *m,
		CanEdit:   canEdit(r, m),
		CanDelete: authz.IsAdmin(r),
	}

	if inst, err := h.Institutions.GetByID(ctx, m.InstitutionID); err == nil {
		data.InstitutionName = inst.InstitutionName
	}

	// Seat lookups are tolerant; the page still renders without them.
	if seats, err := h.Works.ListByInstitution(ctx, models.WorksCouncil, m.InstitutionID); err == nil {
		data.CouncilSeats = seatsForMember(seats, m.ID)
	} else {
		h.Log.Warn("members: loading council seats failed", zap.String("member_id", m.ID), zap.Error(err))
	}
	if seats, err := h.Works.ListByInstitution(ctx, models.WorksCommittee, m.InstitutionID); err == nil {
		data.CommitteeSeats = seatsForMember(seats, m.ID)
	} else {
		h.Log.Warn("members: loading committee seats failed", zap.String("member_id", m.ID), zap.Error(err))
	}

	formutil.SetBase(&data.Base, r, m.FullName, "/members")
	templates.Render(w, r, "member_view", data)
}

func seatsForMember(seats []models.WorksAssignment, memberIdentityID string) []models.WorksAssignment {
	var out []models.WorksAssignment
	for _, s := range seats {
		if s.MemberID == memberIdentityID {
			out = append(out, s)
		}
	}
	return out
}
