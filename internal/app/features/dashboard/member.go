// internal/app/features/dashboard/member.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

type memberData struct {
	formutil.Base

	Member          models.Member
	InstitutionName string
	CouncilSeats    []models.WorksAssignment
	CommitteeSeats  []models.WorksAssignment
}

func (h *Handler) ServeMember(w http.ResponseWriter, r *http.Request) {
	_, _, identityID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Members.GetByID(ctx, identityID)
	if err != nil {
		h.Log.Warn("member dashboard: load member",
			zap.String("identity_id", identityID), zap.Error(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := memberData{Member: *m}
	if inst, err := h.Institutions.GetByID(ctx, m.InstitutionID); err == nil {
		data.InstitutionName = inst.InstitutionName
	}

	// A member's seats are few; filter their institution's lists in memory.
	if seats, err := h.Works.ListByInstitution(ctx, models.WorksCouncil, m.InstitutionID); err == nil {
		data.CouncilSeats = seatsForMember(seats, m.ID)
	}
	if seats, err := h.Works.ListByInstitution(ctx, models.WorksCommittee, m.InstitutionID); err == nil {
		data.CommitteeSeats = seatsForMember(seats, m.ID)
	}

	formutil.SetBase(&data.Base, r, "My Membership", "/")

	templates.Render(w, r, "member_dashboard", data)
}

func seatsForMember(seats []models.WorksAssignment, memberID string) []models.WorksAssignment {
	var out []models.WorksAssignment
	for _, s := range seats {
		if s.MemberID == memberID {
			out = append(out, s)
		}
	}
	return out
}
