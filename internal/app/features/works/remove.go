// internal/app/features/works/remove.go
package works

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// HandleRemove unseats one assignment. Removing a seat that is already
// gone redirects without error.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind != models.WorksCouncil && kind != models.WorksCommittee {
		http.Redirect(w, r, "/works", http.StatusSeeOther)
		return
	}
	seatID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/works", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	seat, err := h.Works.Get(ctx, kind, seatID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Redirect(w, r, "/works", http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "works: load seat", err, "Unable to remove the seat right now.", "/works")
		return
	}
	if !authz.CanManageInstitution(r, seat.InstitutionID) {
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	removed, err := h.Works.Remove(ctx, kind, seatID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Redirect(w, r, worksURL(seat.InstitutionID, ""), http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "works: remove seat", err, "Unable to remove the seat right now.", "/works")
		return
	}

	councilDelta, committeeDelta := int64(0), int64(0)
	if kind == models.WorksCouncil {
		councilDelta = -1
	} else {
		committeeDelta = -1
	}
	if err := h.Institutions.AdjustTotals(ctx, removed.InstitutionID, 0, councilDelta, committeeDelta); err != nil {
		h.Log.Warn("works: adjusting institution totals failed",
			zap.String("institution_id", removed.InstitutionID), zap.Error(err))
	}

	memberNumber := removed.MemberID
	if m, merr := h.Members.GetByID(ctx, removed.MemberID); merr == nil {
		memberNumber = m.MemberID
	}
	if h.AuditLog != nil {
		h.AuditLog.WorksSeatRemoved(ctx, r, actorID(r), removed.InstitutionID, memberNumber, kind)
	}

	http.Redirect(w, r, worksURL(removed.InstitutionID, ""), http.StatusSeeOther)
}
