// internal/app/features/members/delete.go
package members

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
)

// HandleDelete removes a member: works seats, the directory identity, the
// role profile, and the member record, then lowers the institution's
// rollup counters. Deleting a member that no longer exists redirects
// without error.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	id := chi.URLParam(r, "id")
	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "members: load for delete", err, "Unable to delete the member.", "/members")
		return
	}

	council, committee, err := h.Works.RemoveByMember(ctx, m.ID)
	if err != nil {
		h.Log.Error("members: removing works seats failed",
			zap.String("member_id", m.ID), zap.Error(err))
	}

	// Identity and profile removals are tolerant so a partially deleted
	// member can be deleted again.
	if err := h.Directory.DeleteIdentity(ctx, m.ID); err != nil {
		h.Log.Error("members: deleting directory identity failed",
			zap.String("member_id", m.ID), zap.Error(err))
	}
	if err := h.Profiles.Delete(ctx, m.ID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("members: deleting profile failed",
			zap.String("member_id", m.ID), zap.Error(err))
	}

	if err := h.Members.Delete(ctx, m.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "members: delete record", err, "Unable to delete the member.", "/members")
		return
	}

	if err := h.Institutions.AdjustTotals(ctx, m.InstitutionID, -1, -council, -committee); err != nil {
		h.Log.Warn("members: adjusting institution totals failed",
			zap.String("institution_id", m.InstitutionID), zap.Error(err))
	}

	if h.AuditLog != nil {
		h.AuditLog.MemberDeleted(ctx, r, actorID(r), m.InstitutionID, m.MemberID)
	}

	http.Redirect(w, r, "/members", http.StatusSeeOther)
}
