// internal/app/features/institutions/delete.go
package institutions

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
)

// HandleDelete dissolves an institution: every member is retired
// individually (directory identity, profile, member record), then the works
// bodies, pending requests, and finally the institution's own login and
// record. The cascade is a batch of individual deletions, not atomic; a
// failure partway leaves already-deleted members gone and is reported.
//
// Route: POST /institutions/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	inst, err := h.Institutions.GetByID(ctx, id)
	if err != nil {
		// Nothing to dissolve; treat as idempotent.
		h.Log.Info("institution delete: no document found", zap.String("institution_id", id))
		http.Redirect(w, r, "/institutions", http.StatusSeeOther)
		return
	}

	members, err := h.Members.ListByInstitution(ctx, inst.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "institutions: list members for dissolution", err, "Unable to delete the institution.", "/institutions")
		return
	}

	for _, m := range members {
		if err := h.Directory.DeleteIdentity(ctx, m.ID); err != nil {
			h.Log.Error("institution delete: member identity",
				zap.String("member_id", m.MemberID), zap.Error(err))
		}
		if err := h.Profiles.Delete(ctx, m.ID); err != nil {
			h.Log.Error("institution delete: member profile",
				zap.String("member_id", m.MemberID), zap.Error(err))
		}
		if err := h.Members.Delete(ctx, m.ID); err != nil {
			h.ErrLog.LogServerError(w, r, "institutions: delete member record", err, "Unable to delete the institution.", "/institutions")
			return
		}
	}

	if err := h.Works.RemoveByInstitution(ctx, inst.ID); err != nil {
		h.Log.Error("institution delete: works bodies", zap.Error(err))
	}
	if _, err := h.Requests.DeleteByInstitution(ctx, inst.ID); err != nil {
		h.Log.Error("institution delete: requests", zap.Error(err))
	}

	if err := h.Directory.DeleteIdentity(ctx, inst.ID); err != nil {
		h.Log.Error("institution delete: institution identity", zap.Error(err))
	}
	if err := h.Profiles.Delete(ctx, inst.ID); err != nil {
		h.Log.Error("institution delete: institution profile", zap.Error(err))
	}
	if err := h.Institutions.Delete(ctx, inst.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "institutions: delete record", err, "Unable to delete the institution.", "/institutions")
		return
	}

	if h.AuditLog != nil {
		h.AuditLog.InstitutionDeleted(ctx, r, actorID(r), inst.ID, inst.InstitutionName)
	}

	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" || !strings.HasPrefix(ret, "/") {
		ret = "/institutions"
	}
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
