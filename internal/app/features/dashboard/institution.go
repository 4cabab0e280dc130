// internal/app/features/dashboard/institution.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	metricsstore "github.com/zehsscwu/unionhub/internal/app/store/metrics"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

type institutionData struct {
	formutil.Base

	Institution models.Institution
	Counts      metricsstore.InstitutionCounts
}

func (h *Handler) ServeInstitution(w http.ResponseWriter, r *http.Request) {
	_, _, identityID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inst, err := h.Institutions.GetByID(ctx, identityID)
	if err != nil {
		h.Log.Warn("institution dashboard: load institution",
			zap.String("identity_id", identityID), zap.Error(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := institutionData{
		Institution: *inst,
		Counts:      h.Metrics.FetchInstitutionCounts(ctx, inst.ID),
	}
	formutil.SetBase(&data.Base, r, inst.InstitutionName, "/")

	templates.Render(w, r, "institution_dashboard", data)
}
