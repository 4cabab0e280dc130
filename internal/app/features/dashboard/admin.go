// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/app/system/formutil"
	"github.com/zehsscwu/unionhub/internal/app/system/timeouts"
)

type adminData struct {
	formutil.Base

	InstitutionsCount     int64
	MembersCount          int64
	ActiveMembersCount    int64
	PendingRequestsCount  int64
	ApprovedRequestsCount int64
	RejectedRequestsCount int64
}

func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	counts := h.Metrics.FetchDashboardCounts(ctx)

	data := adminData{
		InstitutionsCount:     counts.Institutions,
		MembersCount:          counts.Members,
		ActiveMembersCount:    counts.ActiveMembers,
		PendingRequestsCount:  counts.PendingRequests,
		ApprovedRequestsCount: counts.ApprovedRequests,
		RejectedRequestsCount: counts.RejectedRequests,
	}
	formutil.SetBase(&data.Base, r, "Admin Dashboard", "/")

	h.Log.Debug("admin dashboard served", zap.String("user", data.UserName))

	templates.Render(w, r, "admin_dashboard", data)
}
