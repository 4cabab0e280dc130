// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	metricsstore "github.com/zehsscwu/unionhub/internal/app/store/metrics"
	worksstore "github.com/zehsscwu/unionhub/internal/app/store/works"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	Metrics      *metricsstore.Store
	Institutions *institutionstore.Store
	Members      *memberstore.Store
	Works        *worksstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		Metrics:      metricsstore.New(db, logger),
		Institutions: institutionstore.New(db),
		Members:      memberstore.New(db),
		Works:        worksstore.New(db),
	}
}

// ServeDashboard dispatches to the role-specific view.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch strings.ToLower(strings.TrimSpace(role)) {
	case "admin":
		h.ServeAdmin(w, r)
	case "institution":
		h.ServeInstitution(w, r)
	case "member":
		h.ServeMember(w, r)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
