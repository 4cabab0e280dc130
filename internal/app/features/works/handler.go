// internal/app/features/works/handler.go
package works

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	worksstore "github.com/zehsscwu/unionhub/internal/app/store/works"
	"github.com/zehsscwu/unionhub/internal/app/system/auditlog"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
)

// Handler is the feature-level entry point for works council and works
// committee seat management.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Works        *worksstore.Store
	Members      *memberstore.Store
	Institutions *institutionstore.Store
}

// NewHandler constructs a Works handler bound to a DB.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		ErrLog:       errLog,
		AuditLog:     auditLog,
		Works:        worksstore.New(db),
		Members:      memberstore.New(db),
		Institutions: institutionstore.New(db),
	}
}

func actorID(r *http.Request) string {
	_, _, id, _ := authz.UserCtx(r)
	return id
}
