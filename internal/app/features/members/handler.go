// internal/app/features/members/handler.go
package members

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	profilestore "github.com/zehsscwu/unionhub/internal/app/store/profiles"
	worksstore "github.com/zehsscwu/unionhub/internal/app/store/works"
	"github.com/zehsscwu/unionhub/internal/app/system/auditlog"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/directory"
	"github.com/zehsscwu/unionhub/internal/app/system/enroll"
)

// Handler is the feature-level entry point for Members.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	ErrLog    *uierrors.ErrorLogger
	AuditLog  *auditlog.Logger
	Directory directory.Service
	Enroll    *enroll.Service

	Members      *memberstore.Store
	Institutions *institutionstore.Store
	Profiles     *profilestore.Store
	Works        *worksstore.Store
}

// NewHandler constructs a Members handler bound to a DB and its
// collaborators. The enroll service runs the direct-add provisioning.
func NewHandler(db *mongo.Database, dir directory.Service, enrollSvc *enroll.Service, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		ErrLog:       errLog,
		AuditLog:     auditLog,
		Directory:    dir,
		Enroll:       enrollSvc,
		Members:      memberstore.New(db),
		Institutions: institutionstore.New(db),
		Profiles:     profilestore.New(db),
		Works:        worksstore.New(db),
	}
}

func actorID(r *http.Request) string {
	_, _, id, _ := authz.UserCtx(r)
	return id
}
