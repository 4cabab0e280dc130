// internal/app/features/institutions/handler.go
package institutions

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	metricsstore "github.com/zehsscwu/unionhub/internal/app/store/metrics"
	profilestore "github.com/zehsscwu/unionhub/internal/app/store/profiles"
	requeststore "github.com/zehsscwu/unionhub/internal/app/store/requests"
	worksstore "github.com/zehsscwu/unionhub/internal/app/store/works"
	"github.com/zehsscwu/unionhub/internal/app/system/auditlog"
	"github.com/zehsscwu/unionhub/internal/app/system/directory"
)

// Handler is the feature-level entry point for Institutions.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	ErrLog    *uierrors.ErrorLogger
	AuditLog  *auditlog.Logger
	Directory directory.Service
	OrgDomain string

	Institutions *institutionstore.Store
	Members      *memberstore.Store
	Profiles     *profilestore.Store
	Requests     *requeststore.Store
	Works        *worksstore.Store
	Metrics      *metricsstore.Store
}

// NewHandler constructs an Institutions handler bound to a DB and its
// collaborators.
func NewHandler(db *mongo.Database, dir directory.Service, orgDomain string, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		ErrLog:       errLog,
		AuditLog:     auditLog,
		Directory:    dir,
		OrgDomain:    orgDomain,
		Institutions: institutionstore.New(db),
		Members:      memberstore.New(db),
		Profiles:     profilestore.New(db),
		Requests:     requeststore.New(db),
		Works:        worksstore.New(db),
		Metrics:      metricsstore.New(db, logger),
	}
}
