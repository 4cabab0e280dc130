// internal/app/features/requests/handler.go
package requests

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	requeststore "github.com/zehsscwu/unionhub/internal/app/store/requests"
	"github.com/zehsscwu/unionhub/internal/app/system/auditlog"
	"github.com/zehsscwu/unionhub/internal/app/system/authz"
	"github.com/zehsscwu/unionhub/internal/app/system/enroll"
)

// Handler is the feature-level entry point for enrollment Requests.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Enroll   *enroll.Service

	Requests     *requeststore.Store
	Institutions *institutionstore.Store

	// SupportWhatsApp is the union office number for wa.me follow-up
	// links. Empty disables the links.
	SupportWhatsApp string
}

// NewHandler constructs a Requests handler bound to a DB and the
// enrollment service that performs approvals.
func NewHandler(db *mongo.Database, enrollSvc *enroll.Service, supportWhatsApp string, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:              db,
		Log:             logger,
		ErrLog:          errLog,
		AuditLog:        auditLog,
		Enroll:          enrollSvc,
		Requests:        requeststore.New(db),
		Institutions:    institutionstore.New(db),
		SupportWhatsApp: supportWhatsApp,
	}
}

func actorID(r *http.Request) string {
	_, _, id, _ := authz.UserCtx(r)
	return id
}
