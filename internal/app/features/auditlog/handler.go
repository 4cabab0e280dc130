// internal/app/features/auditlog/handler.go
package auditlog

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	auditstore "github.com/zehsscwu/unionhub/internal/app/store/audit"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
)

// Handler serves the admin audit trail: sign-ins, enrollment decisions,
// and roster changes, with filtering by category and institution.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Events       *auditstore.Store
	Institutions *institutionstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		ErrLog:       errLog,
		Events:       auditstore.New(db),
		Institutions: institutionstore.New(db),
	}
}
