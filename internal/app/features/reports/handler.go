// internal/app/features/reports/handler.go
package reports

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	requeststore "github.com/zehsscwu/unionhub/internal/app/store/requests"
	worksstore "github.com/zehsscwu/unionhub/internal/app/store/works"
)

// Handler is the feature-level entry point for Excel report downloads.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	ErrLog *uierrors.ErrorLogger

	Members      *memberstore.Store
	Institutions *institutionstore.Store
	Requests     *requeststore.Store
	Works        *worksstore.Store
}

// NewHandler constructs a Reports handler bound to a DB.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		ErrLog:       errLog,
		Members:      memberstore.New(db),
		Institutions: institutionstore.New(db),
		Requests:     requeststore.New(db),
		Works:        worksstore.New(db),
	}
}
