package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// DashboardCounts holds the rollup numbers shown on the admin dashboard.
type DashboardCounts struct {
	Institutions     int64
	Members          int64
	ActiveMembers    int64
	PendingRequests  int64
	ApprovedRequests int64
	RejectedRequests int64
}

// Store computes dashboard metrics across collections.
type Store struct {
	db  *mongo.Database
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// FetchDashboardCounts gathers the dashboard numbers. A failed count is
// logged and left at zero rather than failing the whole dashboard.
func (s *Store) FetchDashboardCounts(ctx context.Context) DashboardCounts {
	var out DashboardCounts
	out.Institutions = s.count(ctx, "institutions", bson.M{})
	out.Members = s.count(ctx, "members", bson.M{})
	out.ActiveMembers = s.count(ctx, "members", bson.M{"status": models.MemberActive})
	out.PendingRequests = s.count(ctx, "member_requests", bson.M{"status": models.RequestPending})
	out.ApprovedRequests = s.count(ctx, "member_requests", bson.M{"status": models.RequestApproved})
	out.RejectedRequests = s.count(ctx, "member_requests", bson.M{"status": models.RequestRejected})
	return out
}

// InstitutionCounts holds per-institution rollups for the institution
// dashboard.
type InstitutionCounts struct {
	Members         int64
	ActiveMembers   int64
	PendingRequests int64
	CouncilSeats    int64
	CommitteeSeats  int64
}

// FetchInstitutionCounts gathers the numbers for a single institution.
func (s *Store) FetchInstitutionCounts(ctx context.Context, institutionID string) InstitutionCounts {
	byInst := bson.M{"institution_id": institutionID}
	var out InstitutionCounts
	out.Members = s.count(ctx, "members", byInst)
	out.ActiveMembers = s.count(ctx, "members", bson.M{"institution_id": institutionID, "status": models.MemberActive})
	out.PendingRequests = s.count(ctx, "member_requests", bson.M{"institution_id": institutionID, "status": models.RequestPending})
	out.CouncilSeats = s.count(ctx, "works_councils", byInst)
	out.CommitteeSeats = s.count(ctx, "works_committees", byInst)
	return out
}

func (s *Store) count(ctx context.Context, collection string, filter bson.M) int64 {
	n, err := s.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		if s.log != nil {
			s.log.Warn("dashboard count failed",
				zap.String("collection", collection),
				zap.Error(err),
			)
		}
		return 0
	}
	return n
}
