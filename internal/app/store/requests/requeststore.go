package requeststore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

var (
	errInstitutionNeeded = errors.New("enrollment request must name an institution")
	errNameNeeded        = errors.New("enrollment request must carry a full name")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("member_requests")}
}

// Create inserts a new enrollment request in the pending state. Multiple
// open requests for the same person are allowed; reviewers resolve
// duplicates when approving.
func (s *Store) Create(ctx context.Context, r models.MemberRequest) (models.MemberRequest, error) {
	if r.InstitutionID == "" {
		return models.MemberRequest{}, errInstitutionNeeded
	}
	r.FullName = normalize.Name(r.FullName)
	if r.FullName == "" {
		return models.MemberRequest{}, errNameNeeded
	}
	r.ContactNumber = normalize.Phone(r.ContactNumber)
	r.ID = primitive.NewObjectID()
	r.Status = models.RequestPending
	r.AssignedMemberID = ""

	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.MemberRequest{}, err
	}
	return r, nil
}

// GetByID loads a request. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MemberRequest, error) {
	var r models.MemberRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListFilter narrows List and Count.
type ListFilter struct {
	InstitutionID string
	Status        string
	Limit         int64
	Offset        int64
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.InstitutionID != "" {
		q["institution_id"] = f.InstitutionID
	}
	if f.Status != "" {
		q["status"] = normalize.Status(f.Status)
	}
	return q
}

// List returns requests matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.MemberRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit).SetSkip(f.Offset)
	}
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MemberRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of requests matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// MarkApproved transitions a request to approved and records the member
// number that was assigned. Returns mongo.ErrNoDocuments if the request
// does not exist.
func (s *Store) MarkApproved(ctx context.Context, id primitive.ObjectID, memberID string) error {
	return s.setStatus(ctx, id, bson.M{
		"status":             models.RequestApproved,
		"assigned_member_id": normalize.MemberID(memberID),
		"updated_at":         time.Now(),
	})
}

// MarkRejected transitions a request to rejected. Returns
// mongo.ErrNoDocuments if the request does not exist.
func (s *Store) MarkRejected(ctx context.Context, id primitive.ObjectID) error {
	return s.setStatus(ctx, id, bson.M{
		"status":     models.RequestRejected,
		"updated_at": time.Now(),
	})
}

// MarkPending returns a request to the pending state, clearing any assigned
// member number. Used to roll back a failed approval.
func (s *Store) MarkPending(ctx context.Context, id primitive.ObjectID) error {
	return s.setStatus(ctx, id, bson.M{
		"status":             models.RequestPending,
		"assigned_member_id": "",
		"updated_at":         time.Now(),
	})
}

func (s *Store) setStatus(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a request record.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteByInstitution removes every request an institution has submitted,
// whatever its status. Used when the institution is dissolved.
func (s *Store) DeleteByInstitution(ctx context.Context, institutionID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"institution_id": institutionID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
