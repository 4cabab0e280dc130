package worksstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

var (
	// ErrAlreadyAssigned is returned when a member already sits on the
	// works body being assigned.
	ErrAlreadyAssigned = errors.New("this member is already assigned to that body")

	errBadKind = errors.New(`kind must be "council"|"committee"`)
)

// Store manages works council and works committee seat assignments. The
// two bodies live in separate collections with identical document shapes.
type Store struct {
	council   *mongo.Collection
	committee *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		council:   db.Collection("works_councils"),
		committee: db.Collection("works_committees"),
	}
}

func (s *Store) collection(kind string) (*mongo.Collection, error) {
	switch kind {
	case models.WorksCouncil:
		return s.council, nil
	case models.WorksCommittee:
		return s.committee, nil
	}
	return nil, errBadKind
}

// Assign seats a member on a works body. A member holds at most one seat
// per body per institution; a second assignment returns ErrAlreadyAssigned.
func (s *Store) Assign(ctx context.Context, kind string, a models.WorksAssignment) (models.WorksAssignment, error) {
	c, err := s.collection(kind)
	if err != nil {
		return models.WorksAssignment{}, err
	}
	a.ID = primitive.NewObjectID()
	a.Rank = normalize.Name(a.Rank)
	a.CreatedAt = time.Now()

	if _, err := c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.WorksAssignment{}, ErrAlreadyAssigned
		}
		return models.WorksAssignment{}, err
	}
	return a, nil
}

// ListByInstitution returns the seats of one body at an institution,
// ordered by rank.
func (s *Store) ListByInstitution(ctx context.Context, kind, institutionID string) ([]models.WorksAssignment, error) {
	c, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "rank", Value: 1}})
	cur, err := c.Find(ctx, bson.M{"institution_id": institutionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.WorksAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByInstitution returns the number of seats filled on one body at an
// institution.
func (s *Store) CountByInstitution(ctx context.Context, kind, institutionID string) (int64, error) {
	c, err := s.collection(kind)
	if err != nil {
		return 0, err
	}
	return c.CountDocuments(ctx, bson.M{"institution_id": institutionID})
}

// Get returns one assignment. Returns mongo.ErrNoDocuments if it does
// not exist.
func (s *Store) Get(ctx context.Context, kind string, id primitive.ObjectID) (*models.WorksAssignment, error) {
	c, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	var a models.WorksAssignment
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Remove unseats an assignment. Returns mongo.ErrNoDocuments if it does
// not exist.
func (s *Store) Remove(ctx context.Context, kind string, id primitive.ObjectID) (*models.WorksAssignment, error) {
	c, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	var removed models.WorksAssignment
	if err := c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&removed); err != nil {
		return nil, err
	}
	return &removed, nil
}

// RemoveByMember unseats a member from both bodies, for example when the
// member record is deleted. Returns (council removed, committee removed).
func (s *Store) RemoveByMember(ctx context.Context, memberID string) (int64, int64, error) {
	cres, err := s.council.DeleteMany(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return 0, 0, err
	}
	mres, err := s.committee.DeleteMany(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return cres.DeletedCount, 0, err
	}
	return cres.DeletedCount, mres.DeletedCount, nil
}

// RemoveByInstitution clears both bodies of an institution during
// dissolution.
func (s *Store) RemoveByInstitution(ctx context.Context, institutionID string) error {
	if _, err := s.council.DeleteMany(ctx, bson.M{"institution_id": institutionID}); err != nil {
		return err
	}
	if _, err := s.committee.DeleteMany(ctx, bson.M{"institution_id": institutionID}); err != nil {
		return err
	}
	return nil
}
