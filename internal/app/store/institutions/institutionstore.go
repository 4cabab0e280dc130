package institutionstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

var (
	// ErrDuplicateInstitution is returned when an institution code or name
	// is already registered.
	ErrDuplicateInstitution = errors.New("an institution with this code or name already exists")

	errIdentityNeeded = errors.New("institution must carry a directory identity id")
	errCodeNeeded     = errors.New("institution code is required")
	errNameNeeded     = errors.New("institution name is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("institutions")}
}

// Create inserts a new institution. The caller supplies the directory
// identity ID as the document _id.
func (s *Store) Create(ctx context.Context, inst models.Institution) (models.Institution, error) {
	if inst.ID == "" {
		return models.Institution{}, errIdentityNeeded
	}
	inst.InstitutionID = normalize.Name(inst.InstitutionID)
	if inst.InstitutionID == "" {
		return models.Institution{}, errCodeNeeded
	}
	inst.InstitutionName = normalize.Name(inst.InstitutionName)
	if inst.InstitutionName == "" {
		return models.Institution{}, errNameNeeded
	}
	inst.Email = normalize.Email(inst.Email)
	inst.HeadContact = normalize.Phone(inst.HeadContact)
	inst.BursarContact = normalize.Phone(inst.BursarContact)

	now := time.Now()
	inst.CreatedAt = now
	inst.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, inst); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Institution{}, ErrDuplicateInstitution
		}
		return models.Institution{}, err
	}
	return inst, nil
}

// GetByID loads an institution by directory identity ID.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Institution, error) {
	var inst models.Institution
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

// GetByCode loads an institution by its registration code.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByCode(ctx context.Context, code string) (*models.Institution, error) {
	var inst models.Institution
	if err := s.c.FindOne(ctx, bson.M{"institution_id": normalize.Name(code)}).Decode(&inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

// List returns institutions ordered by name, optionally filtered by a
// case-insensitive name search.
func (s *Store) List(ctx context.Context, search string) ([]models.Institution, error) {
	q := bson.M{}
	if search = normalize.QueryParam(search); search != "" {
		q["institution_name"] = bson.M{"$regex": search, "$options": "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "institution_name", Value: 1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Institution
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of institutions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Update holds the institution fields editable after registration.
type Update struct {
	InstitutionName string
	Email           string
	Landline        string
	HeadContact     string
	BursarContact   string
	Branch          string
}

// UpdateByID applies an update to an institution. Returns
// mongo.ErrNoDocuments if the institution does not exist.
func (s *Store) UpdateByID(ctx context.Context, id string, u Update) error {
	set := bson.M{
		"institution_name": normalize.Name(u.InstitutionName),
		"email":            normalize.Email(u.Email),
		"landline":         normalize.Phone(u.Landline),
		"head_contact":     normalize.Phone(u.HeadContact),
		"bursar_contact":   normalize.Phone(u.BursarContact),
		"branch":           normalize.Name(u.Branch),
		"updated_at":       time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateInstitution
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AdjustTotals applies deltas to the rollup counters shown on institution
// cards. Deltas may be negative.
func (s *Store) AdjustTotals(ctx context.Context, id string, members, council, committee int64) error {
	inc := bson.M{}
	if members != 0 {
		inc["total_members"] = members
	}
	if council != 0 {
		inc["total_works_council"] = council
	}
	if committee != 0 {
		inc["total_works_committee"] = committee
	}
	if len(inc) == 0 {
		return nil
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": inc,
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an institution record. The caller dissolves members,
// works bodies, and directory identities first.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
