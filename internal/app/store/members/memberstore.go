package memberstore

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
	// ErrDuplicateMemberID is returned when inserting a member whose member
	// number is already assigned. The unique index on member_id is the
	// authority for this check.
	ErrDuplicateMemberID = errors.New("this member number is already assigned")

	errIdentityNeeded    = errors.New("member must carry a directory identity id")
	errInstitutionNeeded = errors.New("member must belong to an institution")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// Create inserts a new member after normalizing fields. The caller supplies
// the directory identity ID as the document _id and the allocated member
// number; a duplicate member number surfaces as ErrDuplicateMemberID.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	if m.ID == "" {
		return models.Member{}, errIdentityNeeded
	}
	if m.InstitutionID == "" {
		return models.Member{}, errInstitutionNeeded
	}
	m.MemberID = normalize.MemberID(m.MemberID)
	m.FullName = normalize.Name(m.FullName)
	m.ContactNumber = normalize.Phone(m.ContactNumber)
	if m.Status == "" {
		m.Status = models.MemberActive
	}

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, ErrDuplicateMemberID
		}
		return models.Member{}, err
	}
	return m, nil
}

// GetByID loads a member by directory identity ID.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByMemberID loads a member by member number (for example "ZEH-0042").
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByMemberID(ctx context.Context, memberID string) (*models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"member_id": normalize.MemberID(memberID)}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ExistsMemberID reports whether a member number is already assigned.
func (s *Store) ExistsMemberID(ctx context.Context, memberID string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"member_id": normalize.MemberID(memberID)}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LatestMemberID returns the highest member number currently assigned, or
// "" when the collection is empty. Zero-padded codes only sort
// lexicographically at equal width, and numbers past 9999 grow wider, so
// the max is taken by code length first and then by the code itself.
func (s *Store) LatestMemberID(ctx context.Context) (string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"member_id": 1,
			"width":     bson.M{"$strLenCP": "$member_id"},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "width", Value: -1},
			{Key: "member_id", Value: -1},
		}}},
		{{Key: "$limit", Value: 1}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return "", err
	}
	defer cur.Close(ctx)

	var docs []struct {
		MemberID string `bson:"member_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", nil
	}
	return docs[0].MemberID, nil
}

// ListFilter narrows List and Count.
type ListFilter struct {
	InstitutionID string
	Status        string
	Search        string // matches full name or member number
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
	if f.Search != "" {
		q["$or"] = []bson.M{
			{"full_name": bson.M{"$regex": f.Search, "$options": "i"}},
			{"member_id": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}
	return q
}

// List returns members matching the filter, ordered by member number.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "member_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit).SetSkip(f.Offset)
	}
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of members matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// Update holds the member fields editable after enrollment.
type Update struct {
	FullName        string
	JobTitle        string
	Grade           string
	ContactNumber   string
	PositionInUnion string
	Branch          string
	Status          string
}

// UpdateByID applies an update to a member. Returns mongo.ErrNoDocuments
// if the member does not exist.
func (s *Store) UpdateByID(ctx context.Context, id string, u Update) error {
	set := bson.M{
		"full_name":         normalize.Name(u.FullName),
		"job_title":         normalize.Name(u.JobTitle),
		"grade":             normalize.Name(u.Grade),
		"contact_number":    normalize.Phone(u.ContactNumber),
		"position_in_union": normalize.Name(u.PositionInUnion),
		"branch":            normalize.Name(u.Branch),
		"updated_at":        time.Now(),
	}
	if u.Status != "" {
		set["status"] = normalize.Status(u.Status)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a member record. The caller is responsible for removing
// the matching directory identity and profile.
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

// ListByInstitution returns every member of an institution. Used when an
// institution is dissolved and its members' identities must be retired.
func (s *Store) ListByInstitution(ctx context.Context, institutionID string) ([]models.Member, error) {
	return s.List(ctx, ListFilter{InstitutionID: institutionID})
}

// DeleteByInstitution removes all member records of an institution and
// returns how many were removed.
func (s *Store) DeleteByInstitution(ctx context.Context, institutionID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"institution_id": institutionID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
