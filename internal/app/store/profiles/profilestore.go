package profilestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

var (
	// ErrDuplicateUsername is returned when a profile username collides
	// with an existing one.
	ErrDuplicateUsername = errors.New("a profile with this username already exists")

	errIdentityNeeded = errors.New("profile must carry a directory identity id")
	errBadRole        = errors.New(`role must be "admin"|"institution"|"member"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// Create inserts a role profile keyed by directory identity ID.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	if p.ID == "" {
		return models.Profile{}, errIdentityNeeded
	}
	p.Role = normalize.Role(p.Role)
	switch p.Role {
	case models.RoleAdmin, models.RoleInstitution, models.RoleMember:
	default:
		return models.Profile{}, errBadRole
	}
	p.Username = normalize.Name(p.Username)

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateUsername
		}
		return models.Profile{}, err
	}
	return p, nil
}

// GetByID loads a profile by directory identity ID.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUsername loads a profile by username (a member number or an
// institution code). Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"username": normalize.Name(username)}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a profile.
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
