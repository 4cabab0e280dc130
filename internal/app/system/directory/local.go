package directory

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
	"github.com/zehsscwu/unionhub/internal/app/system/normalize"
)

// Local is a directory backed by the application's own database. It stores
// bcrypt password hashes in an "identities" collection and assigns UUIDs as
// identity IDs, so records look the same to callers as those from a hosted
// directory.
type Local struct {
	c *mongo.Collection
}

// NewLocal returns a directory persisting identities in db.
func NewLocal(db *mongo.Database) *Local {
	return &Local{c: db.Collection("identities")}
}

type identityDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Username     string    `bson:"username"`
	Role         string    `bson:"role"`
	PasswordHash []byte    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (l *Local) CreateIdentity(ctx context.Context, in NewIdentity) (Identity, error) {
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		return Identity{}, apperr.New(apperr.Validation, "email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Remote, "hashing password", err)
	}

	doc := identityDoc{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     normalize.Name(in.Username),
		Role:         normalize.Role(in.Role),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if _, err := l.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return Identity{}, apperr.New(apperr.Conflict, "an account with this email or username already exists")
		}
		return Identity{}, apperr.Wrap(apperr.Remote, "storing identity", err)
	}
	return Identity{ID: doc.ID, Email: doc.Email, Username: doc.Username, Role: doc.Role}, nil
}

func (l *Local) DeleteIdentity(ctx context.Context, id string) error {
	res, err := l.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Remote, "deleting identity", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "identity not found")
	}
	return nil
}

func (l *Local) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	var doc identityDoc
	err := l.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Identity{}, apperr.New(apperr.Validation, "invalid email or password")
	}
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.Remote, "loading identity", err)
	}
	if bcrypt.CompareHashAndPassword(doc.PasswordHash, []byte(password)) != nil {
		return Identity{}, apperr.New(apperr.Validation, "invalid email or password")
	}
	return Identity{ID: doc.ID, Email: doc.Email, Username: doc.Username, Role: doc.Role}, nil
}

var _ Service = (*Local)(nil)
