package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateInstitution creates a test institution. The identity ID doubles as
// the document _id, mirroring how provisioning stores institutions.
func (f *Fixtures) CreateInstitution(ctx context.Context, identityID, code, name string) models.Institution {
	f.t.Helper()

	now := time.Now().UTC()
	inst := models.Institution{
		ID:              identityID,
		InstitutionID:   code,
		InstitutionName: name,
		Branch:          "Central",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("institutions").InsertOne(ctx, inst); err != nil {
		f.t.Fatalf("create test institution: %v", err)
	}
	return inst
}

// CreateMember creates an active test member in the given institution.
func (f *Fixtures) CreateMember(ctx context.Context, identityID, memberID, institutionID, fullName string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:            identityID,
		MemberID:      memberID,
		InstitutionID: institutionID,
		FullName:      fullName,
		Status:        models.MemberActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("create test member: %v", err)
	}
	return m
}

// CreatePendingRequest creates a pending membership request for the institution.
func (f *Fixtures) CreatePendingRequest(ctx context.Context, institutionID, fullName string) models.MemberRequest {
	f.t.Helper()

	now := time.Now().UTC()
	req := models.MemberRequest{
		ID:            primitive.NewObjectID(),
		InstitutionID: institutionID,
		FullName:      fullName,
		JobTitle:      "Teacher",
		Status:        models.RequestPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("member_requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("create test request: %v", err)
	}
	return req
}

// CreateProfile creates a role profile for an identity.
func (f *Fixtures) CreateProfile(ctx context.Context, identityID, role, username string) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Profile{
		ID:        identityID,
		Role:      role,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("create test profile: %v", err)
	}
	return p
}

// CreateWorksSeat creates a works council or committee seat for a member.
func (f *Fixtures) CreateWorksSeat(ctx context.Context, kind, institutionID, memberIdentityID, rank string) models.WorksAssignment {
	f.t.Helper()

	coll := "works_councils"
	if kind == models.WorksCommittee {
		coll = "works_committees"
	}

	a := models.WorksAssignment{
		ID:            primitive.NewObjectID(),
		InstitutionID: institutionID,
		MemberID:      memberIdentityID,
		Rank:          rank,
		CreatedAt:     time.Now().UTC(),
	}

	if _, err := f.db.Collection(coll).InsertOne(ctx, a); err != nil {
		f.t.Fatalf("create test works seat: %v", err)
	}
	return a
}
