package enroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	"github.com/zehsscwu/unionhub/internal/app/system/apperr"
	"github.com/zehsscwu/unionhub/internal/app/system/directory"
	"github.com/zehsscwu/unionhub/internal/domain/models"
)

// --- in-memory fakes ---

type fakeMembers struct {
	latest     string
	latestErr  error
	byID       map[string]models.Member
	byNumber   map[string]string // member number -> identity id
	createErr  error
	raceDup    bool // report the number free but fail the insert as duplicate
	deletedIDs []string
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{byID: map[string]models.Member{}, byNumber: map[string]string{}}
}

func (f *fakeMembers) LatestMemberID(ctx context.Context) (string, error) {
	return f.latest, f.latestErr
}

func (f *fakeMembers) ExistsMemberID(ctx context.Context, memberID string) (bool, error) {
	_, ok := f.byNumber[memberID]
	return ok, nil
}

func (f *fakeMembers) Create(ctx context.Context, m models.Member) (models.Member, error) {
	if f.createErr != nil {
		return models.Member{}, f.createErr
	}
	if f.raceDup {
		return models.Member{}, memberstore.ErrDuplicateMemberID
	}
	if _, ok := f.byNumber[m.MemberID]; ok {
		return models.Member{}, memberstore.ErrDuplicateMemberID
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	f.byID[m.ID] = m
	f.byNumber[m.MemberID] = m.ID
	return m, nil
}

func (f *fakeMembers) Delete(ctx context.Context, id string) error {
	m, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.byID, id)
	delete(f.byNumber, m.MemberID)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeRequests struct {
	byID            map[primitive.ObjectID]models.MemberRequest
	markApprovedErr error
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{byID: map[primitive.ObjectID]models.MemberRequest{}}
}

func (f *fakeRequests) add(r models.MemberRequest) primitive.ObjectID {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	f.byID[r.ID] = r
	return r.ID
}

func (f *fakeRequests) Create(ctx context.Context, r models.MemberRequest) (models.MemberRequest, error) {
	r.ID = primitive.NewObjectID()
	r.Status = models.RequestPending
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeRequests) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MemberRequest, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &r, nil
}

func (f *fakeRequests) MarkApproved(ctx context.Context, id primitive.ObjectID, memberID string) error {
	if f.markApprovedErr != nil {
		return f.markApprovedErr
	}
	r, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	r.Status = models.RequestApproved
	r.AssignedMemberID = memberID
	f.byID[id] = r
	return nil
}

func (f *fakeRequests) MarkRejected(ctx context.Context, id primitive.ObjectID) error {
	r, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	r.Status = models.RequestRejected
	f.byID[id] = r
	return nil
}

type fakeProfiles struct {
	byID       map[string]models.Profile
	createErr  error
	deletedIDs []string
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byID: map[string]models.Profile{}}
}

func (f *fakeProfiles) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	if f.createErr != nil {
		return models.Profile{}, f.createErr
	}
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeProfiles) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.byID, id)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeDirectory struct {
	seq        int
	created    []directory.NewIdentity
	deletedIDs []string
	createErr  error
}

func (f *fakeDirectory) CreateIdentity(ctx context.Context, in directory.NewIdentity) (directory.Identity, error) {
	if f.createErr != nil {
		return directory.Identity{}, f.createErr
	}
	f.seq++
	f.created = append(f.created, in)
	return directory.Identity{
		ID:       fmt.Sprintf("identity-%04d", f.seq),
		Email:    in.Email,
		Username: in.Username,
		Role:     in.Role,
	}, nil
}

func (f *fakeDirectory) DeleteIdentity(ctx context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeDirectory) Authenticate(ctx context.Context, email, password string) (directory.Identity, error) {
	return directory.Identity{}, apperr.New(apperr.Validation, "invalid email or password")
}

type fakeTotals struct {
	memberDelta int64
}

func (f *fakeTotals) AdjustTotals(ctx context.Context, id string, members, council, committee int64) error {
	f.memberDelta += members
	return nil
}

type fixture struct {
	svc      *Service
	members  *fakeMembers
	requests *fakeRequests
	profiles *fakeProfiles
	dir      *fakeDirectory
	totals   *fakeTotals
}

func newFixture() *fixture {
	f := &fixture{
		members:  newFakeMembers(),
		requests: newFakeRequests(),
		profiles: newFakeProfiles(),
		dir:      &fakeDirectory{},
		totals:   &fakeTotals{},
	}
	f.svc = New(Config{
		Members:      f.members,
		Requests:     f.requests,
		Profiles:     f.profiles,
		Institutions: f.totals,
		Directory:    f.dir,
		Prefix:       "ZEH",
		OrgDomain:    "zehsscwu.org",
		Log:          zap.NewNop(),
	})
	return f
}

func pendingRequest() models.MemberRequest {
	return models.MemberRequest{
		InstitutionID: "inst-1",
		FullName:      "Tariro Moyo",
		NationalID:    "63-123456A70",
		Gender:        "F",
		JobTitle:      "Senior Nurse",
		ContactNumber: "0777123456",
		Status:        models.RequestPending,
	}
}

// --- suggestion ---

func TestSuggestMemberID(t *testing.T) {
	cases := []struct {
		name   string
		latest string
		err    error
		want   string
	}{
		{name: "no members yet", latest: "", want: "ZEH-0001"},
		{name: "increments latest", latest: "ZEH-0007", want: "ZEH-0008"},
		{name: "malformed latest degrades to seed", latest: "OLD/31", want: "ZEH-0001"},
		{name: "store error degrades to seed", err: errors.New("down"), want: "ZEH-0001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.members.latest = tc.latest
			f.members.latestErr = tc.err
			if got := f.svc.SuggestMemberID(context.Background()); got != tc.want {
				t.Fatalf("SuggestMemberID = %q, want %q", got, tc.want)
			}
		})
	}
}

// --- submission ---

func TestSubmit(t *testing.T) {
	f := newFixture()
	got, err := f.svc.Submit(context.Background(), pendingRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.Status != models.RequestPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if got.ID.IsZero() {
		t.Errorf("expected an assigned request ID")
	}
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture()

	r := pendingRequest()
	r.InstitutionID = ""
	if _, err := f.svc.Submit(context.Background(), r); !apperr.Is(err, apperr.Validation) {
		t.Errorf("missing institution: got %v, want Validation", err)
	}

	r = pendingRequest()
	r.FullName = "   "
	if _, err := f.svc.Submit(context.Background(), r); !apperr.Is(err, apperr.Validation) {
		t.Errorf("missing name: got %v, want Validation", err)
	}
}

// --- approval ---

func TestApprove_ProvisionsEverything(t *testing.T) {
	f := newFixture()
	reqID := f.requests.add(pendingRequest())

	member, err := f.svc.Approve(context.Background(), Approval{RequestID: reqID, MemberID: "ZEH-0042"})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if member.MemberID != "ZEH-0042" {
		t.Errorf("MemberID = %q", member.MemberID)
	}
	if member.Status != models.MemberActive {
		t.Errorf("Status = %q, want active", member.Status)
	}
	if member.FullName != "Tariro Moyo" || member.InstitutionID != "inst-1" {
		t.Errorf("demographics not copied: %+v", member)
	}

	if len(f.dir.created) != 1 {
		t.Fatalf("directory identities created = %d, want 1", len(f.dir.created))
	}
	id := f.dir.created[0]
	if id.Email != "zeh-0042@zehsscwu.org" {
		t.Errorf("identity email = %q", id.Email)
	}
	if id.Password != "ZEH-0042" || id.Username != "ZEH-0042" {
		t.Errorf("identity credentials = %+v", id)
	}
	if id.Role != models.RoleMember {
		t.Errorf("identity role = %q", id.Role)
	}

	prof, ok := f.profiles.byID[member.ID]
	if !ok {
		t.Fatalf("profile not created for %s", member.ID)
	}
	if prof.Role != models.RoleMember || prof.Username != "ZEH-0042" {
		t.Errorf("profile = %+v", prof)
	}

	r := f.requests.byID[reqID]
	if r.Status != models.RequestApproved || r.AssignedMemberID != "ZEH-0042" {
		t.Errorf("request = %+v", r)
	}

	if f.totals.memberDelta != 1 {
		t.Errorf("institution member delta = %d, want 1", f.totals.memberDelta)
	}
}

func TestApprove_InvalidMemberID(t *testing.T) {
	f := newFixture()
	reqID := f.requests.add(pendingRequest())

	for _, bad := range []string{"", "ZEH-01", "zeh0042", "ZEHX-0042"} {
		if _, err := f.svc.Approve(context.Background(), Approval{RequestID: reqID, MemberID: bad}); !apperr.Is(err, apperr.Validation) {
			t.Errorf("MemberID %q: got %v, want Validation", bad, err)
		}
	}
	if len(f.dir.created) != 0 {
		t.Errorf("no identities should be provisioned on validation failure")
	}
}

func TestApprove_NumberAlreadyAssigned(t *testing.T) {
	f := newFixture()
	f.members.byNumber["ZEH-0042"] = "someone-else"
	reqID := f.requests.add(pendingRequest())

	_, err := f.svc.Approve(context.Background(), Approval{RequestID: reqID, MemberID: "ZEH-0042"})
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("got %v, want Conflict", err)
	}
	if len(f.dir.created) != 0 {
		t.Errorf("no identities should be provisioned when the number is taken")
	}
}

func TestApprove_RequestNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Approve(context.Background(), Approval{RequestID: primitive.NewObjectID(), MemberID: "ZEH-0001"})
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestApprove_RequestNotPending(t *testing.T) {
	f := newFixture()

	r := pendingRequest()
	r.Status = models.RequestApproved
	approvedID := f.requests.add(r)

	r = pendingRequest()
	r.Status = models.RequestRejected
	rejectedID := f.requests.add(r)

	for _, id := range []primitive.ObjectID{approvedID, rejectedID} {
		if _, err := f.svc.Approve(context.Background(), Approval{RequestID: id, MemberID: "ZEH-0001"}); !apperr.Is(err, apperr.State) {
			t.Errorf("request %s: got %v, want State", id.Hex(), err)
		}
	}
}

func TestApprove_RaceOnInsertCompensates(t *testing.T) {
	f := newFixture()
	f.members.raceDup = true // pre-check passes, insert hits the unique index
	reqID := f.requests.add(pendingRequest())

	_, err := f.svc.Approve(context.Background(), Approval{RequestID: reqID, MemberID: "ZEH-0042"})
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("got %v, want Conflict", err)
	}

	if len(f.dir.deletedIDs) != 1 || f.dir.deletedIDs[0] != "identity-0001" {
		t.Errorf("identity not compensated: deleted=%v", f.dir.deletedIDs)
	}
	if len(f.profiles.deletedIDs) != 1 {
		t.Errorf("profile not compensated: deleted=%v", f.profiles.deletedIDs)
	}
	if got := f.requests.byID[reqID].Status; got != models.RequestPending {
		t.Errorf("request status = %q, want pending after rollback", got)
	}
}

func TestApprove_ProfileFailureCompensatesIdentity(t *testing.T) {
	f := newFixture()
	f.profiles.createErr = errors.New("db down")
	reqID := f.requests.add(pendingRequest())

	_, err := f.svc.Approve(context.Background(), Approval{RequestID: reqID, MemberID: "ZEH-0042"})
	if !apperr.Is(err, apperr.Remote) {
		t.Fatalf("got %v, want Remote", err)
	}
	if len(f.dir.deletedIDs) != 1 {
		t.Errorf("identity not compensated: deleted=%v", f.dir.deletedIDs)
	}
	if len(f.members.byID) != 0 {
		t.Errorf("no member should exist after rollback")
	}
}

func TestApprove_MarkApprovedFailureCompensatesAll(t *testing.T) {
	f := newFixture()
	f.requests.markApprovedErr = errors.New("write failed")
	reqID := f.requests.add(pendingRequest())

	_, err := f.svc.Approve(context.Background(), Approval{RequestID: reqID, MemberID: "ZEH-0042"})
	if !apperr.Is(err, apperr.Remote) {
		t.Fatalf("got %v, want Remote", err)
	}

	if len(f.dir.deletedIDs) != 1 {
		t.Errorf("identity not compensated")
	}
	if len(f.profiles.byID) != 0 {
		t.Errorf("profile not compensated")
	}
	if len(f.members.byID) != 0 {
		t.Errorf("member record not compensated")
	}
	if got := f.requests.byID[reqID].Status; got != models.RequestPending {
		t.Errorf("request status = %q, want pending", got)
	}
}

func TestApprove_DirectoryFailurePropagates(t *testing.T) {
	f := newFixture()
	f.dir.createErr = apperr.New(apperr.Remote, "directory unavailable")
	reqID := f.requests.add(pendingRequest())

	_, err := f.svc.Approve(context.Background(), Approval{RequestID: reqID, MemberID: "ZEH-0042"})
	if !apperr.Is(err, apperr.Remote) {
		t.Fatalf("got %v, want Remote", err)
	}
	if got := f.requests.byID[reqID].Status; got != models.RequestPending {
		t.Errorf("request status = %q, want pending", got)
	}
}

// --- rejection ---

func TestReject(t *testing.T) {
	f := newFixture()
	reqID := f.requests.add(pendingRequest())

	if err := f.svc.Reject(context.Background(), reqID, "admin-1"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if got := f.requests.byID[reqID].Status; got != models.RequestRejected {
		t.Fatalf("status = %q, want rejected", got)
	}

	// Rejecting again is a no-op.
	if err := f.svc.Reject(context.Background(), reqID, "admin-1"); err != nil {
		t.Fatalf("second Reject: %v", err)
	}
}

func TestReject_ApprovedRequest(t *testing.T) {
	f := newFixture()
	r := pendingRequest()
	r.Status = models.RequestApproved
	reqID := f.requests.add(r)

	err := f.svc.Reject(context.Background(), reqID, "admin-1")
	if !apperr.Is(err, apperr.State) {
		t.Fatalf("got %v, want State", err)
	}
}

func TestReject_NotFound(t *testing.T) {
	f := newFixture()
	err := f.svc.Reject(context.Background(), primitive.NewObjectID(), "admin-1")
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("got %v, want NotFound", err)
	}
}

// --- direct enrollment ---

func TestAddDirect_ProvisionsEverything(t *testing.T) {
	f := newFixture()

	member, err := f.svc.AddDirect(context.Background(), DirectEnrollment{
		MemberID: "zeh-0042",
		Member: models.Member{
			InstitutionID: "inst-1",
			FullName:      "Tariro Moyo",
			JobTitle:      "Senior Nurse",
		},
		ActorID: "admin-1",
	})
	if err != nil {
		t.Fatalf("AddDirect: %v", err)
	}
	if member.MemberID != "ZEH-0042" {
		t.Fatalf("member number = %q, want ZEH-0042", member.MemberID)
	}
	if member.Status != models.MemberActive {
		t.Fatalf("status = %q, want active", member.Status)
	}

	if len(f.dir.created) != 1 {
		t.Fatalf("identities created = %d, want 1", len(f.dir.created))
	}
	id := f.dir.created[0]
	if id.Email != "zeh-0042@zehsscwu.org" {
		t.Errorf("identity email = %q", id.Email)
	}
	if id.Password != "ZEH-0042" || id.Username != "ZEH-0042" {
		t.Errorf("identity credential = %q / %q, want the member number", id.Username, id.Password)
	}
	if p, ok := f.profiles.byID[member.ID]; !ok || p.Role != models.RoleMember {
		t.Errorf("profile = %+v, want a member profile", p)
	}
	if f.totals.memberDelta != 1 {
		t.Errorf("member total delta = %d, want 1", f.totals.memberDelta)
	}
}

func TestAddDirect_Validation(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name string
		in   DirectEnrollment
	}{
		{"bad number", DirectEnrollment{MemberID: "0042", Member: models.Member{InstitutionID: "inst-1", FullName: "Tariro Moyo"}}},
		{"no institution", DirectEnrollment{MemberID: "ZEH-0042", Member: models.Member{FullName: "Tariro Moyo"}}},
		{"no name", DirectEnrollment{MemberID: "ZEH-0042", Member: models.Member{InstitutionID: "inst-1", FullName: "   "}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.AddDirect(context.Background(), tc.in)
			if !apperr.Is(err, apperr.Validation) {
				t.Fatalf("got %v, want Validation", err)
			}
		})
	}
	if len(f.dir.created) != 0 {
		t.Fatalf("identities created = %d, want none", len(f.dir.created))
	}
}

func TestAddDirect_NumberAlreadyAssigned(t *testing.T) {
	f := newFixture()
	f.members.byNumber["ZEH-0042"] = "identity-existing"

	_, err := f.svc.AddDirect(context.Background(), DirectEnrollment{
		MemberID: "ZEH-0042",
		Member:   models.Member{InstitutionID: "inst-1", FullName: "Tariro Moyo"},
	})
	if !apperr.Is(err, apperr.Conflict) {
		t.Fatalf("got %v, want Conflict", err)
	}
	if len(f.dir.created) != 0 {
		t.Fatalf("identities created = %d, want none", len(f.dir.created))
	}
}

func TestAddDirect_ProfileFailureCompensatesIdentity(t *testing.T) {
	f := newFixture()
	f.profiles.createErr = errors.New("profile backend down")

	_, err := f.svc.AddDirect(context.Background(), DirectEnrollment{
		MemberID: "ZEH-0042",
		Member:   models.Member{InstitutionID: "inst-1", FullName: "Tariro Moyo"},
	})
	if !apperr.Is(err, apperr.Remote) {
		t.Fatalf("got %v, want Remote", err)
	}
	if len(f.dir.deletedIDs) != 1 {
		t.Fatalf("identity deletions = %d, want 1", len(f.dir.deletedIDs))
	}
	if f.totals.memberDelta != 0 {
		t.Fatalf("member total delta = %d, want 0", f.totals.memberDelta)
	}
}
