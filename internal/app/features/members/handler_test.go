package members_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	"github.com/zehsscwu/unionhub/internal/app/features/members"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	profilestore "github.com/zehsscwu/unionhub/internal/app/store/profiles"
	requeststore "github.com/zehsscwu/unionhub/internal/app/store/requests"
	"github.com/zehsscwu/unionhub/internal/app/system/directory"
	"github.com/zehsscwu/unionhub/internal/app/system/enroll"
	"github.com/zehsscwu/unionhub/internal/testutil"
)

func newTestHandler(t *testing.T) (*members.Handler, *testutil.Fixtures, directory.Service) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	dir := directory.NewLocal(db)
	enrollSvc := enroll.New(enroll.Config{
		Members:      memberstore.New(db),
		Requests:     requeststore.New(db),
		Profiles:     profilestore.New(db),
		Institutions: institutionstore.New(db),
		Directory:    dir,
		Prefix:       "ZEH",
		OrgDomain:    "zehsscwu.org",
		Log:          logger,
	})
	h := members.NewHandler(db, dir, enrollSvc, uierrors.NewErrorLogger(logger), nil, logger)
	return h, testutil.NewFixtures(t, db), dir
}

func postForm(h http.HandlerFunc, target string, form url.Values, user testutil.TestUser) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, user)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleCreate_DirectAddProvisionsLogin(t *testing.T) {
	h, fixtures, dir := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fixtures.CreateInstitution(ctx, "inst-identity-1", "INST-01", "Riverside Academy")

	rec := postForm(h.HandleCreate, "/members", url.Values{
		"member_id":      {"zeh-0042"},
		"institution_id": {inst.ID},
		"full_name":      {"Tariro Moyo"},
		"job_title":      {"Senior Nurse"},
		"gender":         {"F"},
	}, testutil.AdminUser())

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}

	m, err := h.Members.GetByMemberID(ctx, "ZEH-0042")
	if err != nil {
		t.Fatalf("member not created: %v", err)
	}
	if m.FullName != "Tariro Moyo" || m.InstitutionID != inst.ID {
		t.Errorf("member: got %+v", m)
	}
	if m.Status != "active" {
		t.Errorf("status: got %q, want active", m.Status)
	}

	profile, err := h.Profiles.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if profile.Role != "member" || profile.Username != "ZEH-0042" {
		t.Errorf("profile: got role %q username %q", profile.Role, profile.Username)
	}

	// The provisioned login must authenticate with the number as password.
	identity, err := dir.Authenticate(ctx, "zeh-0042@zehsscwu.org", "ZEH-0042")
	if err != nil {
		t.Fatalf("provisioned login does not authenticate: %v", err)
	}
	if identity.ID != m.ID {
		t.Errorf("identity ID %q does not match member _id %q", identity.ID, m.ID)
	}
}

func TestHandleCreate_TakenNumberReRendersForm(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fixtures.CreateInstitution(ctx, "inst-identity-1", "INST-01", "Riverside Academy")
	fixtures.CreateMember(ctx, "member-identity-1", "ZEH-0042", inst.ID, "Tariro Moyo")

	rec := postForm(h.HandleCreate, "/members", url.Values{
		"member_id":      {"ZEH-0042"},
		"institution_id": {inst.ID},
		"full_name":      {"Rudo Chikafu"},
	}, testutil.AdminUser())

	if rec.Code == http.StatusSeeOther {
		t.Fatalf("duplicate number must not redirect")
	}

	total, err := h.Members.Count(ctx, memberstore.ListFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 1 {
		t.Errorf("member count: got %d, want 1", total)
	}
}

func TestHandleCreate_UnknownInstitutionReRendersForm(t *testing.T) {
	h, _, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := postForm(h.HandleCreate, "/members", url.Values{
		"member_id":      {"ZEH-0042"},
		"institution_id": {"no-such-institution"},
		"full_name":      {"Tariro Moyo"},
	}, testutil.AdminUser())

	if rec.Code == http.StatusSeeOther {
		t.Fatalf("unknown institution must not redirect")
	}

	total, err := h.Members.Count(ctx, memberstore.ListFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 0 {
		t.Errorf("member count: got %d, want 0", total)
	}
}

func TestHandleEdit_MemberUpdatesOwnContact(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fixtures.CreateInstitution(ctx, "inst-identity-1", "INST-01", "Riverside Academy")
	m := fixtures.CreateMember(ctx, "member-identity-1", "ZEH-0042", inst.ID, "Tariro Moyo")

	req := httptest.NewRequest("POST", "/members/"+m.ID+"/edit", strings.NewReader(url.Values{
		"full_name":      {"Tariro Moyo"},
		"contact_number": {"0772999111"},
		"status":         {"retired"}, // non-admins cannot change status
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, testutil.MemberUser(m.ID))
	req = testutil.WithChiURLParam(req, "id", m.ID)
	rec := httptest.NewRecorder()
	h.HandleEdit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}

	got, err := h.Members.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ContactNumber != "0772999111" {
		t.Errorf("contact number: got %q", got.ContactNumber)
	}
	if got.Status != "active" {
		t.Errorf("status: got %q, want active (self-service must not change it)", got.Status)
	}
}

func TestHandleEdit_OtherMemberForbidden(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fixtures.CreateInstitution(ctx, "inst-identity-1", "INST-01", "Riverside Academy")
	m := fixtures.CreateMember(ctx, "member-identity-1", "ZEH-0042", inst.ID, "Tariro Moyo")

	req := httptest.NewRequest("POST", "/members/"+m.ID+"/edit", strings.NewReader(url.Values{
		"full_name": {"Hijacked"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, testutil.MemberUser("member-identity-2"))
	req = testutil.WithChiURLParam(req, "id", m.ID)
	rec := httptest.NewRecorder()
	h.HandleEdit(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want redirect", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/forbidden" {
		t.Fatalf("location: got %q, want /forbidden", loc)
	}

	got, err := h.Members.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FullName != "Tariro Moyo" {
		t.Errorf("full name changed to %q", got.FullName)
	}
}

func TestHandleDelete_RemovesLoginProfileRecordAndSeats(t *testing.T) {
	h, fixtures, dir := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fixtures.CreateInstitution(ctx, "inst-identity-1", "INST-01", "Riverside Academy")

	// Enroll through the handler so a real directory identity exists.
	rec := postForm(h.HandleCreate, "/members", url.Values{
		"member_id":      {"ZEH-0042"},
		"institution_id": {inst.ID},
		"full_name":      {"Tariro Moyo"},
	}, testutil.AdminUser())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("enroll: got status %d", rec.Code)
	}
	m, err := h.Members.GetByMemberID(ctx, "ZEH-0042")
	if err != nil {
		t.Fatalf("GetByMemberID: %v", err)
	}
	fixtures.CreateWorksSeat(ctx, "council", inst.ID, m.ID, "Chairperson")

	req := httptest.NewRequest("POST", "/members/"+m.ID+"/delete", nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", m.ID)
	drec := httptest.NewRecorder()
	h.HandleDelete(drec, req)

	if drec.Code != http.StatusSeeOther {
		t.Fatalf("delete: got status %d (body: %s)", drec.Code, drec.Body.String())
	}

	if _, err := h.Members.GetByID(ctx, m.ID); err != mongo.ErrNoDocuments {
		t.Errorf("member record still present: %v", err)
	}
	if _, err := h.Profiles.GetByID(ctx, m.ID); err != mongo.ErrNoDocuments {
		t.Errorf("profile still present: %v", err)
	}
	if _, err := dir.Authenticate(ctx, "zeh-0042@zehsscwu.org", "ZEH-0042"); err == nil {
		t.Errorf("deleted login still authenticates")
	}
	seats, err := h.Works.ListByInstitution(ctx, "council", inst.ID)
	if err != nil {
		t.Fatalf("ListByInstitution: %v", err)
	}
	if len(seats) != 0 {
		t.Errorf("council seats remaining: %d", len(seats))
	}
}

func TestHandleDelete_MissingMemberIsIdempotent(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/members/no-such-member/delete", nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", "no-such-member")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestServeList_MemberRedirectsToOwnRecord(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/members", nil)
	req = testutil.WithUser(req, testutil.MemberUser("member-identity-1"))
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/members/member-identity-1/view" {
		t.Fatalf("location: got %q", loc)
	}
}
