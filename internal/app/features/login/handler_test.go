package login_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	"github.com/zehsscwu/unionhub/internal/app/features/login"
	institutionstore "github.com/zehsscwu/unionhub/internal/app/store/institutions"
	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	profilestore "github.com/zehsscwu/unionhub/internal/app/store/profiles"
	"github.com/zehsscwu/unionhub/internal/app/system/auditlog"
	"github.com/zehsscwu/unionhub/internal/app/system/auth"
	"github.com/zehsscwu/unionhub/internal/app/system/directory"
	"github.com/zehsscwu/unionhub/internal/app/system/ratelimit"
	"github.com/zehsscwu/unionhub/internal/testutil"
)

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures, directory.Service) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	dir := directory.NewLocal(db)

	h := &login.Handler{
		Log:          logger,
		OrgDomain:    "zehsscwu.org",
		SessionMgr:   sessionMgr,
		ErrLog:       uierrors.NewErrorLogger(logger),
		AuditLog:     auditlog.New(nil, logger, auditlog.Config{}),
		Directory:    dir,
		Profiles:     profilestore.New(db),
		Members:      memberstore.New(db),
		Institutions: institutionstore.New(db),
	}
	return h, testutil.NewFixtures(t, db), dir
}

func createLoginIdentity(t *testing.T, ctx context.Context, dir directory.Service, email, password, username, role string) directory.Identity {
	t.Helper()
	id, err := dir.CreateIdentity(ctx, directory.NewIdentity{
		Email:    email,
		Password: password,
		Username: username,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("CreateIdentity failed: %v", err)
	}
	return id
}

func postLogin(h *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, req)
	return rec
}

func TestHandleLoginPost_Success(t *testing.T) {
	h, fixtures, dir := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	identity := createLoginIdentity(t, ctx, dir, "admin@example.com", "letmein123", "admin@example.com", "admin")
	fixtures.CreateProfile(ctx, identity.ID, "admin", "admin@example.com")

	rec := postLogin(h, url.Values{
		"login_id": {"admin@example.com"},
		"password": {"letmein123"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}
}

func TestHandleLoginPost_ReturnURL(t *testing.T) {
	h, fixtures, dir := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	identity := createLoginIdentity(t, ctx, dir, "admin@example.com", "letmein123", "admin@example.com", "admin")
	fixtures.CreateProfile(ctx, identity.ID, "admin", "admin@example.com")

	rec := postLogin(h, url.Values{
		"login_id": {"admin@example.com"},
		"password": {"letmein123"},
		"return":   {"/requests"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/requests" {
		t.Errorf("Location: got %q, want %q", loc, "/requests")
	}
}

func TestHandleLoginPost_ReturnURLRejectsAbsolute(t *testing.T) {
	h, fixtures, dir := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	identity := createLoginIdentity(t, ctx, dir, "admin@example.com", "letmein123", "admin@example.com", "admin")
	fixtures.CreateProfile(ctx, identity.ID, "admin", "admin@example.com")

	rec := postLogin(h, url.Values{
		"login_id": {"admin@example.com"},
		"password": {"letmein123"},
		"return":   {"https://evil.example.com/phish"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}
}

func TestHandleLoginPost_MemberGetsFullNameInSession(t *testing.T) {
	h, fixtures, dir := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	identity := createLoginIdentity(t, ctx, dir, "zeh-0042@zehsscwu.org", "ZEH-0042", "ZEH-0042", "member")
	fixtures.CreateProfile(ctx, identity.ID, "member", "ZEH-0042")
	fixtures.CreateInstitution(ctx, "inst-1", "INST-01", "Riverside Academy")
	fixtures.CreateMember(ctx, identity.ID, "ZEH-0042", "inst-1", "Tariro Moyo")

	rec := postLogin(h, url.Values{
		"login_id": {"ZEH-0042"},
		"password": {"ZEH-0042"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	// Round-trip the cookie through the session middleware and confirm the
	// display name resolved to the member's full name.
	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	var got *auth.SessionUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})
	h.SessionMgr.LoadSessionUser(next).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected a session user after login")
	}
	if got.Name != "Tariro Moyo" {
		t.Errorf("session name: got %q, want %q", got.Name, "Tariro Moyo")
	}
	if got.Role != "member" {
		t.Errorf("session role: got %q, want %q", got.Role, "member")
	}
}

func TestHandleLoginPost_BadPassword(t *testing.T) {
	h, fixtures, dir := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	identity := createLoginIdentity(t, ctx, dir, "admin@example.com", "letmein123", "admin@example.com", "admin")
	fixtures.CreateProfile(ctx, identity.ID, "admin", "admin@example.com")

	rec := postLogin(h, url.Values{
		"login_id": {"admin@example.com"},
		"password": {"wrong-password"},
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no session cookie on failed login")
	}
}

func TestHandleLoginPost_UnknownEmail(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := postLogin(h, url.Values{
		"login_id": {"nobody@example.com"},
		"password": {"whatever"},
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestHandleLoginPost_MissingFields(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := postLogin(h, url.Values{"login_id": {"admin@example.com"}})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestHandleLoginPost_RateLimitedAfterRepeatedFailures(t *testing.T) {
	h, fixtures, dir := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	identity := createLoginIdentity(t, ctx, dir, "admin@example.com", "letmein123", "admin@example.com", "admin")
	fixtures.CreateProfile(ctx, identity.ID, "admin", "admin@example.com")

	h.Limiter = ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)

	for i := 0; i < 2; i++ {
		rec := postLogin(h, url.Values{
			"login_id": {"admin@example.com"},
			"password": {"wrong"},
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("attempt %d: got %d, want %d", i+1, rec.Code, http.StatusUnprocessableEntity)
		}
	}

	// Third attempt hits the per-account limit even with the right password.
	rec := postLogin(h, url.Values{
		"login_id": {"admin@example.com"},
		"password": {"letmein123"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("limited attempt: got %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no session cookie while rate limited")
	}
}
