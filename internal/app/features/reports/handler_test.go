package reports_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	uierrors "github.com/zehsscwu/unionhub/internal/app/features/errors"
	"github.com/zehsscwu/unionhub/internal/app/features/reports"
	"github.com/zehsscwu/unionhub/internal/testutil"
)

func newTestHandler(t *testing.T) (*reports.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := reports.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func openWorkbook(t *testing.T, rec *httptest.ResponseRecorder) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestServeMembersXLSX_AdminSeesAllInstitutions(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateInstitution(ctx, "inst-identity-1", "INST-01", "Riverside Academy")
	b := fixtures.CreateInstitution(ctx, "inst-identity-2", "INST-02", "Hillside Clinic")
	fixtures.CreateMember(ctx, "member-identity-1", "ZEH-0001", a.ID, "Tariro Moyo")
	fixtures.CreateMember(ctx, "member-identity-2", "ZEH-0002", b.ID, "Rudo Chikafu")

	req := httptest.NewRequest("GET", "/reports/members.xlsx", nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeMembersXLSX(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "members-") {
		t.Errorf("content disposition: got %q", cd)
	}

	f := openWorkbook(t, rec)
	rows, err := f.GetRows("Members")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 { // header + two members
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	if rows[0][0] != "Member Number" {
		t.Errorf("header: got %q", rows[0][0])
	}
	if rows[1][0] != "ZEH-0001" || rows[1][2] != "Riverside Academy" {
		t.Errorf("first data row: got %v", rows[1])
	}
}

func TestServeMembersXLSX_InstitutionScopedToOwnRoster(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mine := fixtures.CreateInstitution(ctx, "inst-identity-1", "INST-01", "Riverside Academy")
	other := fixtures.CreateInstitution(ctx, "inst-identity-2", "INST-02", "Hillside Clinic")
	fixtures.CreateMember(ctx, "member-identity-1", "ZEH-0001", mine.ID, "Tariro Moyo")
	fixtures.CreateMember(ctx, "member-identity-2", "ZEH-0002", other.ID, "Rudo Chikafu")

	req := httptest.NewRequest("GET", "/reports/members.xlsx", nil)
	req = testutil.WithUser(req, testutil.InstitutionUser(mine.ID))
	rec := httptest.NewRecorder()
	h.ServeMembersXLSX(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	f := openWorkbook(t, rec)
	rows, err := f.GetRows("Members")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want header plus own member only", len(rows))
	}
	if rows[1][0] != "ZEH-0001" {
		t.Errorf("data row: got %v", rows[1])
	}
}

func TestServeInstitutionXLSX_MultiSheet(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fixtures.CreateInstitution(ctx, "inst-identity-1", "INST-01", "Riverside Academy")
	m := fixtures.CreateMember(ctx, "member-identity-1", "ZEH-0001", inst.ID, "Tariro Moyo")
	fixtures.CreateWorksSeat(ctx, "council", inst.ID, m.ID, "Chairperson")
	fixtures.CreatePendingRequest(ctx, inst.ID, "Rudo Chikafu")

	req := httptest.NewRequest("GET", "/reports/institutions/"+inst.ID+".xlsx", nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", inst.ID)
	rec := httptest.NewRecorder()
	h.ServeInstitutionXLSX(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	f := openWorkbook(t, rec)
	for _, sheet := range []string{"Institution", "Members", "Works Council", "Works Committee", "Pending Requests"} {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Errorf("missing sheet %q", sheet)
		}
	}

	council, err := f.GetRows("Works Council")
	if err != nil {
		t.Fatalf("GetRows council: %v", err)
	}
	if len(council) != 2 || council[1][0] != "Chairperson" || council[1][1] != "ZEH-0001" {
		t.Errorf("council rows: got %v", council)
	}

	pendingRows, err := f.GetRows("Pending Requests")
	if err != nil {
		t.Fatalf("GetRows pending: %v", err)
	}
	if len(pendingRows) != 2 || pendingRows[1][0] != "Rudo Chikafu" {
		t.Errorf("pending rows: got %v", pendingRows)
	}
}

func TestServeInstitutionXLSX_ForeignInstitutionForbidden(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fixtures.CreateInstitution(ctx, "inst-identity-1", "INST-01", "Riverside Academy")

	req := httptest.NewRequest("GET", "/reports/institutions/"+inst.ID+".xlsx", nil)
	req = testutil.WithUser(req, testutil.InstitutionUser("inst-identity-2"))
	req = testutil.WithChiURLParam(req, "id", inst.ID)
	rec := httptest.NewRecorder()
	h.ServeInstitutionXLSX(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/forbidden" {
		t.Fatalf("location: got %q, want /forbidden", loc)
	}
}
