package memberstore_test

import (
	"testing"

	memberstore "github.com/zehsscwu/unionhub/internal/app/store/members"
	"github.com/zehsscwu/unionhub/internal/testutil"
)

func TestLatestMemberID_EmptyCollection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.LatestMemberID(ctx)
	if err != nil {
		t.Fatalf("LatestMemberID failed: %v", err)
	}
	if got != "" {
		t.Errorf("empty collection: got %q, want \"\"", got)
	}
}

func TestLatestMemberID_WiderNumberWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fx.CreateInstitution(ctx, "inst-roll", "RH-01", "Rollover High")
	fx.CreateMember(ctx, "id-wide", "ZEH-10000", inst.ID, "Wide Number")
	fx.CreateMember(ctx, "id-ceiling", "ZEH-9999", inst.ID, "Old Ceiling")
	fx.CreateMember(ctx, "id-early", "ZEH-0042", inst.ID, "Early Member")

	got, err := store.LatestMemberID(ctx)
	if err != nil {
		t.Fatalf("LatestMemberID failed: %v", err)
	}
	// "ZEH-9999" beats "ZEH-10000" as a plain string; the five-digit code
	// must still win.
	if got != "ZEH-10000" {
		t.Errorf("latest member number: got %q, want %q", got, "ZEH-10000")
	}
}

func TestLatestMemberID_EqualWidthOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fx.CreateInstitution(ctx, "inst-ord", "OH-01", "Ordering High")
	fx.CreateMember(ctx, "id-a", "ZEH-0007", inst.ID, "Member A")
	fx.CreateMember(ctx, "id-b", "ZEH-0031", inst.ID, "Member B")

	got, err := store.LatestMemberID(ctx)
	if err != nil {
		t.Fatalf("LatestMemberID failed: %v", err)
	}
	if got != "ZEH-0031" {
		t.Errorf("latest member number: got %q, want %q", got, "ZEH-0031")
	}
}
