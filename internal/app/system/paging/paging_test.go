package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParseStart(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/members", 1},
		{"/members?start=1", 1},
		{"/members?start=51", 51},
		{"/members?start=0", 1},
		{"/members?start=-5", 1},
		{"/members?start=abc", 1},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		if got := ParseStart(r); got != tt.want {
			t.Errorf("ParseStart(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1); got != 0 {
		t.Errorf("Offset(1) = %d, want 0", got)
	}
	if got := Offset(51); got != 50 {
		t.Errorf("Offset(51) = %d, want 50", got)
	}
}

func TestTrimPage_FullPagePlusOne(t *testing.T) {
	rows := make([]int, PageSize+1)
	res := TrimPage(&rows, 1)

	if len(rows) != PageSize {
		t.Errorf("len after trim: got %d, want %d", len(rows), PageSize)
	}
	if !res.HasNext {
		t.Error("expected HasNext")
	}
	if res.HasPrev {
		t.Error("did not expect HasPrev on first page")
	}
}

func TestTrimPage_PartialPage(t *testing.T) {
	rows := make([]int, 7)
	res := TrimPage(&rows, 51)

	if len(rows) != 7 {
		t.Errorf("len after trim: got %d, want 7", len(rows))
	}
	if res.HasNext {
		t.Error("did not expect HasNext")
	}
	if !res.HasPrev {
		t.Error("expected HasPrev when start > 1")
	}
}

func TestComputeRange(t *testing.T) {
	r := ComputeRange(51, 50)
	if r.Start != 51 || r.End != 100 {
		t.Errorf("range: got %d-%d, want 51-100", r.Start, r.End)
	}
	if r.PrevStart != 1 {
		t.Errorf("PrevStart: got %d, want 1", r.PrevStart)
	}
	if r.NextStart != 101 {
		t.Errorf("NextStart: got %d, want 101", r.NextStart)
	}

	empty := ComputeRange(1, 0)
	if empty.Start != 0 || empty.End != 0 {
		t.Errorf("empty range: got %d-%d, want 0-0", empty.Start, empty.End)
	}
}
