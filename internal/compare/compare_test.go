package compare

import (
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/qcgen/internal/qc"
)

func TestSeries_Identical(t *testing.T) {
	res := Series(qc.Series{100, 101.5}, qc.Series{100.001, 101.5})
	if !res.Identical() {
		t.Errorf("expected identical at two decimals, got %+v", res)
	}
	if res.Patch != "" {
		t.Errorf("expected empty patch, got %q", res.Patch)
	}
	if !strings.HasPrefix(res.Summary(), "identical") {
		t.Errorf("Summary = %q", res.Summary())
	}
}

func TestSeries_ChangedDays(t *testing.T) {
	res := Series(qc.Series{100, 101, 102}, qc.Series{100, 99, 102})
	if res.Identical() {
		t.Fatal("expected difference")
	}
	if len(res.ChangedDays) != 1 || res.ChangedDays[0] != 2 {
		t.Errorf("ChangedDays = %v, want [2]", res.ChangedDays)
	}
	if !strings.Contains(res.Patch, "101.00") || !strings.Contains(res.Patch, "99.00") {
		t.Errorf("patch missing changed values:\n%s", res.Patch)
	}
}

func TestSeries_PatchApplies(t *testing.T) {
	base := qc.Series{100, 101, 102, 103}
	cand := qc.Series{100, 101.25, 102, 103, 104}
	res := Series(base, cand)

	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(res.Patch)
	if err != nil {
		t.Fatalf("PatchFromText: %v", err)
	}
	got, applied := dmp.PatchApply(patches, lines(base))
	for i, ok := range applied {
		if !ok {
			t.Errorf("patch %d did not apply", i)
		}
	}
	if got != lines(cand) {
		t.Errorf("patched text = %q, want %q", got, lines(cand))
	}
	if res.CandidateLen != 5 || res.BaselineLen != 4 {
		t.Errorf("lengths = %d/%d", res.BaselineLen, res.CandidateLen)
	}
}
