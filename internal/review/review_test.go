package review

import (
	"math"
	"testing"

	"github.com/dshills/qcgen/internal/qc"
	"github.com/dshills/qcgen/internal/rules"
	"github.com/dshills/qcgen/internal/schema"
)

func makeResults(pairs ...string) []schema.RuleResult {
	// pairs alternate rule name and "reject" or "warn"
	out := make([]schema.RuleResult, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, schema.RuleResult{
			Rule:     pairs[i],
			Enabled:  true,
			Violated: true,
			Warning:  pairs[i+1] == "warn",
		})
	}
	return out
}

// --- Describe tests ---

func TestDescribe_Basic(t *testing.T) {
	st := Describe(qc.Series{98, 100, 102})
	if st.N != 3 {
		t.Errorf("N = %d, want 3", st.N)
	}
	if st.Mean != 100 {
		t.Errorf("Mean = %g, want 100", st.Mean)
	}
	wantSD := math.Sqrt(8.0 / 3.0)
	if math.Abs(st.SD-wantSD) > 1e-12 {
		t.Errorf("SD = %g, want %g", st.SD, wantSD)
	}
	if math.Abs(st.CVPercent-wantSD) > 1e-12 { // mean is 100
		t.Errorf("CVPercent = %g, want %g", st.CVPercent, wantSD)
	}
	if st.Min != 98 || st.Max != 102 {
		t.Errorf("Min/Max = %g/%g, want 98/102", st.Min, st.Max)
	}
}

func TestDescribe_Empty(t *testing.T) {
	if st := Describe(nil); st != (Stats{}) {
		t.Errorf("Describe(nil) = %+v, want zero", st)
	}
}

func TestDescribe_ZeroMeanHasZeroCV(t *testing.T) {
	st := Describe(qc.Series{-1, 1})
	if st.CVPercent != 0 {
		t.Errorf("CVPercent = %g, want 0", st.CVPercent)
	}
}

// --- Verdict tests ---

func TestVerdict_NoViolations_InControl(t *testing.T) {
	if v := Verdict(nil); v != schema.VerdictInControl {
		t.Errorf("Verdict = %q, want IN_CONTROL", v)
	}
}

func TestVerdict_WarningOnly(t *testing.T) {
	if v := Verdict(makeResults("7-T", "warn")); v != schema.VerdictWarning {
		t.Errorf("Verdict = %q, want WARNING", v)
	}
}

func TestVerdict_RejectWins(t *testing.T) {
	if v := Verdict(makeResults("7-T", "warn", "1-3s", "reject")); v != schema.VerdictOutOfControl {
		t.Errorf("Verdict = %q, want OUT_OF_CONTROL", v)
	}
}

func TestVerdict_FromAudit(t *testing.T) {
	findings, err := rules.Audit(qc.Series{100, 101, 107, 100}, 100, 2, rules.DefaultConfig())
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	results := Results(findings)
	if len(results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(results))
	}
	if v := Verdict(results); v != schema.VerdictOutOfControl {
		t.Errorf("Verdict = %q, want OUT_OF_CONTROL", v)
	}
}

func TestCounts(t *testing.T) {
	reject, warn := Counts(makeResults("1-3s", "reject", "2-2s", "reject", "3-1s", "warn"))
	if reject != 2 || warn != 1 {
		t.Errorf("Counts = %d/%d, want 2/1", reject, warn)
	}
}

// --- FilterViolated tests ---

func TestFilterViolated(t *testing.T) {
	results := []schema.RuleResult{
		{Rule: "1-3s", Enabled: true},
		{Rule: "2-2s", Enabled: true, Violated: true},
		{Rule: "R-4s"},
	}
	filtered := FilterViolated(results)
	if len(filtered) != 1 || filtered[0].Rule != "2-2s" {
		t.Errorf("FilterViolated = %+v, want only 2-2s", filtered)
	}
}
