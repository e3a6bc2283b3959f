package compare

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/qcgen/internal/qc"
	"github.com/dshills/qcgen/internal/render"
)

// Result summarizes how two series differ at export precision.
type Result struct {
	BaselineLen  int
	CandidateLen int
	// ChangedDays lists 1-based days present in both series whose two-decimal
	// values differ.
	ChangedDays []int
	// Patch is a diff-match-patch text patch turning the baseline lines into
	// the candidate lines. Empty when the renderings are identical.
	Patch string
}

// Identical reports whether the two series render the same.
func (r *Result) Identical() bool {
	return r.Patch == "" && r.BaselineLen == r.CandidateLen
}

// Series diffs baseline against candidate using the one-value-per-line text
// form, so differences below export precision are ignored.
func Series(baseline, candidate qc.Series) *Result {
	res := &Result{BaselineLen: len(baseline), CandidateLen: len(candidate)}

	n := min(len(baseline), len(candidate))
	for i := 0; i < n; i++ {
		if render.FormatValue(baseline[i]) != render.FormatValue(candidate[i]) {
			res.ChangedDays = append(res.ChangedDays, i+1)
		}
	}

	before, after := lines(baseline), lines(candidate)
	if before == after {
		return res
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)
	patches := dmp.PatchMake(before, diffs)
	res.Patch = dmp.PatchToText(patches)
	return res
}

// Summary is a one-line human description of r.
func (r *Result) Summary() string {
	if r.Identical() {
		return fmt.Sprintf("identical: %d points", r.BaselineLen)
	}
	return fmt.Sprintf("differ: %d vs %d points, %d changed days", r.BaselineLen, r.CandidateLen, len(r.ChangedDays))
}

func lines(s qc.Series) string {
	var sb strings.Builder
	for _, v := range s {
		sb.WriteString(render.FormatValue(v))
		sb.WriteByte('\n')
	}
	return sb.String()
}
