package review

import (
	"math"

	"github.com/dshills/qcgen/internal/qc"
	"github.com/dshills/qcgen/internal/rules"
	"github.com/dshills/qcgen/internal/schema"
)

// Stats are descriptive statistics of a series.
type Stats struct {
	N         int
	Mean      float64
	SD        float64 // population SD
	CVPercent float64 // 0 when Mean is 0
	Min       float64
	Max       float64
}

// Describe computes Stats. An empty series yields the zero value.
func Describe(s qc.Series) Stats {
	if len(s) == 0 {
		return Stats{}
	}
	st := Stats{N: len(s), Min: s[0], Max: s[0]}
	var sum float64
	for _, v := range s {
		sum += v
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
	}
	st.Mean = sum / float64(len(s))
	var ss float64
	for _, v := range s {
		ss += (v - st.Mean) * (v - st.Mean)
	}
	st.SD = math.Sqrt(ss / float64(len(s)))
	if st.Mean != 0 {
		st.CVPercent = st.SD / st.Mean * 100
	}
	return st
}

// Results converts audit findings to their output form.
func Results(findings []rules.Finding) []schema.RuleResult {
	out := make([]schema.RuleResult, len(findings))
	for i, f := range findings {
		out[i] = schema.RuleResult{
			Rule:     string(f.Rule),
			Enabled:  f.Enabled,
			Violated: f.Violated,
			Warning:  f.Warning,
			FirstDay: f.FirstDay,
		}
	}
	return out
}

// Verdict is OUT_OF_CONTROL when any rejection rule is violated, WARNING when
// only warning rules are, and IN_CONTROL otherwise.
func Verdict(results []schema.RuleResult) schema.Verdict {
	reject, warn := Counts(results)
	switch {
	case reject > 0:
		return schema.VerdictOutOfControl
	case warn > 0:
		return schema.VerdictWarning
	default:
		return schema.VerdictInControl
	}
}

// Counts returns the number of violated rejection and warning rules.
func Counts(results []schema.RuleResult) (reject, warning int) {
	for _, r := range results {
		if !r.Violated {
			continue
		}
		if r.Warning {
			warning++
		} else {
			reject++
		}
	}
	return
}

// FilterViolated returns only the violated results, keeping their order.
func FilterViolated(results []schema.RuleResult) []schema.RuleResult {
	out := make([]schema.RuleResult, 0, len(results))
	for _, r := range results {
		if r.Violated {
			out = append(out, r)
		}
	}
	return out
}
