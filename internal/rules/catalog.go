// Package rules evaluates Westgard multi-rule patterns over a control series.
//
// Two strategies live here and stay separate. The audit
// catalog (Evaluate) scans a whole series for each named rule. The
// Gatekeeper decides whether one candidate point may be appended to a
// growing series and uses its own, narrower thresholds. The two can disagree
// on the same data.
package rules

import (
	"fmt"
	"math"
	"strings"

	"github.com/dshills/qcgen/internal/qc"
)

// Name identifies a rule in the audit catalog.
type Name string

const (
	Rule13s Name = "1-3s"
	Rule22s Name = "2-2s"
	RuleR4s Name = "R-4s"
	Rule31s Name = "3-1s"
	Rule41s Name = "4-1s"
	Rule7T  Name = "7-T"
	Rule10x Name = "10x"
)

// checkFunc returns the 0-based start of the first matching window, or -1.
type checkFunc func(s qc.Series, target, sd float64) int

// Rule is one catalog entry.
type Rule struct {
	Name   Name
	Window int
	// Warning rules flag a run for review; the rest reject it.
	Warning bool
	check   checkFunc
}

var catalog = []Rule{
	{Name: Rule13s, Window: 1, check: check13s},
	{Name: Rule22s, Window: 2, check: check22s},
	{Name: RuleR4s, Window: 2, check: checkR4s},
	{Name: Rule31s, Window: 3, Warning: true, check: sameSideBeyond(3, 1)},
	{Name: Rule41s, Window: 4, check: sameSideBeyond(4, 1)},
	{Name: Rule7T, Window: 7, Warning: true, check: checkTrend},
	{Name: Rule10x, Window: 10, check: check10x},
}

// Catalog returns the audit rules in their canonical order.
func Catalog() []Rule {
	out := make([]Rule, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns every catalog rule name in canonical order.
func Names() []Name {
	out := make([]Name, len(catalog))
	for i, r := range catalog {
		out[i] = r.Name
	}
	return out
}

// Lookup returns the catalog entry for name.
func Lookup(name Name) (Rule, bool) {
	for _, r := range catalog {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// scan slides a window of size k over s and returns the first start index
// for which match holds. A series shorter than k never matches.
func scan(s qc.Series, k int, match func(w qc.Series) bool) int {
	for i := 0; i+k <= len(s); i++ {
		if match(s[i : i+k]) {
			return i
		}
	}
	return -1
}

func check13s(s qc.Series, target, sd float64) int {
	limit := 3 * sd
	return scan(s, 1, func(w qc.Series) bool {
		return math.Abs(w[0]-target) > limit
	})
}

func check22s(s qc.Series, target, sd float64) int {
	return sameSideBeyond(2, 2)(s, target, sd)
}

func checkR4s(s qc.Series, target, sd float64) int {
	hi, lo := target+2*sd, target-2*sd
	return scan(s, 2, func(w qc.Series) bool {
		a, b := w[0], w[1]
		return (a > hi && b < lo) || (a < lo && b > hi)
	})
}

// sameSideBeyond matches k consecutive points that all exceed mult*sd from
// target on the same side.
func sameSideBeyond(k int, mult float64) checkFunc {
	return func(s qc.Series, target, sd float64) int {
		limit := mult * sd
		return scan(s, k, func(w qc.Series) bool {
			side := qc.Side(w[0], target)
			if side == 0 {
				return false
			}
			for _, v := range w {
				if qc.Side(v, target) != side || math.Abs(v-target) <= limit {
					return false
				}
			}
			return true
		})
	}
}

func checkTrend(s qc.Series, _, _ float64) int {
	return scan(s, 7, func(w qc.Series) bool {
		up, down := true, true
		for i := 1; i < len(w); i++ {
			if !(w[i] > w[i-1]) {
				up = false
			}
			if !(w[i] < w[i-1]) {
				down = false
			}
		}
		return up || down
	})
}

func check10x(s qc.Series, target, _ float64) int {
	return scan(s, 10, func(w qc.Series) bool {
		side := qc.Side(w[0], target)
		if side == 0 {
			return false
		}
		for _, v := range w[1:] {
			if qc.Side(v, target) != side {
				return false
			}
		}
		return true
	})
}

// ParseName matches s against the catalog case-insensitively, so "r-4s" and
// "7-t" from lower-cased config keys resolve.
func ParseName(s string) (Name, error) {
	for _, r := range catalog {
		if strings.EqualFold(string(r.Name), strings.TrimSpace(s)) {
			return r.Name, nil
		}
	}
	return "", fmt.Errorf("%w: unknown rule %q", ErrInvalidConfig, s)
}
