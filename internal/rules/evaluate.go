package rules

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/qcgen/internal/qc"
)

// Report maps every catalog rule to whether it is violated anywhere in the
// series. Disabled rules are present and false.
type Report map[Name]bool

// Violated returns the violated rule names in catalog order.
func (r Report) Violated() []Name {
	var out []Name
	for _, rule := range catalog {
		if r[rule.Name] {
			out = append(out, rule.Name)
		}
	}
	return out
}

// Any reports whether at least one rule is violated.
func (r Report) Any() bool {
	for _, v := range r {
		if v {
			return true
		}
	}
	return false
}

// Finding is the per-rule outcome of an audit.
type Finding struct {
	Rule     Name `json:"rule" yaml:"rule"`
	Enabled  bool `json:"enabled" yaml:"enabled"`
	Violated bool `json:"violated" yaml:"violated"`
	Warning  bool `json:"warning" yaml:"warning"`
	// FirstDay is the 1-based day where the first matching window starts,
	// 0 when the rule is not violated.
	FirstDay int `json:"first_day,omitempty" yaml:"first_day,omitempty"`
}

// Evaluate runs every enabled rule over the entire series.
func Evaluate(series qc.Series, target, stdDev float64, cfg Config) (Report, error) {
	findings, err := Audit(series, target, stdDev, cfg)
	if err != nil {
		return nil, err
	}
	return ReportOf(findings), nil
}

// ReportOf collapses findings into a Report.
func ReportOf(findings []Finding) Report {
	report := make(Report, len(findings))
	for _, f := range findings {
		report[f.Rule] = f.Violated
	}
	return report
}

// Audit is Evaluate with the first matching day of each violation. Findings
// are returned in catalog order regardless of the order rules finish in.
func Audit(series qc.Series, target, stdDev float64, cfg Config) ([]Finding, error) {
	if err := qc.CheckLimits(target, stdDev); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", qc.ErrRuleEvaluation, err)
	}

	findings := make([]Finding, len(catalog))
	var g errgroup.Group
	for i, rule := range catalog {
		findings[i] = Finding{Rule: rule.Name, Enabled: cfg[rule.Name], Warning: rule.Warning}
		if !cfg[rule.Name] {
			continue
		}
		g.Go(func() error {
			if start := rule.check(series, target, stdDev); start >= 0 {
				findings[i].Violated = true
				findings[i].FirstDay = start + 1
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return findings, nil
}
