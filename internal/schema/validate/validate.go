package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/dshills/qcgen/internal/rules"
	"github.com/dshills/qcgen/internal/schema"
)

// Parse decodes a rendered run document (JSON when it starts with '{',
// otherwise YAML) and validates its structure.
func Parse(raw []byte) (*schema.Run, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("run document is empty")
	}

	var run schema.Run
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &run); err != nil {
			return nil, fmt.Errorf("JSON parse failed: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &run); err != nil {
			return nil, fmt.Errorf("YAML parse failed: %w", err)
		}
	}

	if err := validateRun(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

func validateRun(r *schema.Run) error {
	if err := validateInput(r.Input); err != nil {
		return err
	}
	for i, p := range r.Points {
		if err := validatePoint(p, i); err != nil {
			return err
		}
	}
	seen := make(map[rules.Name]bool, len(r.Rules))
	for i, rr := range r.Rules {
		name, err := rules.ParseName(rr.Rule)
		if err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		if seen[name] {
			return fmt.Errorf("rules[%d]: duplicate rule %q", i, rr.Rule)
		}
		seen[name] = true
		if rr.Violated && !rr.Enabled {
			return fmt.Errorf("rules[%d]: %s is violated but not enabled", i, rr.Rule)
		}
	}
	return nil
}

func validateInput(in schema.Input) error {
	if in.Target < 0 || math.IsNaN(in.Target) || math.IsInf(in.Target, 0) {
		return fmt.Errorf("input: target %g must be a positive number", in.Target)
	}
	if in.StdDev < 0 || math.IsNaN(in.StdDev) || math.IsInf(in.StdDev, 0) {
		return fmt.Errorf("input: std_dev %g must be a positive number", in.StdDev)
	}
	for _, n := range in.EnabledRules {
		if _, err := rules.ParseName(n); err != nil {
			return fmt.Errorf("input.enabled_rules: %w", err)
		}
	}
	return nil
}

func validatePoint(p schema.Point, idx int) error {
	prefix := fmt.Sprintf("points[%d]", idx)
	if p.Day != idx+1 {
		return fmt.Errorf("%s: day %d out of sequence, want %d", prefix, p.Day, idx+1)
	}
	if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return fmt.Errorf("%s: value must be finite", prefix)
	}
	return nil
}
