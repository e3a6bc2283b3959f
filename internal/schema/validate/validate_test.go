package validate

import (
	"strings"
	"testing"
)

const validJSON = `{
  "tool": "qcgen",
  "version": "dev",
  "input": {"target": 100, "cv_percent": 2, "std_dev": 2, "count": 3, "profile": "westgard", "enabled_rules": ["1-3s", "R-4s"]},
  "summary": {"verdict": "IN_CONTROL"},
  "points": [{"day": 1, "value": 100.1}, {"day": 2, "value": 99.5}, {"day": 3, "value": 101.2}],
  "rules": [{"rule": "1-3s", "enabled": true, "violated": false}],
  "meta": {"run_id": "x"}
}`

const validYAML = `tool: qcgen
input:
  target: 50
  std_dev: 1
points:
  - day: 1
    value: 50.5
  - day: 2
    value: 49.25
rules:
  - rule: r-4s
    enabled: true
    violated: true
    first_day: 1
`

func TestParse_ValidJSON(t *testing.T) {
	run, err := Parse([]byte(validJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(run.Points) != 3 || run.Points[2].Value != 101.2 {
		t.Errorf("unexpected points: %+v", run.Points)
	}
	if run.Input.StdDev != 2 {
		t.Errorf("std_dev = %g, want 2", run.Input.StdDev)
	}
}

func TestParse_ValidYAML(t *testing.T) {
	run, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if run.Input.Target != 50 || len(run.Points) != 2 {
		t.Errorf("unexpected run: %+v", run)
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse([]byte("  \n")); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestParse_BadJSON(t *testing.T) {
	_, err := Parse([]byte(`{"points": [}`))
	if err == nil || !strings.HasPrefix(err.Error(), "JSON parse failed") {
		t.Fatalf("expected JSON parse error, got %v", err)
	}
}

func TestParse_DaysOutOfSequence(t *testing.T) {
	doc := strings.Replace(validJSON, `{"day": 2, "value": 99.5}`, `{"day": 5, "value": 99.5}`, 1)
	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "out of sequence") {
		t.Fatalf("expected sequence error, got %v", err)
	}
}

func TestParse_UnknownRule(t *testing.T) {
	doc := strings.Replace(validJSON, `"rule": "1-3s"`, `"rule": "1-2s"`, 1)
	_, err := Parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "unknown rule") {
		t.Fatalf("expected unknown rule error, got %v", err)
	}
}

func TestParse_ViolatedButDisabled(t *testing.T) {
	doc := strings.Replace(validJSON, `"enabled": true, "violated": false`, `"enabled": false, "violated": true`, 1)
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected error for violated disabled rule")
	}
}

func TestParse_NegativeStdDev(t *testing.T) {
	doc := strings.Replace(validJSON, `"std_dev": 2`, `"std_dev": -2`, 1)
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected error for negative std_dev")
	}
}
