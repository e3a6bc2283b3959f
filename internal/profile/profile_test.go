package profile

import (
	"strings"
	"testing"

	"github.com/dshills/qcgen/internal/rules"
)

func TestGet_AllProfiles(t *testing.T) {
	for _, name := range Names() {
		p, err := Get(name)
		if err != nil {
			t.Errorf("Get(%q): unexpected error: %v", name, err)
			continue
		}
		if p.Name != name {
			t.Errorf("Get(%q).Name = %q", name, p.Name)
		}
		if err := p.Config().Validate(); err != nil {
			t.Errorf("profile %q config invalid: %v", name, err)
		}
	}
}

func TestGet_EmptyIsWestgard(t *testing.T) {
	p, err := Get("")
	if err != nil {
		t.Fatalf("Get(\"\"): %v", err)
	}
	if p.Name != "westgard" {
		t.Errorf("expected westgard, got %q", p.Name)
	}
	if len(p.Config().Enabled()) != len(rules.Names()) {
		t.Errorf("westgard should enable every rule")
	}
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("six-sigma")
	if err == nil {
		t.Error("expected error for unknown profile, got nil")
	}
	if !strings.Contains(err.Error(), "screening") {
		t.Errorf("error should list valid profiles: %v", err)
	}
}

func TestScreening_DisablesMultiPointRules(t *testing.T) {
	p, _ := Get("screening")
	cfg := p.Config()
	if cfg[rules.Rule10x] || cfg[rules.Rule7T] {
		t.Error("screening must not enable 10x or 7-T")
	}
	if !cfg[rules.RuleR4s] {
		t.Error("screening must enable R-4s")
	}
}

func TestDescribe(t *testing.T) {
	p, _ := Get("random")
	d := p.Describe()
	if !strings.Contains(d, "1-3s") || !strings.Contains(d, "R-4s") {
		t.Errorf("Describe missing rule names: %q", d)
	}
}
