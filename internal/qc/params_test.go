package qc

import (
	"errors"
	"math"
	"testing"
)

func validParams() Params {
	return Params{Target: 100, CV: 0.02, Count: 31, Distribution: Normal}
}

func TestValidate_OK(t *testing.T) {
	if err := validParams().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_RejectsNonPositive(t *testing.T) {
	cases := map[string]func(*Params){
		"zero target":     func(p *Params) { p.Target = 0 },
		"negative target": func(p *Params) { p.Target = -5 },
		"nan target":      func(p *Params) { p.Target = math.NaN() },
		"zero cv":         func(p *Params) { p.CV = 0 },
		"negative cv":     func(p *Params) { p.CV = -0.01 },
		"zero count":      func(p *Params) { p.Count = 0 },
		"inf bias":        func(p *Params) { p.Bias = math.Inf(1) },
		"bad dist":        func(p *Params) { p.Distribution = "uniform" },
	}
	for name, mutate := range cases {
		p := validParams()
		mutate(&p)
		err := p.Validate()
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%s: want ErrInvalidParameter, got %v", name, err)
		}
	}
}

func TestValidate_RejectsOverflowingStdDev(t *testing.T) {
	p := Params{Target: 1e300, CV: 1e10, Count: 3, Distribution: Normal}
	err := p.Validate()
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("want ErrInvalidParameter, got %v", err)
	}
}

func TestNormalized_ClampsTinyCV(t *testing.T) {
	p := validParams()
	p.CV = 1e-9
	if got := p.Normalized().CV; got != MinCV {
		t.Errorf("CV = %g, want %g", got, MinCV)
	}
	p.CV = 0.05
	if got := p.Normalized().CV; got != 0.05 {
		t.Errorf("CV = %g, want unchanged 0.05", got)
	}
}

func TestStdDev(t *testing.T) {
	p := validParams()
	if got := p.StdDev(); math.Abs(got-2) > 1e-12 {
		t.Errorf("StdDev = %g, want 2", got)
	}
}

func TestCheckLimits(t *testing.T) {
	if err := CheckLimits(100, 2); err != nil {
		t.Errorf("CheckLimits(100, 2): %v", err)
	}
	for _, sd := range []float64{0, -1, math.NaN()} {
		if err := CheckLimits(100, sd); !errors.Is(err, ErrRuleEvaluation) {
			t.Errorf("CheckLimits(100, %g): want ErrRuleEvaluation, got %v", sd, err)
		}
	}
}

func TestParseDistribution(t *testing.T) {
	if d, err := ParseDistribution("LogNormal"); err != nil || d != LogNormal {
		t.Errorf("ParseDistribution(LogNormal) = %q, %v", d, err)
	}
	if _, err := ParseDistribution("gamma"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("want ErrInvalidParameter, got %v", err)
	}
}

func TestSeriesPoints_OneBased(t *testing.T) {
	pts := Series{100, 101}.Points()
	if pts[0].Day != 1 || pts[1].Day != 2 || pts[1].Value != 101 {
		t.Errorf("unexpected points: %+v", pts)
	}
}

func TestSide(t *testing.T) {
	if Side(101, 100) != 1 || Side(99, 100) != -1 || Side(100, 100) != 0 {
		t.Error("Side returned wrong sign")
	}
}
