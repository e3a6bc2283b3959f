package qc

import (
	"errors"
	"fmt"
	"math"
)

// MinCV is the smallest coefficient of variation accepted by the generator.
// Positive values below it are raised to it so the sampling distribution keeps
// a non-zero width.
const MinCV = 1e-6

// Error taxonomy shared by the generator and the rule engine.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrRuleEvaluation   = errors.New("rule evaluation error")
	ErrLivenessRisk     = errors.New("no acceptable point within retry budget")
)

// Distribution selects the generative distribution for a run.
type Distribution string

const (
	Normal    Distribution = "normal"
	LogNormal Distribution = "lognormal"
)

// ParseDistribution maps a user-supplied name to a Distribution.
func ParseDistribution(s string) (Distribution, error) {
	switch s {
	case "normal", "Normal", "":
		return Normal, nil
	case "lognormal", "LogNormal", "log-normal":
		return LogNormal, nil
	default:
		return "", fmt.Errorf("%w: unknown distribution %q: must be normal or lognormal", ErrInvalidParameter, s)
	}
}

// Params are the control parameters for one generation request.
// CV is a fraction (0.02 for 2%).
type Params struct {
	Target       float64
	CV           float64
	Bias         float64
	DriftRate    float64
	Count        int
	Distribution Distribution
}

// Validate rejects parameters that cannot produce a series. It does not
// clamp; see Normalized.
func (p Params) Validate() error {
	if !(p.Target > 0) || math.IsInf(p.Target, 0) {
		return fmt.Errorf("%w: target must be a positive number, got %g", ErrInvalidParameter, p.Target)
	}
	if !(p.CV > 0) || math.IsInf(p.CV, 0) {
		return fmt.Errorf("%w: imprecision must be a positive number, got %g", ErrInvalidParameter, p.CV)
	}
	if p.Count <= 0 {
		return fmt.Errorf("%w: count must be a positive integer, got %d", ErrInvalidParameter, p.Count)
	}
	if math.IsNaN(p.Bias) || math.IsInf(p.Bias, 0) {
		return fmt.Errorf("%w: bias must be finite, got %g", ErrInvalidParameter, p.Bias)
	}
	if math.IsNaN(p.DriftRate) || math.IsInf(p.DriftRate, 0) {
		return fmt.Errorf("%w: drift rate must be finite, got %g", ErrInvalidParameter, p.DriftRate)
	}
	switch p.Distribution {
	case Normal, LogNormal:
	default:
		return fmt.Errorf("%w: unknown distribution %q", ErrInvalidParameter, p.Distribution)
	}
	if sd := p.Normalized().StdDev(); math.IsInf(sd, 0) {
		return fmt.Errorf("%w: target*imprecision overflows", ErrInvalidParameter)
	}
	return nil
}

// Normalized returns a copy of p with CV raised to MinCV when it is positive
// but smaller.
func (p Params) Normalized() Params {
	if p.CV > 0 && p.CV < MinCV {
		p.CV = MinCV
	}
	return p
}

// StdDev is target * CV.
func (p Params) StdDev() float64 {
	return p.Target * p.CV
}

// CVFromPercent converts a percentage to the fractional form used by Params.
func CVFromPercent(pct float64) float64 {
	return pct / 100
}

// CheckLimits fails when target or stdDev cannot anchor control limits.
func CheckLimits(target, stdDev float64) error {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return fmt.Errorf("%w: target must be finite, got %g", ErrRuleEvaluation, target)
	}
	if !(stdDev > 0) || math.IsInf(stdDev, 0) {
		return fmt.Errorf("%w: std_dev must be positive, got %g", ErrRuleEvaluation, stdDev)
	}
	return nil
}
