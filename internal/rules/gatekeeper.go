package rules

import (
	"math"

	"github.com/dshills/qcgen/internal/qc"
)

// GateReason names the streaming check that rejected a candidate.
type GateReason string

const (
	GateAccepted   GateReason = ""
	GateOutside2s  GateReason = "1-2s"
	GatePair2s     GateReason = "2-2s"
	GateRange4s    GateReason = "R-4s"
	GateRun4Pct    GateReason = "4-1%"
	GateRun10Sided GateReason = "10x"
)

// Gatekeeper is the streaming acceptance strategy used by constrained
// generation. It only looks at the tail of the series plus one candidate.
type Gatekeeper struct {
	Target float64
	StdDev float64
}

// NewGatekeeper validates the control limits.
func NewGatekeeper(target, stdDev float64) (*Gatekeeper, error) {
	if err := qc.CheckLimits(target, stdDev); err != nil {
		return nil, err
	}
	return &Gatekeeper{Target: target, StdDev: stdDev}, nil
}

// Check returns GateAccepted when candidate may be appended to prior, or the
// first check it fails. prior is not modified.
func (g *Gatekeeper) Check(prior qc.Series, candidate float64) GateReason {
	t, sd := g.Target, g.StdDev
	dev := candidate - t
	n := len(prior)

	if math.Abs(dev) > 2*sd {
		return GateOutside2s
	}
	if n >= 1 {
		prev := prior[n-1]
		if math.Abs(prev-t) > 2*sd && math.Abs(dev) > 2*sd && qc.Side(prev, t) == qc.Side(candidate, t) {
			return GatePair2s
		}
		if math.Abs(candidate-prev) > 4*sd {
			return GateRange4s
		}
	}
	if n >= 4 && sameSideRun(prior[n-4:], candidate, t, 0.01*t) {
		return GateRun4Pct
	}
	if n >= 9 && sameSideRun(prior[n-9:], candidate, t, 0) {
		return GateRun10Sided
	}
	return GateAccepted
}

// Accept is Check reduced to a boolean.
func (g *Gatekeeper) Accept(prior qc.Series, candidate float64) bool {
	return g.Check(prior, candidate) == GateAccepted
}

// sameSideRun reports whether tail plus candidate all sit strictly on the
// same side of target and each deviates by more than minDev.
func sameSideRun(tail qc.Series, candidate, target, minDev float64) bool {
	side := qc.Side(candidate, target)
	if side == 0 || math.Abs(candidate-target) <= minDev {
		return false
	}
	for _, v := range tail {
		if qc.Side(v, target) != side || math.Abs(v-target) <= minDev {
			return false
		}
	}
	return true
}
