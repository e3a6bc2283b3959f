package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/qcgen/internal/qc"
)

func newGate(t *testing.T) *Gatekeeper {
	t.Helper()
	g, err := NewGatekeeper(target, sd)
	require.NoError(t, err)
	return g
}

func TestNewGatekeeper_RejectsBadStdDev(t *testing.T) {
	_, err := NewGatekeeper(target, 0)
	assert.ErrorIs(t, err, qc.ErrRuleEvaluation)
}

func TestGatekeeper_Outside2s(t *testing.T) {
	g := newGate(t)
	assert.Equal(t, GateOutside2s, g.Check(nil, 104.5))
	assert.Equal(t, GateOutside2s, g.Check(nil, 95.9))
	assert.True(t, g.Accept(nil, 104))
}

func TestGatekeeper_Range4s(t *testing.T) {
	g := newGate(t)
	assert.True(t, g.Accept(qc.Series{96.5}, 103.5))
	assert.Equal(t, GateAccepted, g.Check(qc.Series{96}, 104))
	assert.Equal(t, GateRange4s, g.Check(qc.Series{95}, 103.5), "previous point outside band still anchors the range check")
}

func TestGatekeeper_Run4Pct(t *testing.T) {
	g := newGate(t)
	prior := qc.Series{101.5, 101.2, 101.1, 101.3}
	assert.Equal(t, GateRun4Pct, g.Check(prior, 101.4))
	assert.True(t, g.Accept(prior, 100.9), "candidate within 1% of target")
	assert.True(t, g.Accept(prior, 98.5), "candidate on the other side")
	assert.True(t, g.Accept(prior[1:], 101.4), "only three preceding points")
}

func TestGatekeeper_Run10Sided(t *testing.T) {
	g := newGate(t)
	prior := qc.Series{100.2, 100.4, 100.1, 100.3, 100.2, 100.5, 100.1, 100.2, 100.3}
	assert.Equal(t, GateRun10Sided, g.Check(prior, 100.2))
	assert.True(t, g.Accept(prior, 99.8))
	assert.True(t, g.Accept(prior[1:], 100.2), "nine-point run is allowed")
	assert.True(t, g.Accept(prior, target), "on-target candidate is neither side")
}

func TestGatekeeper_DivergesFromAudit(t *testing.T) {
	// With SD at 0.5% of target, four points beyond 1 SD still sit inside
	// the gatekeeper's 1% band.
	gate, err := NewGatekeeper(target, 0.5)
	require.NoError(t, err)
	prior := qc.Series{100.6, 100.7, 100.6, 100.7}
	assert.True(t, gate.Accept(prior, 100.8), "gatekeeper needs >1% of target on five points")

	report, err := Evaluate(append(prior.Clone(), 100.8), target, 0.5, ConfigOf(Rule41s))
	require.NoError(t, err)
	assert.True(t, report[Rule41s], "audit 4-1s uses 1 SD")
}

func TestGatekeeper_DoesNotMutatePrior(t *testing.T) {
	g := newGate(t)
	prior := qc.Series{100, 101, 99}
	orig := prior.Clone()
	g.Check(prior, 100.5)
	assert.Equal(t, orig, prior)
}
