// Package generator produces simulated QC control series.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/dshills/qcgen/internal/qc"
	"github.com/dshills/qcgen/internal/rules"
)

// DefaultMaxAttempts bounds the draws spent on a single point in constrained mode.
const DefaultMaxAttempts = 10000

// RejectBand counts candidates outside target ± 2 SD in Result.Rejections.
const RejectBand = "band"

// Result is one generated run.
type Result struct {
	Series qc.Series
	// Degenerate lists 1-based days where the LogNormal conversion was
	// undefined and the working mean was emitted instead.
	Degenerate []int
	// Draws is the number of candidates sampled, including rejected ones.
	Draws int
	// Rejections counts rejected candidates by reason in constrained mode.
	Rejections map[string]int
}

// Generator draws series from a seedable source. It is not safe for
// concurrent use because it owns its random source.
type Generator struct {
	rng         *rand.Rand
	logger      *zap.Logger
	maxAttempts int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes the generator reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithSource uses src for every draw.
func WithSource(src rand.Source) Option {
	return func(g *Generator) { g.rng = rand.New(src) }
}

// WithLogger sets the logger for degenerate-point warnings.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMaxAttempts sets the constrained-mode retry budget per point.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// New returns a Generator. Without WithSeed or WithSource it seeds itself
// from the runtime's random source.
func New(opts ...Option) *Generator {
	g := &Generator{
		logger:      zap.NewNop(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Generate draws p.Count points, advancing the working mean by the drift
// rate after each one.
func (g *Generator) Generate(p qc.Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.Normalized()
	sd := p.StdDev()
	mean := p.Target + p.Bias

	res := &Result{Series: make(qc.Series, 0, p.Count)}
	for i := 0; i < p.Count; i++ {
		v, ok := g.draw(p.Distribution, mean, sd)
		res.Draws++
		if !ok {
			g.degenerate(res, i+1, mean)
		}
		res.Series = append(res.Series, v)
		mean += p.DriftRate
	}
	return res, nil
}

// GenerateConstrained is rejection sampling: a candidate is redrawn until it
// lies within target ± 2 SD and passes the streaming gatekeeper. Each point
// gets at most maxAttempts draws; exhausting them returns ErrLivenessRisk.
func (g *Generator) GenerateConstrained(p qc.Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.Normalized()
	sd := p.StdDev()
	gate, err := rules.NewGatekeeper(p.Target, sd)
	if err != nil {
		return nil, err
	}
	lo, hi := p.Target-2*sd, p.Target+2*sd
	mean := p.Target + p.Bias

	res := &Result{
		Series:     make(qc.Series, 0, p.Count),
		Rejections: make(map[string]int),
	}
	for i := 0; i < p.Count; i++ {
		accepted := false
		for attempt := 0; attempt < g.maxAttempts; attempt++ {
			v, ok := g.draw(p.Distribution, mean, sd)
			res.Draws++
			if v < lo || v > hi {
				res.Rejections[RejectBand]++
				continue
			}
			if reason := gate.Check(res.Series, v); reason != rules.GateAccepted {
				res.Rejections[string(reason)]++
				continue
			}
			if !ok {
				g.degenerate(res, i+1, mean)
			}
			res.Series = append(res.Series, v)
			accepted = true
			break
		}
		if !accepted {
			g.logger.Warn("constrained generation exhausted retry budget",
				zap.Int("day", i+1),
				zap.Int("max_attempts", g.maxAttempts),
				zap.Float64("working_mean", mean))
			return nil, fmt.Errorf("%w: day %d after %d attempts", qc.ErrLivenessRisk, i+1, g.maxAttempts)
		}
		mean += p.DriftRate
	}
	return res, nil
}

func (g *Generator) degenerate(res *Result, day int, mean float64) {
	res.Degenerate = append(res.Degenerate, day)
	g.logger.Warn("lognormal parameters undefined; emitting working mean",
		zap.Int("day", day),
		zap.Float64("working_mean", mean))
}

// draw samples one value around mean. ok is false when the distribution
// could not be formed and mean itself is returned.
func (g *Generator) draw(d qc.Distribution, mean, sd float64) (float64, bool) {
	switch d {
	case qc.LogNormal:
		mu, sigma, ok := LogNormalParams(mean, sd)
		if !ok {
			return mean, false
		}
		return math.Exp(mu + sigma*g.rng.NormFloat64()), true
	default:
		return mean + sd*g.rng.NormFloat64(), true
	}
}

// LogNormalParams converts an arithmetic mean and standard deviation to the
// log-space mu and sigma. ok is false when mean is not positive or the
// result is not finite.
func LogNormalParams(mean, sd float64) (mu, sigma float64, ok bool) {
	if !(mean > 0) {
		return 0, 0, false
	}
	sigma2 := math.Log1p(sd * sd / (mean * mean))
	sigma = math.Sqrt(sigma2)
	mu = math.Log(mean) - sigma2/2
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || math.IsNaN(mu) || math.IsInf(mu, 0) {
		return 0, 0, false
	}
	return mu, sigma, true
}
