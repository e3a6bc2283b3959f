package schema

// Run is the top-level output document for one generation or evaluation.
type Run struct {
	Tool    string       `json:"tool" yaml:"tool"`
	Version string       `json:"version" yaml:"version"`
	Input   Input        `json:"input" yaml:"input"`
	Summary Summary      `json:"summary" yaml:"summary"`
	Points  []Point      `json:"points" yaml:"points"`
	Rules   []RuleResult `json:"rules" yaml:"rules"`
	Meta    Meta         `json:"meta" yaml:"meta"`
}

// Input captures the parameters used for this run.
type Input struct {
	Target       float64  `json:"target" yaml:"target"`
	CVPercent    float64  `json:"cv_percent" yaml:"cv_percent"`
	StdDev       float64  `json:"std_dev" yaml:"std_dev"`
	Bias         float64  `json:"bias" yaml:"bias"`
	DriftRate    float64  `json:"drift_rate" yaml:"drift_rate"`
	Count        int      `json:"count" yaml:"count"`
	Distribution string   `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	Seed         uint64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	Constrained  bool     `json:"constrained" yaml:"constrained"`
	Profile      string   `json:"profile" yaml:"profile"`
	EnabledRules []string `json:"enabled_rules" yaml:"enabled_rules"`
	SourceFile   string   `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	SourceHash   string   `json:"source_hash,omitempty" yaml:"source_hash,omitempty"` // SHA-256 of the loaded file
}

// Summary holds descriptive statistics and the verdict.
type Summary struct {
	Verdict        Verdict `json:"verdict" yaml:"verdict"`
	Mean           float64 `json:"mean" yaml:"mean"`
	SD             float64 `json:"sd" yaml:"sd"`
	CVPercent      float64 `json:"cv_percent" yaml:"cv_percent"`
	Min            float64 `json:"min" yaml:"min"`
	Max            float64 `json:"max" yaml:"max"`
	RejectCount    int     `json:"reject_count" yaml:"reject_count"`
	WarningCount   int     `json:"warning_count" yaml:"warning_count"`
	DegenerateDays []int   `json:"degenerate_days,omitempty" yaml:"degenerate_days,omitempty"`
}

// Meta holds runtime metadata.
type Meta struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	Draws      int            `json:"draws,omitempty" yaml:"draws,omitempty"`
	Rejections map[string]int `json:"rejections,omitempty" yaml:"rejections,omitempty"`
}

// Point is one day of the series.
type Point struct {
	Day   int     `json:"day" yaml:"day"`
	Value float64 `json:"value" yaml:"value"`
}

// RuleResult is the audit outcome for one catalog rule.
type RuleResult struct {
	Rule     string `json:"rule" yaml:"rule"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Violated bool   `json:"violated" yaml:"violated"`
	Warning  bool   `json:"warning" yaml:"warning"`
	FirstDay int    `json:"first_day,omitempty" yaml:"first_day,omitempty"`
}

// Verdict is the overall assessment of a run.
type Verdict string

const (
	VerdictInControl    Verdict = "IN_CONTROL"
	VerdictWarning      Verdict = "WARNING"
	VerdictOutOfControl Verdict = "OUT_OF_CONTROL"
)

// VerdictOrdinal returns the numeric ordering for a verdict, used by --fail-on
// comparison. IN_CONTROL(0) < WARNING(1) < OUT_OF_CONTROL(2).
// Returns -1 for an unrecognised verdict.
func VerdictOrdinal(v Verdict) int {
	switch v {
	case VerdictInControl:
		return 0
	case VerdictWarning:
		return 1
	case VerdictOutOfControl:
		return 2
	default:
		return -1
	}
}
