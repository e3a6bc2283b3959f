package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dshills/qcgen/internal/config"
	"github.com/dshills/qcgen/internal/generator"
	"github.com/dshills/qcgen/internal/observability"
	"github.com/dshills/qcgen/internal/qc"
	"github.com/dshills/qcgen/internal/render"
	"github.com/dshills/qcgen/internal/review"
	"github.com/dshills/qcgen/internal/rules"
	"github.com/dshills/qcgen/internal/schema"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// Exit codes.
const (
	exitFailure  = 1
	exitFailOn   = 2
	exitInput    = 3
	exitLiveness = 4
	exitOutput   = 5
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// coreError maps core error kinds to exit codes.
func coreError(step string, err error) error {
	switch {
	case errors.Is(err, qc.ErrLivenessRisk):
		return codeError(exitLiveness, "%s: %s", step, err)
	case errors.Is(err, qc.ErrInvalidParameter),
		errors.Is(err, qc.ErrRuleEvaluation),
		errors.Is(err, rules.ErrInvalidConfig):
		return codeError(exitInput, "%s: %s", step, err)
	default:
		return codeError(exitFailure, "%s: %s", step, err)
	}
}

// app is the state shared by every subcommand once config is loaded.
type app struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  *zap.Logger
}

// ruleFlags select the audit rules.
type ruleFlags struct {
	profile string
	enable  []string
	disable []string
}

// outputFlags control rendering of a run document.
type outputFlags struct {
	format       string
	out          string
	failOn       string
	onlyViolated bool
}

// generateFlags holds the parsed flags for the generate command. Control
// parameters are applied to app.cfg before runGenerate is called.
type generateFlags struct {
	target      float64
	cvPercent   float64
	bias        float64
	drift       float64
	count       int
	dist        string
	seed        uint64
	constrained bool
	maxAttempts int
	rules       ruleFlags
	output      outputFlags
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var ee *exitErr
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(exitFailure)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:     "qcgen",
		Short:   "Simulate QC control series and audit them against Westgard rules",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "Config file (default ./qcgen.yaml if present)")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Log processing steps to stderr at debug level")
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	root.AddCommand(newGenerateCmd(a), newEvaluateCmd(a), newCompareCmd(a), newRelayCmd(a), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// version needs no config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return codeError(exitInput, "loading config: %s", err)
	}
	if a.verbose {
		cfg.Logger.Level = "debug"
	}
	a.cfg = cfg
	a.logger = observability.New(cfg.Logger, nil)
	return nil
}

func newGenerateCmd(a *app) *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a simulated control series and audit it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGenerateFlags(cmd.Flags(), a.cfg, flags)
			return runGenerate(a, flags)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&flags.target, "target", 100, "Target (assigned mean), > 0")
	f.Float64Var(&flags.cvPercent, "cv", 2, "Imprecision as CV percent, > 0")
	f.Float64Var(&flags.bias, "bias", 0, "Additive offset to the working mean")
	f.Float64Var(&flags.drift, "drift", 0, "Increment applied to the working mean after each point")
	f.IntVar(&flags.count, "count", 31, "Number of points, > 0")
	f.StringVar(&flags.dist, "dist", "normal", "Distribution: normal or lognormal")
	f.Uint64Var(&flags.seed, "seed", 0, "Random seed; 0 picks one and records it in the output")
	f.BoolVar(&flags.constrained, "constrained", false, "Reject draws outside ±2 SD or failing the streaming gatekeeper")
	f.IntVar(&flags.maxAttempts, "max-attempts", generator.DefaultMaxAttempts, "Draws allowed per point in constrained mode")
	addRuleFlags(f, &flags.rules)
	addOutputFlags(f, &flags.output)
	return cmd
}

func addRuleFlags(f *pflag.FlagSet, rf *ruleFlags) {
	f.StringVar(&rf.profile, "profile", "westgard", "Rule profile: westgard, screening, systematic, random")
	f.StringSliceVar(&rf.enable, "enable", nil, "Rules to enable on top of the profile (e.g. 7-T,10x)")
	f.StringSliceVar(&rf.disable, "disable", nil, "Rules to disable on top of the profile")
}

func addOutputFlags(f *pflag.FlagSet, of *outputFlags) {
	f.StringVar(&of.format, "format", "json", "Output format: json, yaml, md, csv or text")
	f.StringVarP(&of.out, "out", "o", "", "Write output to file instead of stdout")
	f.StringVar(&of.failOn, "fail-on", "", "Exit 2 if verdict >= this level (WARNING or OUT_OF_CONTROL)")
	f.BoolVar(&of.onlyViolated, "only-violated", false, "List only violated rules in the output")
}

// applyGenerateFlags copies explicitly set flags over the loaded config.
func applyGenerateFlags(f *pflag.FlagSet, cfg *config.Config, flags generateFlags) {
	g := &cfg.Generation
	if f.Changed("target") {
		g.Target = flags.target
	}
	if f.Changed("cv") {
		g.CVPercent = flags.cvPercent
	}
	if f.Changed("bias") {
		g.Bias = flags.bias
	}
	if f.Changed("drift") {
		g.DriftRate = flags.drift
	}
	if f.Changed("count") {
		g.Count = flags.count
	}
	if f.Changed("dist") {
		g.Distribution = flags.dist
	}
	if f.Changed("seed") {
		g.Seed = flags.seed
	}
	if f.Changed("constrained") {
		g.Constrained = flags.constrained
	}
	if f.Changed("max-attempts") {
		g.MaxAttempts = flags.maxAttempts
	}
	if f.Changed("profile") {
		cfg.Rules.Profile = flags.rules.profile
		cfg.Rules.Enabled = nil
	}
}

func runGenerate(a *app, flags generateFlags) error {
	// --- Step 1: Validate flags ---
	if err := validateOutputFlags(flags.output); err != nil {
		return codeError(exitInput, "invalid flags: %s", err)
	}

	// --- Step 2: Resolve parameters and rules ---
	params, err := a.cfg.Params()
	if err != nil {
		return coreError("resolving parameters", err)
	}
	ruleCfg, err := resolveRules(a.cfg, flags.rules)
	if err != nil {
		return coreError("resolving rules", err)
	}

	seed := a.cfg.Generation.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	// --- Step 3: Generate ---
	gen := generator.New(
		generator.WithSeed(seed),
		generator.WithLogger(a.logger),
		generator.WithMaxAttempts(a.cfg.Generation.MaxAttempts),
	)
	a.logger.Debug("generating series",
		zap.Float64("target", params.Target),
		zap.Float64("cv", params.CV),
		zap.Int("count", params.Count),
		zap.String("distribution", string(params.Distribution)),
		zap.Bool("constrained", a.cfg.Generation.Constrained),
		zap.Uint64("seed", seed))

	var res *generator.Result
	if a.cfg.Generation.Constrained {
		res, err = gen.GenerateConstrained(params)
	} else {
		res, err = gen.Generate(params)
	}
	if err != nil {
		return coreError("generating series", err)
	}

	// --- Step 4: Audit ---
	sd := params.Normalized().StdDev()
	findings, err := rules.Audit(res.Series, params.Target, sd, ruleCfg)
	if err != nil {
		return coreError("evaluating rules", err)
	}

	// --- Step 5: Build and write the run document ---
	run := buildRun(schema.Input{
		Target:       params.Target,
		CVPercent:    a.cfg.Generation.CVPercent,
		StdDev:       sd,
		Bias:         params.Bias,
		DriftRate:    params.DriftRate,
		Count:        params.Count,
		Distribution: string(params.Distribution),
		Seed:         seed,
		Constrained:  a.cfg.Generation.Constrained,
		Profile:      a.cfg.Rules.Profile,
		EnabledRules: names(ruleCfg.Enabled()),
	}, res.Series, findings, res.Degenerate)
	run.Meta.Draws = res.Draws
	if len(res.Rejections) > 0 {
		run.Meta.Rejections = res.Rejections
	}

	a.logger.Info("run complete",
		zap.String("run_id", run.Meta.RunID),
		zap.String("verdict", string(run.Summary.Verdict)),
		zap.Int("draws", res.Draws),
		zap.Ints("degenerate_days", res.Degenerate))

	return writeRun(run, flags.output)
}

// resolveRules builds the rule configuration from the config's profile and
// overrides plus the --enable and --disable lists.
func resolveRules(cfg *config.Config, rf ruleFlags) (rules.Config, error) {
	rc, err := cfg.RuleConfig()
	if err != nil {
		return nil, err
	}
	for _, s := range rf.enable {
		n, err := rules.ParseName(s)
		if err != nil {
			return nil, err
		}
		rc[n] = true
	}
	for _, s := range rf.disable {
		n, err := rules.ParseName(s)
		if err != nil {
			return nil, err
		}
		rc[n] = false
	}
	return rc, nil
}

// buildRun assembles the output document. Summary counts and the verdict
// always reflect every rule, before --only-violated filtering.
func buildRun(in schema.Input, series qc.Series, findings []rules.Finding, degenerate []int) *schema.Run {
	results := review.Results(findings)
	st := review.Describe(series)
	reject, warn := review.Counts(results)

	points := make([]schema.Point, len(series))
	for i, p := range series.Points() {
		points[i] = schema.Point{Day: p.Day, Value: p.Value}
	}

	return &schema.Run{
		Tool:    "qcgen",
		Version: version,
		Input:   in,
		Summary: schema.Summary{
			Verdict:        review.Verdict(results),
			Mean:           st.Mean,
			SD:             st.SD,
			CVPercent:      st.CVPercent,
			Min:            st.Min,
			Max:            st.Max,
			RejectCount:    reject,
			WarningCount:   warn,
			DegenerateDays: degenerate,
		},
		Points: points,
		Rules:  results,
		Meta:   schema.Meta{RunID: uuid.NewString()},
	}
}

// writeRun renders run, writes it, and evaluates --fail-on.
func writeRun(run *schema.Run, of outputFlags) error {
	verdict := run.Summary.Verdict
	if of.onlyViolated {
		run.Rules = review.FilterViolated(run.Rules)
	}

	renderer, err := render.NewRenderer(of.format)
	if err != nil {
		return codeError(exitInput, "invalid format: %s", err)
	}
	outputBytes, err := renderer.Render(run)
	if err != nil {
		return codeError(exitOutput, "rendering output: %s", err)
	}

	if of.out != "" {
		if err := os.WriteFile(of.out, outputBytes, 0o644); err != nil {
			return codeError(exitOutput, "writing output file: %s", err)
		}
	} else {
		if _, err := os.Stdout.Write(outputBytes); err != nil {
			return codeError(exitOutput, "writing output: %s", err)
		}
		// Ensure output ends with a newline for terminal friendliness.
		if len(outputBytes) > 0 && outputBytes[len(outputBytes)-1] != '\n' {
			fmt.Fprintln(os.Stdout)
		}
	}

	if of.failOn != "" {
		threshold := schema.Verdict(of.failOn)
		if schema.VerdictOrdinal(verdict) >= schema.VerdictOrdinal(threshold) {
			return codeError(exitFailOn, "verdict %s meets or exceeds --fail-on threshold %s", verdict, threshold)
		}
	}
	return nil
}

// validateOutputFlags returns an error if any output flag value is invalid.
func validateOutputFlags(of outputFlags) error {
	known := false
	for _, f := range render.Formats {
		if f == of.format {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("--format must be one of %v, got %q", render.Formats, of.format)
	}

	if of.failOn != "" {
		switch schema.Verdict(of.failOn) {
		case schema.VerdictWarning, schema.VerdictOutOfControl:
		default:
			return fmt.Errorf("--fail-on must be WARNING or OUT_OF_CONTROL, got %q", of.failOn)
		}
	}
	return nil
}

func names(ns []rules.Name) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n)
	}
	return out
}
