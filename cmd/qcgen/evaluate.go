package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dshills/qcgen/internal/config"
	"github.com/dshills/qcgen/internal/dataset"
	"github.com/dshills/qcgen/internal/rules"
	"github.com/dshills/qcgen/internal/schema"
)

// evaluateFlags holds the parsed flags for the evaluate command. A zero
// target or sd means "not given".
type evaluateFlags struct {
	target    float64
	sd        float64
	cvPercent float64
	rules     ruleFlags
	output    outputFlags
}

func newEvaluateCmd(a *app) *cobra.Command {
	var flags evaluateFlags
	cmd := &cobra.Command{
		Use:   "evaluate <series-file>",
		Short: "Audit an existing series (CSV, text, or a JSON/YAML run document)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEvaluateFlags(cmd.Flags(), a.cfg, &flags)
			return runEvaluate(a, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&flags.target, "target", 0, "Target mean (default: from the run document, else config)")
	f.Float64Var(&flags.sd, "sd", 0, "Absolute standard deviation (overrides --cv)")
	f.Float64Var(&flags.cvPercent, "cv", 0, "Imprecision as CV percent of target")
	addRuleFlags(f, &flags.rules)
	addOutputFlags(f, &flags.output)
	return cmd
}

// applyEvaluateFlags clears limit flags that were not set and applies an
// explicit --profile to the config.
func applyEvaluateFlags(f *pflag.FlagSet, cfg *config.Config, flags *evaluateFlags) {
	if !f.Changed("target") {
		flags.target = 0
	}
	if !f.Changed("sd") {
		flags.sd = 0
	}
	if !f.Changed("cv") {
		flags.cvPercent = 0
	}
	if f.Changed("profile") {
		cfg.Rules.Profile = flags.rules.profile
		cfg.Rules.Enabled = nil
	}
}

func runEvaluate(a *app, path string, flags evaluateFlags) error {
	// --- Step 1: Validate flags ---
	if err := validateOutputFlags(flags.output); err != nil {
		return codeError(exitInput, "invalid flags: %s", err)
	}

	// --- Step 2: Load series ---
	ds, err := dataset.Load(path)
	if err != nil {
		return codeError(exitInput, "%s", err)
	}
	a.logger.Debug("series loaded",
		zap.String("path", ds.Path),
		zap.String("hash", ds.Hash),
		zap.Int("points", len(ds.Series)),
		zap.Bool("run_document", ds.Run != nil))

	// --- Step 3: Resolve limits and rules ---
	target, sd := resolveLimits(a.cfg, ds.Run, flags)
	ruleCfg, err := resolveRules(a.cfg, flags.rules)
	if err != nil {
		return coreError("resolving rules", err)
	}

	// --- Step 4: Audit ---
	findings, err := rules.Audit(ds.Series, target, sd, ruleCfg)
	if err != nil {
		return coreError("evaluating rules", err)
	}

	// --- Step 5: Build and write the run document ---
	in := schema.Input{
		Target:       target,
		StdDev:       sd,
		Count:        len(ds.Series),
		Profile:      a.cfg.Rules.Profile,
		EnabledRules: names(ruleCfg.Enabled()),
		SourceFile:   ds.Path,
		SourceHash:   ds.Hash,
	}
	if target > 0 {
		in.CVPercent = sd / target * 100
	}
	run := buildRun(in, ds.Series, findings, nil)

	a.logger.Info("evaluation complete",
		zap.String("run_id", run.Meta.RunID),
		zap.String("verdict", string(run.Summary.Verdict)))

	return writeRun(run, flags.output)
}

// resolveLimits picks target and SD from flags, then the loaded run document,
// then config.
func resolveLimits(cfg *config.Config, doc *schema.Run, flags evaluateFlags) (target, sd float64) {
	target = cfg.Generation.Target
	cvPercent := cfg.Generation.CVPercent
	if doc != nil {
		target = doc.Input.Target
		cvPercent = doc.Input.CVPercent
	}
	if flags.target != 0 {
		target = flags.target
	}

	switch {
	case flags.sd != 0:
		return target, flags.sd
	case flags.cvPercent != 0:
		return target, target * flags.cvPercent / 100
	case doc != nil && flags.target == 0:
		return target, doc.Input.StdDev
	default:
		return target, target * cvPercent / 100
	}
}
