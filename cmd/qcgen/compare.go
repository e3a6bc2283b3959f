package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/qcgen/internal/compare"
	"github.com/dshills/qcgen/internal/dataset"
)

// compareFlags holds the parsed flags for the compare command.
type compareFlags struct {
	patchOut   string
	failOnDiff bool
}

func newCompareCmd(a *app) *cobra.Command {
	var flags compareFlags
	cmd := &cobra.Command{
		Use:   "compare <baseline> <candidate>",
		Short: "Diff two series at export precision",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(a, args[0], args[1], flags, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&flags.patchOut, "patch-out", "", "Write the diff-match-patch text to this file")
	cmd.Flags().BoolVar(&flags.failOnDiff, "fail-on-diff", false, "Exit 2 if the series differ")
	return cmd
}

func runCompare(a *app, baselinePath, candidatePath string, flags compareFlags, out io.Writer) error {
	baseline, err := dataset.Load(baselinePath)
	if err != nil {
		return codeError(exitInput, "%s", err)
	}
	candidate, err := dataset.Load(candidatePath)
	if err != nil {
		return codeError(exitInput, "%s", err)
	}

	res := compare.Series(baseline.Series, candidate.Series)
	a.logger.Debug("series compared",
		zap.String("baseline", baseline.Hash),
		zap.String("candidate", candidate.Hash),
		zap.Ints("changed_days", res.ChangedDays))

	if _, err := fmt.Fprintln(out, res.Summary()); err != nil {
		return codeError(exitOutput, "writing output: %s", err)
	}
	if len(res.ChangedDays) > 0 {
		fmt.Fprintf(out, "changed days: %v\n", res.ChangedDays)
	}

	if flags.patchOut != "" {
		if err := os.WriteFile(flags.patchOut, []byte(res.Patch), 0o644); err != nil {
			return codeError(exitOutput, "writing patch file: %s", err)
		}
	} else if res.Patch != "" {
		fmt.Fprint(out, res.Patch)
	}

	if flags.failOnDiff && !res.Identical() {
		return codeError(exitFailOn, "series differ")
	}
	return nil
}
