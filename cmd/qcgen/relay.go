package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/qcgen/internal/dataset"
	"github.com/dshills/qcgen/internal/relay"
)

// relayFlags holds the parsed flags for the relay command. Negative values
// mean "use config".
type relayFlags struct {
	startDelay time.Duration
	delay      time.Duration
}

func newRelayCmd(a *app) *cobra.Command {
	flags := relayFlags{startDelay: -1, delay: -1}
	cmd := &cobra.Command{
		Use:   "relay <series-file>",
		Short: "Type the series to stdout each time a line is read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runRelay(ctx, a, args[0], flags, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&flags.startDelay, "start-delay", -1, "Pause before the first value (default from config)")
	cmd.Flags().DurationVar(&flags.delay, "delay", -1, "Pause between values (default from config)")
	return cmd
}

// runRelay emits the series once per input line and returns when in is
// exhausted or ctx is cancelled.
func runRelay(ctx context.Context, a *app, path string, flags relayFlags, in io.Reader, out io.Writer) error {
	ds, err := dataset.Load(path)
	if err != nil {
		return codeError(exitInput, "%s", err)
	}

	start, delay := a.cfg.Relay.StartDelay, a.cfg.Relay.Delay
	if flags.startDelay >= 0 {
		start = flags.startDelay
	}
	if flags.delay >= 0 {
		delay = flags.delay
	}

	r := relay.New(ds.Series, out, relay.WithDelays(start, delay), relay.WithLogger(a.logger))
	if err := r.Start(ctx); err != nil {
		return codeError(exitFailure, "starting relay: %s", err)
	}
	defer r.Stop()

	lines := make(chan struct{})
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-lines:
			if !ok {
				return nil
			}
			if !r.Trigger() {
				continue
			}
			select {
			case n := <-r.Emitted():
				a.logger.Debug("series emitted", zap.Int("lines", n))
			case <-ctx.Done():
				return nil
			}
		}
	}
}
