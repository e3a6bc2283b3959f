// Package relay types a series out as text lines each time it is triggered.
//
// A Relay owns one background goroutine. Triggers arrive on a channel, so
// nothing outside the Relay value holds listener state.
package relay

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/qcgen/internal/qc"
	"github.com/dshills/qcgen/internal/render"
)

// Defaults match the pacing of a keyboard-injection target.
const (
	DefaultStartDelay = 500 * time.Millisecond
	DefaultLineDelay  = 50 * time.Millisecond
)

// Relay writes a fixed series to an io.Writer on demand.
type Relay struct {
	out        io.Writer
	lines      []string
	startDelay time.Duration
	lineDelay  time.Duration
	logger     *zap.Logger

	trigger chan struct{}
	emitted chan int

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// Option configures a Relay.
type Option func(*Relay)

// WithDelays sets the pause before the first line and between lines.
func WithDelays(start, line time.Duration) Option {
	return func(r *Relay) {
		r.startDelay = start
		r.lineDelay = line
	}
}

// WithLogger sets the relay logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.logger = l
		}
	}
}

// New prepares a relay for s. Call Start before Trigger.
func New(s qc.Series, out io.Writer, opts ...Option) *Relay {
	r := &Relay{
		out:        out,
		lines:      make([]string, len(s)),
		startDelay: DefaultStartDelay,
		lineDelay:  DefaultLineDelay,
		logger:     zap.NewNop(),
		trigger:    make(chan struct{}, 1),
		emitted:    make(chan int, 1),
	}
	for i, v := range s {
		r.lines[i] = render.FormatValue(v) + "\n"
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the background goroutine. It returns an error if the relay
// is already running.
func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return fmt.Errorf("relay already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.stopped = make(chan struct{})
	go r.loop(ctx, r.stopped)
	r.logger.Debug("relay started", zap.Int("lines", len(r.lines)))
	return nil
}

// Trigger requests one emission of the series. It does not block; a trigger
// arriving while one is already pending is dropped and false is returned.
func (r *Relay) Trigger() bool {
	select {
	case r.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Emitted delivers the number of lines written after each emission, including
// one cut short by a write error. Notifications are dropped when nobody is
// receiving.
func (r *Relay) Emitted() <-chan int {
	return r.emitted
}

// Stop cancels any emission in progress and waits for the goroutine to exit.
func (r *Relay) Stop() {
	r.mu.Lock()
	cancel, stopped := r.cancel, r.stopped
	r.cancel = nil
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-stopped
	r.logger.Debug("relay stopped")
}

func (r *Relay) loop(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.trigger:
			n, err := r.emit(ctx)
			if err != nil {
				r.logger.Warn("relay emission interrupted", zap.Int("written", n), zap.Error(err))
				if ctx.Err() != nil {
					return
				}
			}
			select {
			case r.emitted <- n:
			default:
			}
		}
	}
}

func (r *Relay) emit(ctx context.Context) (int, error) {
	if err := sleep(ctx, r.startDelay); err != nil {
		return 0, err
	}
	for i, line := range r.lines {
		if i > 0 {
			if err := sleep(ctx, r.lineDelay); err != nil {
				return i, err
			}
		}
		if _, err := io.WriteString(r.out, line); err != nil {
			return i, err
		}
	}
	return len(r.lines), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
