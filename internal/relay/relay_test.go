package relay

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dshills/qcgen/internal/qc"
)

func waitEmitted(t *testing.T, r *Relay) int {
	t.Helper()
	select {
	case n := <-r.Emitted():
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for emission")
		return 0
	}
}

func TestRelay_EmitsFormattedLines(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	r := New(qc.Series{100, 101.456, 97.2}, &buf, WithDelays(0, 0))
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.True(t, r.Trigger())
	assert.Equal(t, 3, waitEmitted(t, r))
	assert.Equal(t, "100.00\n101.46\n97.20\n", buf.String())

	require.True(t, r.Trigger())
	waitEmitted(t, r)
	assert.Equal(t, 6, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestRelay_StopInterruptsEmission(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	r := New(qc.Series{1, 2, 3}, &buf, WithDelays(time.Hour, time.Hour))
	require.NoError(t, r.Start(context.Background()))
	r.Trigger()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not interrupt the pending emission")
	}
	assert.Empty(t, buf.String())
}

func TestRelay_ContextCancelStopsLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	r := New(qc.Series{1}, &bytes.Buffer{}, WithDelays(0, 0))
	require.NoError(t, r.Start(ctx))
	cancel()
	r.Stop()
}

func TestRelay_DoubleStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := New(qc.Series{1}, &bytes.Buffer{})
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()
	assert.Error(t, r.Start(context.Background()))
}

func TestRelay_StopWithoutStart(t *testing.T) {
	r := New(nil, &bytes.Buffer{})
	r.Stop()
}
