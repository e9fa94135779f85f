package poll

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/serscope/serscope/internal/datalog"
	"github.com/serscope/serscope/internal/logger"
	"github.com/serscope/serscope/internal/protocol"
	serialtest "github.com/serscope/serscope/internal/serial/testing"
	"github.com/serscope/serscope/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPoller(cfg Config, transport *serialtest.FakeTransport) (*Poller, *telemetry.Registry, *telemetry.Clock) {
	if cfg.Slice == 0 {
		cfg.Slice = time.Millisecond
	}
	reg := telemetry.NewRegistry(100)
	clock := telemetry.NewClock(nil)
	p := New(cfg, transport, reg, clock, nil, logger.Noop())
	return p, reg, clock
}

func TestCycleCellMode(t *testing.T) {
	transport := serialtest.NewFakeTransport("$10:123$20:45,CRC")
	cfg := Config{
		Cells: []protocol.Cell{{Name: "V1", Addr: "10"}, {Name: "V2", Addr: "20"}},
	}
	p, reg, _ := newTestPoller(cfg, transport)

	p.cycle(1000)

	// One request per cell
	assert.Equal(t, []string{"?10\n", "?20\n"}, transport.SentRequests())

	snaps := reg.Snapshot()
	require.Len(t, snaps, 2)
	assert.Equal(t, "V1", snaps[0].Name)
	assert.Equal(t, 123.0, snaps[0].Latest())
	assert.Equal(t, 45.0, snaps[1].Latest())
	assert.EqualValues(t, 1000, snaps[0].Samples[0].TimestampMS)
}

func TestCycleCellModeMissingCellGetsSentinel(t *testing.T) {
	transport := serialtest.NewFakeTransport("$10:7")
	cfg := Config{
		Cells: []protocol.Cell{{Name: "V1", Addr: "10"}, {Name: "V2", Addr: "99"}},
	}
	p, reg, _ := newTestPoller(cfg, transport)

	p.cycle(0)

	snaps := reg.Snapshot()
	require.Len(t, snaps, 2)
	assert.Equal(t, 7.0, snaps[0].Latest())
	assert.Equal(t, 0.0, snaps[1].Latest())
}

func TestCycleRequestMode(t *testing.T) {
	transport := serialtest.NewFakeTransport("$10:123$20:45,CRC")
	p, reg, _ := newTestPoller(Config{Request: "GETALL"}, transport)

	p.cycle(500)

	assert.Equal(t, []string{"GETALL\n"}, transport.SentRequests())

	// Channels discovered from response addresses, named after them
	snaps := reg.Snapshot()
	require.Len(t, snaps, 2)
	assert.Equal(t, "10", snaps[0].Name)
	assert.Equal(t, "20", snaps[1].Name)
	assert.Equal(t, telemetry.Palette[0], snaps[0].Color)
}

func TestCycleRequestModeRowLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	logw, err := datalog.Open(path, nil, logger.Noop())
	require.NoError(t, err)

	transport := serialtest.NewFakeTransport("$10:123$20:45,CRC")
	reg := telemetry.NewRegistry(100)
	p := New(Config{Request: "GETALL", Slice: time.Millisecond}, transport, reg, telemetry.NewClock(nil), logw, logger.Noop())

	p.cycle(1234)
	require.NoError(t, logw.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Time_ms, Values\n1234, 123, 45\n", string(data))
}

func TestCycleTransportFailureIsSwallowed(t *testing.T) {
	transport := serialtest.NewFakeTransport()
	transport.SendErr = errors.New("write: device gone")
	transport.ReadErr = errors.New("read: device gone")
	cfg := Config{Cells: []protocol.Cell{{Name: "V1", Addr: "10"}}}
	p, reg, _ := newTestPoller(cfg, transport)

	// Must not panic and must keep appending sentinel values
	p.cycle(0)
	p.cycle(100)

	snaps := reg.Snapshot()
	require.Len(t, snaps, 1)
	require.Len(t, snaps[0].Samples, 2)
	assert.Equal(t, 0.0, snaps[0].Latest())
}

func TestCycleDebugLogsUnparsedResponse(t *testing.T) {
	buf := logger.NewBufferLogger()
	transport := serialtest.NewFakeTransport("%%garbage%%")
	reg := telemetry.NewRegistry(100)
	p := New(Config{Request: "GETALL", Debug: true, Slice: time.Millisecond}, transport, reg, telemetry.NewClock(nil), nil, buf)

	p.cycle(0)

	assert.True(t, buf.HasLevel("debug"))
	assert.Empty(t, reg.Snapshot())
}

func TestCycleAppendsAreAtomicAcrossChannels(t *testing.T) {
	transport := serialtest.NewFakeTransport()
	cfg := Config{
		Cells: []protocol.Cell{{Name: "V1", Addr: "10"}, {Name: "V2", Addr: "20"}},
	}
	p, reg, _ := newTestPoller(cfg, transport)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ts := int64(0); ts < 500; ts++ {
			p.cycle(ts)
		}
	}()

	// A snapshot taken at any point must see whole cycles only: both
	// channels always hold the same number of samples.
	for {
		select {
		case <-done:
			return
		default:
		}
		snaps := reg.Snapshot()
		if len(snaps) < 2 {
			continue
		}
		require.Len(t, snaps, 2)
		require.Equal(t, len(snaps[0].Samples), len(snaps[1].Samples),
			"snapshot saw a partially appended cycle")
	}
}

func TestWarmupDrainsBeforeFirstCycle(t *testing.T) {
	buf := logger.NewBufferLogger()
	transport := serialtest.NewFakeTransport("boot noise")
	reg := telemetry.NewRegistry(100)
	cfg := Config{
		Interval: time.Millisecond,
		Warmup:   5 * time.Millisecond,
		Slice:    time.Millisecond,
		Cells:    []protocol.Cell{{Name: "V1", Addr: "10"}},
	}
	p := New(cfg, transport, reg, telemetry.NewClock(nil), nil, buf)

	p.Start()
	defer p.Stop()

	require.Eventually(t, func() bool { return reg.Count("V1") >= 1 }, time.Second, time.Millisecond)

	// The scripted boot noise was consumed during warmup, not by a cycle,
	// so the first cycle read nothing and recorded the sentinel.
	assert.True(t, buf.HasLevel("debug"))
	snaps := reg.Snapshot()
	require.Len(t, snaps, 1)
	assert.Equal(t, 0.0, snaps[0].Samples[0].Value)
}

func TestPollerLifecycle(t *testing.T) {
	transport := serialtest.NewFakeTransport()
	cfg := Config{
		Interval: time.Millisecond,
		Cells:    []protocol.Cell{{Name: "V1", Addr: "10"}},
	}
	p, reg, _ := newTestPoller(cfg, transport)

	assert.Equal(t, Stopped, p.State())

	p.Start()
	assert.Equal(t, Running, p.State())

	// Cycles happen
	require.Eventually(t, func() bool {
		return reg.Count("V1") >= 2
	}, time.Second, time.Millisecond)

	p.Pause()
	assert.Equal(t, Paused, p.State())

	// No appends while paused
	time.Sleep(5 * time.Millisecond)
	n := reg.Count("V1")
	time.Sleep(20 * time.Millisecond)
	assert.InDelta(t, n, reg.Count("V1"), 1)

	p.Resume()
	assert.Equal(t, Running, p.State())
	require.Eventually(t, func() bool {
		return reg.Count("V1") > n+1
	}, time.Second, time.Millisecond)

	p.Stop()
	assert.Equal(t, Stopped, p.State())
	assert.True(t, transport.Closed)
}

func TestPollerStartIdempotent(t *testing.T) {
	transport := serialtest.NewFakeTransport()
	cfg := Config{Interval: time.Millisecond, Cells: []protocol.Cell{{Name: "V1", Addr: "10"}}}
	p, _, _ := newTestPoller(cfg, transport)

	p.Start()
	p.Start()
	assert.Equal(t, Running, p.State())
	p.Stop()
}

func TestPollerPauseIdempotent(t *testing.T) {
	transport := serialtest.NewFakeTransport()
	cfg := Config{Interval: time.Millisecond, Cells: []protocol.Cell{{Name: "V1", Addr: "10"}}}
	p, _, clock := newTestPoller(cfg, transport)

	p.Start()
	p.Pause()
	p.Pause()
	assert.Equal(t, Paused, p.State())
	assert.True(t, clock.Paused())

	p.Resume()
	assert.False(t, clock.Paused())
	p.Stop()
}

func TestPollerResumeStartsStoppedLoop(t *testing.T) {
	transport := serialtest.NewFakeTransport()
	cfg := Config{Interval: time.Millisecond, Cells: []protocol.Cell{{Name: "V1", Addr: "10"}}}
	p, reg, _ := newTestPoller(cfg, transport)

	p.Resume()
	assert.Equal(t, Running, p.State())
	require.Eventually(t, func() bool {
		return reg.Count("V1") >= 1
	}, time.Second, time.Millisecond)
	p.Stop()
}

func TestPollerRestartClearsState(t *testing.T) {
	transport := serialtest.NewFakeTransport()
	cfg := Config{Interval: time.Millisecond, Cells: []protocol.Cell{{Name: "V1", Addr: "10"}}}
	p, reg, clock := newTestPoller(cfg, transport)

	p.Start()
	require.Eventually(t, func() bool {
		return reg.Count("V1") >= 3
	}, time.Second, time.Millisecond)

	p.Restart()
	assert.Equal(t, Running, p.State())

	// Buffers cleared, clock near zero, and polling continues
	assert.LessOrEqual(t, clock.ElapsedMS(), int64(100))
	require.Eventually(t, func() bool {
		return reg.Count("V1") >= 1
	}, time.Second, time.Millisecond)
	p.Stop()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "paused", Paused.String())
}
