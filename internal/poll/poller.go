// Package poll runs the background polling loop: request, read, parse,
// append, log. One cycle per configured interval.
//
// The loop is a single goroutine coordinated with the UI through the
// registry's lock, the clock, and a cooperative stop flag. Pause does not
// stop the goroutine; it keeps spinning in short slices and skips the
// request/append step, so resume takes effect immediately.
package poll

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/serscope/serscope/internal/datalog"
	"github.com/serscope/serscope/internal/logger"
	"github.com/serscope/serscope/internal/protocol"
	"github.com/serscope/serscope/internal/serial"
	"github.com/serscope/serscope/internal/telemetry"
)

// noValue is the sentinel logged and appended when a cell yields no data in a
// cycle (transport failure, parse failure, or a missing address).
const noValue = "0"

// DefaultSlice bounds how long the loop sleeps before re-checking the stop
// and pause flags, so control commands take effect promptly.
const DefaultSlice = 100 * time.Millisecond

// stopWait bounds how long control commands wait for the loop goroutine to
// exit. Restart must not clear buffers while a late cycle could still append.
const stopWait = 2 * time.Second

// State is the poller lifecycle state.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Config holds the immutable polling parameters.
type Config struct {
	// Interval is the cycle cadence.
	Interval time.Duration

	// RequestWait is the delay between per-cell requests within one cycle.
	RequestWait time.Duration

	// Warmup is the raw-read window before the first cycle. Bytes arriving
	// while a freshly opened device settles are drained and discarded.
	Warmup time.Duration

	// Request, when non-empty, selects custom-request mode: one request
	// string per cycle, channels discovered from response addresses.
	Request string

	// Cells are the configured poll targets for cell mode.
	Cells []protocol.Cell

	// Slice overrides DefaultSlice (used by tests).
	Slice time.Duration

	// Debug surfaces unparseable raw responses through the logger.
	Debug bool
}

// Poller produces samples into the registry at a fixed cadence.
type Poller struct {
	cfg       Config
	transport serial.Transport
	registry  *telemetry.Registry
	clock     *telemetry.Clock
	logw      *datalog.Writer
	log       logger.Logger

	// paused is read by the loop goroutine every slice while control
	// commands may hold mu waiting for the loop to join, so it is atomic.
	paused atomic.Bool

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a stopped poller. The registry is shared with the renderer; the
// log writer may be nil.
func New(cfg Config, transport serial.Transport, registry *telemetry.Registry, clock *telemetry.Clock, logw *datalog.Writer, log logger.Logger) *Poller {
	if cfg.Slice <= 0 {
		cfg.Slice = DefaultSlice
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Poller{
		cfg:       cfg,
		transport: transport,
		registry:  registry,
		clock:     clock,
		logw:      logw,
		log:       log,
	}
}

// State returns the current lifecycle state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case !p.running:
		return Stopped
	case p.paused.Load():
		return Paused
	default:
		return Running
	}
}

// Start begins polling. Starting a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.clock.Start()
	p.spawn()
}

// Pause freezes the clock and makes the loop skip its request/append step.
// The goroutine keeps running so resume is instantaneous. Idempotent.
func (p *Poller) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused.Load() {
		return
	}
	p.paused.Store(true)
	p.clock.Pause()
}

// Resume unfreezes a paused poller. Resuming while not paused is a no-op,
// except that a stopped poller is started.
func (p *Poller) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.paused.Load() {
		if !p.running {
			p.clock.Start()
			p.spawn()
		}
		return
	}
	p.clock.Resume()
	p.paused.Store(false)
}

// Restart stops the current loop, waits for it to exit so a late append can
// never land in cleared buffers, clears every channel, resets the clock, and
// spawns a fresh loop.
func (p *Poller) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.registry.ClearAll()
	p.clock.Reset()
	p.paused.Store(false)
	p.spawn()
}

// Stop signals the loop, waits (bounded) for a clean exit, and releases the
// transport. Terminal.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.paused.Store(false)
	if err := p.transport.Close(); err != nil {
		p.log.Debug("transport close: %v", err)
	}
}

// spawn must be called with p.mu held.
func (p *Poller) spawn() {
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.running = true
	go p.run(p.stop, p.done)
}

// stopLocked signals the loop and waits for it to exit, bounded by stopWait.
// Must be called with p.mu held.
func (p *Poller) stopLocked() {
	if !p.running {
		return
	}
	close(p.stop)
	select {
	case <-p.done:
	case <-time.After(stopWait):
		p.log.Warn("poll loop did not exit within %s", stopWait)
	}
	p.running = false
}

// run is the loop goroutine. It owns no shared state directly; everything it
// touches goes through the registry lock or the clock.
func (p *Poller) run(stop, done chan struct{}) {
	defer close(done)

	if p.cfg.Warmup > 0 {
		p.warmup(stop)
	}

	for {
		select {
		case <-stop:
			return
		default:
		}

		if p.paused.Load() {
			time.Sleep(p.cfg.Slice)
			continue
		}

		cycleStart := time.Now()
		p.cycle(p.clock.ElapsedMS())

		// Sleep out the rest of the interval in slices so stop and pause
		// interrupt within one slice
		remaining := p.cfg.Interval - time.Since(cycleStart)
		for remaining > 0 {
			select {
			case <-stop:
				return
			default:
			}
			if p.paused.Load() {
				break
			}
			step := p.cfg.Slice
			if remaining < step {
				step = remaining
			}
			time.Sleep(step)
			remaining -= step
		}
	}
}

// warmup drains raw bytes for the configured window; anything read is
// surfaced through the debug logger and discarded.
func (p *Poller) warmup(stop chan struct{}) {
	deadline := time.Now().Add(p.cfg.Warmup)
	for time.Now().Before(deadline) {
		select {
		case <-stop:
			return
		default:
		}
		if raw, err := p.transport.ReadAvailable(); err == nil && len(raw) > 0 {
			p.log.Debug("warmup read: %q", raw)
		}
		time.Sleep(p.cfg.Slice)
	}
}

// cycle performs one poll: request, read, parse, append, log. Transport
// errors are deliberately non-fatal; a failed cycle records sentinel values
// and polling continues.
func (p *Poller) cycle(timestampMS int64) {
	if p.cfg.Request != "" {
		p.cycleRequest(timestampMS)
		return
	}
	p.cycleCells(timestampMS)
}

// cycleRequest sends the custom request string once and appends every
// parsed (address, value) pair, discovering channels as they appear.
func (p *Poller) cycleRequest(timestampMS int64) {
	if err := p.transport.Send([]byte(p.cfg.Request + "\n")); err != nil {
		p.log.Debug("send failed: %v", err)
	}

	resp, err := p.transport.ReadAvailable()
	if err != nil {
		p.log.Debug("read failed: %v", err)
	}

	pairs := protocol.ParseResponse(resp)
	if len(pairs) == 0 {
		if p.cfg.Debug && len(resp) > 0 {
			p.log.Debug("unparsed raw response: %q", resp)
		}
		p.logw.WriteRow(timestampMS, nil)
		return
	}

	entries := make([]telemetry.Entry, 0, len(pairs))
	values := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		entries = append(entries, telemetry.Entry{Addr: pair.Addr, Value: protocol.ParseValue(pair.Value)})
		values = append(values, pair.Value)
	}

	// One batch append per cycle keeps a concurrent render frame from seeing
	// some channels updated and others not.
	names := p.registry.AppendAll(timestampMS, entries)
	for i, name := range names {
		p.log.Debug("[%d ms] %s: %s", timestampMS, name, values[i])
	}
	p.logw.WriteRow(timestampMS, values)
}

// cycleCells requests each configured cell, reads one combined response, and
// appends a value for every cell; missing cells get the sentinel.
func (p *Poller) cycleCells(timestampMS int64) {
	for _, cell := range p.cfg.Cells {
		if err := p.transport.Send([]byte("?" + cell.Addr + "\n")); err != nil {
			p.log.Debug("send %s failed: %v", cell.Addr, err)
		}
		time.Sleep(p.cfg.RequestWait)
	}

	resp, err := p.transport.ReadAvailable()
	if err != nil {
		p.log.Debug("read failed: %v", err)
	}

	parsed := protocol.ParseResponseMap(resp)
	if len(parsed) == 0 && p.cfg.Debug && len(resp) > 0 {
		p.log.Debug("unparsed raw response: %q", resp)
	}
	entries := make([]telemetry.Entry, 0, len(p.cfg.Cells))
	values := make([]string, 0, len(p.cfg.Cells))
	for _, cell := range p.cfg.Cells {
		raw, ok := parsed[cell.Addr]
		if !ok {
			raw = noValue
		}
		entries = append(entries, telemetry.Entry{Name: cell.Name, Addr: cell.Addr, Value: protocol.ParseValue(raw)})
		values = append(values, raw)
	}

	// All cells land under one registry lock so a render frame never shows a
	// half-updated cycle.
	p.registry.AppendAll(timestampMS, entries)
	for i, cell := range p.cfg.Cells {
		p.log.Debug("[%d ms] %s: %s", timestampMS, cell.Name, values[i])
	}
	p.logw.WriteRow(timestampMS, values)
}
