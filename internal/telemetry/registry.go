package telemetry

import "sync"

// Palette is the fixed channel color cycle, assigned in first-seen order.
// Colors repeat once the palette is exhausted.
var Palette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff", "#9a6324", "#fffac8", "#800000",
}

// channel holds one telemetry series: the device address it is polled from,
// its assigned display color, and its sample ring.
type channel struct {
	name  string
	addr  string
	color string
	buf   *ring
}

// ChannelSnapshot is a consistent copy of one channel's state, taken under the
// registry lock. Samples are in chronological order.
type ChannelSnapshot struct {
	Name    string
	Addr    string
	Color   string
	Samples []Sample
}

// Latest returns the most recent raw value, or 0 if the channel is empty.
func (c ChannelSnapshot) Latest() float64 {
	if len(c.Samples) == 0 {
		return 0
	}
	return c.Samples[len(c.Samples)-1].Value
}

// Registry maps channel names to their sample buffers and display colors.
//
// All mutations and all reads go through one registry-wide mutex so a render
// frame always observes a consistent cross-channel state: a poll cycle's
// appends are never half-visible.
type Registry struct {
	mu        sync.RWMutex
	capacity  int
	order     []string // first-seen order, drives color assignment and iteration
	channels  map[string]*channel
	nextColor int
}

// NewRegistry creates a registry whose channels retain up to capacity samples.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		capacity: capacity,
		channels: make(map[string]*channel),
	}
}

// GetOrCreate registers a channel on first sight, assigning the next palette
// color. Repeat calls return the existing channel untouched.
func (g *Registry) GetOrCreate(name, addr string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.getOrCreate(name, addr)
}

// Append adds a sample to the named channel, registering it first if needed.
func (g *Registry) Append(name, addr string, timestampMS int64, value float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch := g.getOrCreate(name, addr)
	ch.buf.push(Sample{TimestampMS: timestampMS, Value: value})
}

// AppendByAddr adds a sample to the channel polled from the given device
// address. An unknown address registers a new channel named after it; this is
// how custom-request mode discovers channels at runtime.
func (g *Registry) AppendByAddr(addr string, timestampMS int64, value float64) (name string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	name = g.nameByAddrLocked(addr)
	ch := g.getOrCreate(name, addr)
	ch.buf.push(Sample{TimestampMS: timestampMS, Value: value})
	return name
}

// Entry is one sample destined for a channel in a batch append. An empty Name
// resolves the channel by address, registering a new channel named after the
// address on first sight.
type Entry struct {
	Name  string
	Addr  string
	Value float64
}

// AppendAll adds one sample per entry under a single lock acquisition, so a
// concurrent Snapshot observes either none or all of a poll cycle's samples.
// Returns the resolved channel names in entry order.
func (g *Registry) AppendAll(timestampMS int64, entries []Entry) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, len(entries))
	for i, e := range entries {
		name := e.Name
		if name == "" {
			name = g.nameByAddrLocked(e.Addr)
		}
		ch := g.getOrCreate(name, e.Addr)
		ch.buf.push(Sample{TimestampMS: timestampMS, Value: e.Value})
		names[i] = name
	}
	return names
}

// Snapshot returns a consistent copy of every channel that has at least one
// sample, in first-seen order. One lock acquisition covers the whole frame.
func (g *Registry) Snapshot() []ChannelSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var snaps []ChannelSnapshot
	for _, name := range g.order {
		ch := g.channels[name]
		samples := ch.buf.getAll()
		if len(samples) == 0 {
			continue
		}
		snaps = append(snaps, ChannelSnapshot{
			Name:    ch.name,
			Addr:    ch.addr,
			Color:   ch.color,
			Samples: samples,
		})
	}
	return snaps
}

// Color returns the display color assigned to a channel, or "" if unknown.
func (g *Registry) Color(name string) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if ch, ok := g.channels[name]; ok {
		return ch.color
	}
	return ""
}

// Len returns the number of registered channels.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.channels)
}

// Count returns the number of samples held for a channel.
func (g *Registry) Count(name string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if ch, ok := g.channels[name]; ok {
		return ch.buf.count
	}
	return 0
}

// ClearAll drops every channel and resets the color cursor. After a restart,
// colors are re-assigned in whatever order channels are rediscovered.
func (g *Registry) ClearAll() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.order = nil
	g.channels = make(map[string]*channel)
	g.nextColor = 0
}

// nameByAddrLocked maps a device address to its channel name, falling back to
// the address itself for channels not yet registered. Must be called with
// g.mu held.
func (g *Registry) nameByAddrLocked(addr string) string {
	for _, n := range g.order {
		if g.channels[n].addr == addr {
			return n
		}
	}
	return addr
}

// getOrCreate must be called with g.mu held.
func (g *Registry) getOrCreate(name, addr string) *channel {
	if ch, ok := g.channels[name]; ok {
		return ch
	}

	ch := &channel{
		name:  name,
		addr:  addr,
		color: Palette[g.nextColor%len(Palette)],
		buf:   newRing(g.capacity),
	}
	g.nextColor++
	g.channels[name] = ch
	g.order = append(g.order, name)
	return ch
}
