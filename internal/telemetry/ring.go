package telemetry

import "math"

// DefaultCapacity is the default number of samples retained per channel.
const DefaultCapacity = 2000

// Sample is one polled reading: a millisecond timestamp on the elapsed clock
// plus the raw parsed value. The plot uses the magnitude; the legend, tooltip,
// and log file use the raw value.
type Sample struct {
	TimestampMS int64
	Value       float64
}

// Magnitude returns the absolute value of the sample, which is what gets plotted.
func (s Sample) Magnitude() float64 {
	return math.Abs(s.Value)
}

// ring is a fixed-size circular buffer of samples. When full, pushing evicts
// the oldest sample.
type ring struct {
	data  []Sample
	head  int
	count int
	size  int
}

// newRing creates a ring buffer with the specified capacity.
func newRing(size int) *ring {
	return &ring{
		data: make([]Sample, size),
		size: size,
	}
}

// push adds a sample to the ring buffer.
func (r *ring) push(s Sample) {
	r.data[r.head] = s
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// last returns the most recent sample and whether the buffer is non-empty.
func (r *ring) last() (Sample, bool) {
	if r.count == 0 {
		return Sample{}, false
	}
	idx := (r.head - 1 + r.size) % r.size
	return r.data[idx], true
}

// getAll returns all stored samples in chronological order (oldest first).
func (r *ring) getAll() []Sample {
	if r.count == 0 {
		return nil
	}

	result := make([]Sample, r.count)

	// head points to the next write position, so the oldest value is at
	// head-count (mod size)
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}

	return result
}

// clear empties the buffer without releasing its backing storage.
func (r *ring) clear() {
	r.head = 0
	r.count = 0
}
