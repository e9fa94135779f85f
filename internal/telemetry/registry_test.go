package telemetry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryColorAssignmentOrder(t *testing.T) {
	g := NewRegistry(10)

	g.GetOrCreate("V1", "10")
	g.GetOrCreate("V2", "20")
	g.GetOrCreate("V3", "30")

	assert.Equal(t, Palette[0], g.Color("V1"))
	assert.Equal(t, Palette[1], g.Color("V2"))
	assert.Equal(t, Palette[2], g.Color("V3"))

	// Re-registering must not consume another color
	g.GetOrCreate("V1", "10")
	assert.Equal(t, Palette[0], g.Color("V1"))
	assert.Equal(t, 3, g.Len())
}

func TestRegistryPaletteCycles(t *testing.T) {
	g := NewRegistry(10)

	for i := 0; i < len(Palette)+2; i++ {
		name := string(rune('a' + i))
		g.GetOrCreate(name, name)
	}

	// Overflow wraps back to the start of the palette
	assert.Equal(t, Palette[0], g.Color(string(rune('a'+len(Palette)))))
	assert.Equal(t, Palette[1], g.Color(string(rune('a'+len(Palette)+1))))
}

func TestRegistryAppendAndSnapshot(t *testing.T) {
	g := NewRegistry(10)

	g.Append("V1", "10", 0, 5)
	g.Append("V1", "10", 1000, -5)
	g.Append("V2", "20", 500, 3)

	snaps := g.Snapshot()
	require.Len(t, snaps, 2)

	// First-seen order
	assert.Equal(t, "V1", snaps[0].Name)
	assert.Equal(t, "V2", snaps[1].Name)

	require.Len(t, snaps[0].Samples, 2)
	assert.Equal(t, -5.0, snaps[0].Latest())
	assert.Equal(t, 3.0, snaps[1].Latest())
	assert.Equal(t, Palette[0], snaps[0].Color)
}

func TestRegistrySnapshotSkipsEmptyChannels(t *testing.T) {
	g := NewRegistry(10)

	g.GetOrCreate("empty", "1")
	g.Append("full", "2", 0, 1)

	snaps := g.Snapshot()
	require.Len(t, snaps, 1)
	assert.Equal(t, "full", snaps[0].Name)
}

func TestRegistryAppendByAddr(t *testing.T) {
	g := NewRegistry(10)

	// Pre-registered channel matched by address
	g.GetOrCreate("Voltage", "10")
	name := g.AppendByAddr("10", 0, 1.5)
	assert.Equal(t, "Voltage", name)
	assert.Equal(t, 1, g.Count("Voltage"))

	// Unknown address discovers a new channel named after it
	name = g.AppendByAddr("99", 0, 2.5)
	assert.Equal(t, "99", name)
	assert.Equal(t, Palette[1], g.Color("99"))
}

func TestRegistryAppendAll(t *testing.T) {
	g := NewRegistry(10)
	g.Append("Voltage", "10", 0, 1)

	names := g.AppendAll(100, []Entry{
		{Addr: "10", Value: 2},              // resolved to the existing channel
		{Addr: "20", Value: 3},              // discovered, named after the address
		{Name: "Temp", Addr: "30", Value: 4},
	})
	assert.Equal(t, []string{"Voltage", "20", "Temp"}, names)

	snaps := g.Snapshot()
	require.Len(t, snaps, 3)
	assert.Equal(t, 2, g.Count("Voltage"))
	assert.Equal(t, 2.0, snaps[0].Latest())
	assert.Equal(t, 3.0, snaps[1].Latest())
	assert.Equal(t, 4.0, snaps[2].Latest())
	assert.EqualValues(t, 100, snaps[2].Samples[0].TimestampMS)
}

func TestRegistryClearAllResetsColors(t *testing.T) {
	g := NewRegistry(10)

	g.Append("A", "1", 0, 1)
	g.Append("B", "2", 0, 2)
	assert.Equal(t, Palette[1], g.Color("B"))

	g.ClearAll()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Snapshot())

	// Rediscovery in a different order re-assigns colors from scratch
	g.Append("B", "2", 0, 2)
	g.Append("A", "1", 0, 1)
	assert.Equal(t, Palette[0], g.Color("B"))
	assert.Equal(t, Palette[1], g.Color("A"))
}

func TestRegistryRespectsCapacity(t *testing.T) {
	g := NewRegistry(3)

	for i := 0; i < 10; i++ {
		g.Append("V1", "10", int64(i), float64(i))
	}

	snaps := g.Snapshot()
	require.Len(t, snaps, 1)
	require.Len(t, snaps[0].Samples, 3)
	assert.Equal(t, int64(7), snaps[0].Samples[0].TimestampMS)
}

func TestRegistryDefaultCapacity(t *testing.T) {
	g := NewRegistry(0)
	assert.Equal(t, DefaultCapacity, g.capacity)

	g = NewRegistry(-5)
	assert.Equal(t, DefaultCapacity, g.capacity)
}

func TestRegistryConcurrentAppend(t *testing.T) {
	g := NewRegistry(100)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				g.Append("shared", "1", int64(i), float64(i))
				g.Snapshot()
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 100, g.Count("shared"))
}
