package datalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/serscope/serscope/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	assert.Equal(t, "Time_ms, Values", Header(nil))
	assert.Equal(t, "Time_ms, V1, V2", Header([]string{"V1", "V2"}))
}

func TestFormatRow(t *testing.T) {
	tests := []struct {
		name   string
		ts     int64
		values []string
		want   string
	}{
		{"two values", 1500, []string{"123", "45"}, "1500, 123, 45"},
		{"single value", 0, []string{"7"}, "0, 7"},
		{"no values still writes a row", 2000, nil, "2000, "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRow(tt.ts, tt.values))
		})
	}
}

func TestWriterHeaderOnlyOnCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")

	w, err := Open(path, []string{"V1"}, logger.Noop())
	require.NoError(t, err)
	w.WriteRow(0, []string{"1"})
	require.NoError(t, w.Close())

	// Re-opening an existing file must not duplicate the header
	w, err = Open(path, []string{"V1"}, logger.Noop())
	require.NoError(t, err)
	w.WriteRow(1000, []string{"2"})
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Time_ms, V1\n0, 1\n1000, 2\n", string(data))
}

func TestWriterOpenFailure(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "log.csv"), nil, logger.Noop())
	assert.Error(t, err)
}

func TestNilWriterIsSafe(t *testing.T) {
	var w *Writer
	w.WriteRow(0, []string{"1"})
	assert.NoError(t, w.Close())
}

func TestWriteFailureDisablesWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	buf := logger.NewBufferLogger()

	w, err := Open(path, nil, buf)
	require.NoError(t, err)

	// Close the underlying file so the next write fails
	require.NoError(t, w.f.Close())
	w.WriteRow(0, []string{"1"})
	w.WriteRow(1, []string{"2"})

	assert.True(t, w.disabled)
	assert.True(t, buf.HasLevel("warn"))
	// Only the first failure is logged
	assert.Len(t, buf.Messages, 1)
}
