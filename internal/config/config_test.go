package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/serscope/serscope/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
serial:
  port: /dev/ttyUSB0
  baud: 9600
poll:
  interval_ms: 500
  wait_ms: 50
  cells:
    - "V1:10"
    - "V2:20"
log:
  file: run.csv
plot:
  capacity: 500
debug: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.Baud)
	assert.Equal(t, 500, cfg.Poll.IntervalMS)
	assert.Equal(t, 50, cfg.Poll.WaitMS)
	assert.Equal(t, []string{"V1:10", "V2:20"}, cfg.Poll.Cells)
	assert.Equal(t, "run.csv", cfg.Log.File)
	assert.Equal(t, 500, cfg.Plot.Capacity)
	assert.True(t, cfg.Debug)
}

func TestLoadPartialConfigMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
serial:
  port: COM3
poll:
  request: GETALL
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "COM3", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, 1000, cfg.Poll.IntervalMS)
	assert.Equal(t, 100, cfg.Poll.WaitMS)
	assert.Equal(t, 2000, cfg.Plot.Capacity)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "serial: [not\n  a: map\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, 115200, cfg.Serial.Baud)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Serial.Port = "/dev/ttyUSB0"
		cfg.Poll.Request = "GETALL"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid request mode",
			mutate: func(c *Config) {},
		},
		{
			name: "valid cell mode",
			mutate: func(c *Config) {
				c.Poll.Request = ""
				c.Poll.Cells = []string{"V1:10"}
			},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Serial.Port = "" },
			wantErr: "No serial port",
		},
		{
			name:    "bad baud",
			mutate:  func(c *Config) { c.Serial.Baud = 0 },
			wantErr: "Invalid baud rate",
		},
		{
			name:    "bad interval",
			mutate:  func(c *Config) { c.Poll.IntervalMS = -1 },
			wantErr: "Invalid poll interval",
		},
		{
			name:    "negative wait",
			mutate:  func(c *Config) { c.Poll.WaitMS = -1 },
			wantErr: "Invalid request wait",
		},
		{
			name:    "negative warmup",
			mutate:  func(c *Config) { c.Poll.WarmupMS = -1 },
			wantErr: "Invalid warmup window",
		},
		{
			name: "both modes set",
			mutate: func(c *Config) {
				c.Poll.Cells = []string{"V1:10"}
			},
			wantErr: "Both poll.request and poll.cells",
		},
		{
			name: "neither mode set",
			mutate: func(c *Config) {
				c.Poll.Request = ""
			},
			wantErr: "Nothing to poll",
		},
		{
			name:    "bad capacity",
			mutate:  func(c *Config) { c.Plot.Capacity = 0 },
			wantErr: "Invalid plot capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
