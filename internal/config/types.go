package config

// Config represents the complete .serscope.yaml configuration file.
type Config struct {
	// Serial connection settings.
	Serial SerialConfig `yaml:"serial" mapstructure:"serial"`

	// Poll controls the request cadence.
	Poll PollConfig `yaml:"poll" mapstructure:"poll"`

	// Log controls delimited-file output.
	Log LogConfig `yaml:"log" mapstructure:"log"`

	// Plot controls the live display.
	Plot PlotConfig `yaml:"plot" mapstructure:"plot"`

	// Debug enables raw-response logging for troubleshooting.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// SerialConfig defines the device and line settings.
type SerialConfig struct {
	// Port is the device path, e.g. /dev/ttyUSB0 or COM3.
	Port string `yaml:"port" mapstructure:"port"`

	// Baud is the line speed in bits per second.
	Baud int `yaml:"baud" mapstructure:"baud"`
}

// PollConfig controls how the device is queried.
type PollConfig struct {
	// IntervalMS is the time between poll cycles in milliseconds.
	IntervalMS int `yaml:"interval_ms" mapstructure:"interval_ms"`

	// WaitMS is the settle time after each per-cell request in milliseconds.
	WaitMS int `yaml:"wait_ms" mapstructure:"wait_ms"`

	// WarmupMS is a raw-read window before the first cycle, in milliseconds.
	// Zero skips it.
	WarmupMS int `yaml:"warmup_ms" mapstructure:"warmup_ms"`

	// Request is a single command sent each cycle. The response is
	// scanned for $addr:value tokens and channels are discovered from it.
	// Mutually exclusive with Cells.
	Request string `yaml:"request" mapstructure:"request"`

	// Cells lists named addresses queried individually each cycle,
	// as "Name:Addr" or bare "Addr" entries.
	Cells []string `yaml:"cells" mapstructure:"cells"`
}

// LogConfig controls the delimited output file.
type LogConfig struct {
	// File is the output path. Empty disables logging.
	File string `yaml:"file" mapstructure:"file"`
}

// PlotConfig controls the live display.
type PlotConfig struct {
	// Capacity is the number of samples retained per channel.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{
			Baud: 115200,
		},
		Poll: PollConfig{
			IntervalMS: 1000,
			WaitMS:     100,
		},
		Plot: PlotConfig{
			Capacity: 2000,
		},
	}
}
