package config

import (
	"fmt"

	"github.com/serscope/serscope/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Serial.Port == "" {
		return errors.New(errors.ErrConfig,
			"No serial port configured",
			"Set serial.port in "+ConfigFileName+" or pass --port")
	}

	if cfg.Serial.Baud <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid baud rate: %d", cfg.Serial.Baud),
			"Use a standard rate like 9600 or 115200")
	}

	if cfg.Poll.IntervalMS <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid poll interval: %dms", cfg.Poll.IntervalMS),
			"poll.interval_ms must be a positive number of milliseconds")
	}

	if cfg.Poll.WaitMS < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid request wait: %dms", cfg.Poll.WaitMS),
			"poll.wait_ms must not be negative")
	}

	if cfg.Poll.WarmupMS < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid warmup window: %dms", cfg.Poll.WarmupMS),
			"poll.warmup_ms must not be negative")
	}

	if cfg.Poll.Request != "" && len(cfg.Poll.Cells) > 0 {
		return errors.New(errors.ErrConfig,
			"Both poll.request and poll.cells are set",
			"Configure either a single request command or a cell list, not both")
	}

	if cfg.Poll.Request == "" && len(cfg.Poll.Cells) == 0 {
		return errors.New(errors.ErrConfig,
			"Nothing to poll",
			"Set poll.request or list addresses under poll.cells")
	}

	if cfg.Plot.Capacity <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid plot capacity: %d", cfg.Plot.Capacity),
			"plot.capacity must be a positive sample count")
	}

	return nil
}
