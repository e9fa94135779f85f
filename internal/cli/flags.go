package cli

import (
	"github.com/serscope/serscope/internal/config"
	"github.com/spf13/cobra"
)

// PollFlags holds the device and polling flags shared by plot, log, and raw.
type PollFlags struct {
	Port     string
	Baud     int
	Interval int
	Wait     int
	Warmup   int
	File     string
	Request  string
	Cells    []string
	Capacity int
}

// AddPollFlags registers the shared device and polling flags on a command.
func AddPollFlags(cmd *cobra.Command, flags *PollFlags) {
	cmd.Flags().StringVar(&flags.Port, "port", "", "serial device, e.g. /dev/ttyUSB0 or COM3")
	cmd.Flags().IntVar(&flags.Baud, "baud", 0, "baud rate (default 115200)")
	cmd.Flags().IntVar(&flags.Interval, "interval", 0, "poll interval in milliseconds (default 1000)")
	cmd.Flags().IntVar(&flags.Wait, "wait", 0, "per-request settle time in milliseconds (default 100)")
	cmd.Flags().IntVar(&flags.Warmup, "warmup", 0, "raw-read window before polling starts, in milliseconds")
	cmd.Flags().StringVar(&flags.File, "file", "", "log file path")
	cmd.Flags().StringVar(&flags.Request, "request", "", "single command sent each cycle")
	cmd.Flags().StringSliceVar(&flags.Cells, "cell", nil, "cell to query, as Name:Addr or Addr (repeatable)")
	cmd.Flags().IntVar(&flags.Capacity, "capacity", 0, "samples retained per channel (default 2000)")
}

// Merge overlays set flags onto a loaded config. Flags win over the file.
func (f *PollFlags) Merge(cfg *config.Config) {
	if f.Port != "" {
		cfg.Serial.Port = f.Port
	}
	if f.Baud != 0 {
		cfg.Serial.Baud = f.Baud
	}
	if f.Interval != 0 {
		cfg.Poll.IntervalMS = f.Interval
	}
	if f.Wait != 0 {
		cfg.Poll.WaitMS = f.Wait
	}
	if f.Warmup != 0 {
		cfg.Poll.WarmupMS = f.Warmup
	}
	if f.File != "" {
		cfg.Log.File = f.File
	}
	if f.Request != "" {
		cfg.Poll.Request = f.Request
		cfg.Poll.Cells = nil
	}
	if len(f.Cells) > 0 {
		cfg.Poll.Cells = f.Cells
		cfg.Poll.Request = ""
	}
	if f.Capacity != 0 {
		cfg.Plot.Capacity = f.Capacity
	}
	if debugFlag {
		cfg.Debug = true
	}
}
