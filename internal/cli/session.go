package cli

import (
	"time"

	"github.com/serscope/serscope/internal/config"
	"github.com/serscope/serscope/internal/datalog"
	"github.com/serscope/serscope/internal/logger"
	"github.com/serscope/serscope/internal/poll"
	"github.com/serscope/serscope/internal/protocol"
	"github.com/serscope/serscope/internal/serial"
	"github.com/serscope/serscope/internal/telemetry"
)

// session is everything a polling command needs, wired together.
type session struct {
	cfg      *config.Config
	registry *telemetry.Registry
	clock    *telemetry.Clock
	poller   *poll.Poller
	logw     *datalog.Writer
}

// loadConfig loads, merges, and validates the effective configuration.
func loadConfig(flags *PollFlags) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return nil, err
	}
	flags.Merge(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession opens the serial port and log file and builds the poller.
func openSession(cfg *config.Config) (*session, error) {
	log := logger.Default()

	port, err := serial.Open(cfg.Serial.Port, cfg.Serial.Baud)
	if err != nil {
		return nil, err
	}

	cells := protocol.ParseCells(cfg.Poll.Cells)

	var columns []string
	for _, c := range cells {
		columns = append(columns, c.Name)
	}

	var logw *datalog.Writer
	if cfg.Log.File != "" {
		logw, err = datalog.Open(cfg.Log.File, columns, log)
		if err != nil {
			port.Close()
			return nil, err
		}
	}

	registry := telemetry.NewRegistry(cfg.Plot.Capacity)
	clock := telemetry.NewClock(nil)

	poller := poll.New(poll.Config{
		Interval:    time.Duration(cfg.Poll.IntervalMS) * time.Millisecond,
		RequestWait: time.Duration(cfg.Poll.WaitMS) * time.Millisecond,
		Warmup:      time.Duration(cfg.Poll.WarmupMS) * time.Millisecond,
		Request:     cfg.Poll.Request,
		Cells:       cells,
		Debug:       cfg.Debug,
	}, port, registry, clock, logw, log)

	return &session{
		cfg:      cfg,
		registry: registry,
		clock:    clock,
		poller:   poller,
		logw:     logw,
	}, nil
}

// Close stops polling and flushes the log file. The poller closes the port.
func (s *session) Close() error {
	s.poller.Stop()
	if s.logw != nil {
		return s.logw.Close()
	}
	return nil
}
