package cli

import (
	"github.com/serscope/serscope/internal/tui"
)

// runPlot starts the live plot display. Polling begins when the display
// starts and stops when it exits.
func runPlot(flags *PollFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	m := tui.NewModel(sess.poller, sess.registry, sess.clock, cfg.Serial.Port, cfg.Serial.Baud)
	return tui.Run(m)
}
