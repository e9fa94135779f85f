package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/serscope/serscope/internal/plot"
)

// runLog polls and logs without the display, printing one status line per
// interval until interrupted.
func runLog(flags *PollFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Polling %s @ %d every %dms", cfg.Serial.Port, cfg.Serial.Baud, cfg.Poll.IntervalMS)
	if cfg.Log.File != "" {
		fmt.Printf(", logging to %s", cfg.Log.File)
	}
	fmt.Println(". Ctrl+C to stop.")

	sess.poller.Start()

	interval := time.Duration(cfg.Poll.IntervalMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-ticker.C:
			fmt.Println(statusLine(sess))
		}
	}
}

// statusLine summarizes the latest value of every channel.
func statusLine(sess *session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%8.1fs", float64(sess.clock.ElapsedMS())/1000)
	for _, ch := range sess.registry.Snapshot() {
		fmt.Fprintf(&b, "  %s=%s", ch.Name, plot.FormatValue(ch.Latest()))
	}
	return b.String()
}
