package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/serscope/serscope/internal/serial"
)

// runRaw sends the configured request each cycle and prints the raw response
// without parsing. In cell mode each cell's request is sent in turn.
func runRaw(flags *PollFlags, count int) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	port, err := serial.Open(cfg.Serial.Port, cfg.Serial.Baud)
	if err != nil {
		return err
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var requests []string
	if cfg.Poll.Request != "" {
		requests = []string{cfg.Poll.Request}
	} else {
		for _, c := range cfg.Poll.Cells {
			// Cell entries may carry a name prefix; only the address is sent.
			addr := c
			if i := lastColon(c); i >= 0 {
				addr = c[i+1:]
			}
			requests = append(requests, "?"+addr)
		}
	}

	interval := time.Duration(cfg.Poll.IntervalMS) * time.Millisecond
	start := time.Now()

	for reads := 0; count == 0 || reads < count; reads++ {
		for _, req := range requests {
			if err := port.Send([]byte(req + "\n")); err != nil {
				return err
			}
			time.Sleep(time.Duration(cfg.Poll.WaitMS) * time.Millisecond)
		}

		resp, err := port.ReadAvailable()
		if err != nil {
			return err
		}
		elapsed := time.Since(start).Seconds()
		fmt.Printf("%8.1fs  %s\n", elapsed, strconv.Quote(resp))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
	return nil
}

func lastColon(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			return i
		}
	}
	return -1
}
