// Package datalog appends one delimited row per poll cycle to a log file.
//
// Logging is best-effort by policy: a write failure disables the writer for
// the rest of the run but never interrupts polling.
package datalog

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/serscope/serscope/internal/errors"
	"github.com/serscope/serscope/internal/logger"
)

// Writer appends timestamped value rows to a log file.
// A nil *Writer is valid and discards all rows.
type Writer struct {
	mu       sync.Mutex
	f        *os.File
	disabled bool
	log      logger.Logger
}

// Open opens (or creates) the log file in append mode. The header row is
// written only when the file is created, so restarted runs keep appending to
// one continuous log. columns lists the named cells in poll order; with no
// configured cells (custom-request mode) the header is a generic "Values".
func Open(path string, columns []string, log logger.Logger) (*Writer, error) {
	if log == nil {
		log = logger.Noop()
	}

	_, statErr := os.Stat(path)
	existed := statErr == nil

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrLog,
			"Cannot open log file "+path,
			"Check the directory exists and is writable")
	}

	w := &Writer{f: f, log: log}
	if !existed {
		w.writeLine(Header(columns))
	}
	return w, nil
}

// Header returns the header row for the given column names.
func Header(columns []string) string {
	if len(columns) == 0 {
		return "Time_ms, Values"
	}
	return "Time_ms, " + strings.Join(columns, ", ")
}

// FormatRow renders one log row: the timestamp followed by the comma-joined
// values. An empty value set still produces a row so every cycle is visible
// in the log.
func FormatRow(timestampMS int64, values []string) string {
	if len(values) == 0 {
		return fmt.Sprintf("%d, ", timestampMS)
	}
	return fmt.Sprintf("%d, %s", timestampMS, strings.Join(values, ", "))
}

// WriteRow appends one cycle's row. Failures disable the writer and are
// surfaced once through the logger; polling is never interrupted.
func (w *Writer) WriteRow(timestampMS int64, values []string) {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disabled {
		return
	}
	w.writeLine(FormatRow(timestampMS, values))
}

// writeLine must be called with w.mu held (or before the writer is shared).
func (w *Writer) writeLine(line string) {
	if _, err := w.f.WriteString(line + "\n"); err != nil {
		w.disabled = true
		w.log.Warn("log write failed, logging disabled: %v", err)
	}
}

// Close flushes and closes the log file. Safe on a nil writer.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return w.f.Close()
}
