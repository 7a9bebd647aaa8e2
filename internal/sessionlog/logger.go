// Package sessionlog writes structured JSONL entries describing recorder
// and filter runs. When disabled (w is nil), all methods are no-ops, so
// callers never have to branch on whether logging is configured.
package sessionlog

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger appends one JSON object per event to a log file.
// All methods are safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	w         *os.File
	sessionID string
}

// New creates a Logger that appends to logPath under a fresh session ID.
// If enabled is false or the file cannot be opened, returns a no-op logger
// (safe to call methods on).
func New(enabled bool, logPath string) *Logger {
	if !enabled {
		return &Logger{}
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &Logger{}
	}
	return &Logger{w: f, sessionID: uuid.New().String()}
}

// Nop returns a disabled logger. All methods are no-ops.
func Nop() *Logger {
	return &Logger{}
}

// SessionID returns the ID stamped on every entry; empty when disabled.
func (l *Logger) SessionID() string { return l.sessionID }

// entry is the common envelope for all log lines.
type entry struct {
	Timestamp string `json:"ts"`
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
}

// RecordStart logs the spawn of a recorded child.
func (l *Logger) RecordStart(command string, args []string, pid int, cols, rows uint16) {
	l.log(struct {
		entry
		Command string   `json:"command"`
		Args    []string `json:"args,omitempty"`
		PID     int      `json:"pid"`
		Cols    uint16   `json:"cols"`
		Rows    uint16   `json:"rows"`
	}{
		entry:   l.entry("record_start"),
		Command: command,
		Args:    args,
		PID:     pid,
		Cols:    cols,
		Rows:    rows,
	})
}

// Resize logs a terminal-size change forwarded to the child pty.
func (l *Logger) Resize(cols, rows uint16) {
	l.log(struct {
		entry
		Cols uint16 `json:"cols"`
		Rows uint16 `json:"rows"`
	}{
		entry: l.entry("resize"),
		Cols:  cols,
		Rows:  rows,
	})
}

// ChildExit logs the child's termination. signal is empty for a normal exit.
func (l *Logger) ChildExit(code int, signal string) {
	l.log(struct {
		entry
		Code   int    `json:"code"`
		Signal string `json:"signal,omitempty"`
	}{
		entry:  l.entry("child_exit"),
		Code:   code,
		Signal: signal,
	})
}

// Summary logs cumulative byte counters at the end of a recording session.
func (l *Logger) Summary(read, written int64) {
	l.log(struct {
		entry
		Read    int64 `json:"read_bytes"`
		Written int64 `json:"written_bytes"`
	}{
		entry:   l.entry("summary"),
		Read:    read,
		Written: written,
	})
}

// FilterRun logs the outcome of one filter invocation.
func (l *Logger) FilterRun(input, mode string, frames int, read, written int64) {
	l.log(struct {
		entry
		Input   string `json:"input"`
		Mode    string `json:"mode"`
		Frames  int    `json:"frames"`
		Read    int64  `json:"read_bytes"`
		Written int64  `json:"written_bytes"`
	}{
		entry:   l.entry("filter_run"),
		Input:   input,
		Mode:    mode,
		Frames:  frames,
		Read:    read,
		Written: written,
	})
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	if l.w == nil {
		return nil
	}
	return l.w.Close()
}

func (l *Logger) entry(event string) entry {
	return entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		SessionID: l.sessionID,
		Event:     event,
	}
}

func (l *Logger) log(v any) {
	if l.w == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	data = append(data, '\n')
	l.mu.Lock()
	l.w.Write(data)
	l.mu.Unlock()
}
