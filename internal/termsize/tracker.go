// Package termsize tracks the controlling terminal's geometry across
// asynchronous resize notifications.
package termsize

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/creack/pty"
)

// Size is the full terminal geometry, pixels included, so pixel-aware
// child programs reflow correctly.
type Size struct {
	Cols    uint16
	Rows    uint16
	XPixels uint16
	YPixels uint16
}

// Winsize converts to the pty package's window-size struct.
func (s Size) Winsize() *pty.Winsize {
	return &pty.Winsize{Rows: s.Rows, Cols: s.Cols, X: s.XPixels, Y: s.YPixels}
}

// Tracker holds the last known geometry plus a one-shot changed flag. The
// flag is set by Update/Refresh and cleared by the single Changed read the
// event loop performs per iteration.
type Tracker struct {
	size    Size
	changed atomic.Bool
}

// Refresh re-queries tty's current geometry and records it. The changed
// flag is only set when the size actually differs, so a redundant SIGWINCH
// does not trigger a resize forward.
func (t *Tracker) Refresh(tty *os.File) error {
	ws, err := pty.GetsizeFull(tty)
	if err != nil {
		return fmt.Errorf("query terminal size: %w", err)
	}
	t.Update(Size{Cols: ws.Cols, Rows: ws.Rows, XPixels: ws.X, YPixels: ws.Y})
	return nil
}

// Update records a new size, setting the changed flag if it differs.
func (t *Tracker) Update(s Size) {
	if s == t.size {
		return
	}
	t.size = s
	t.changed.Store(true)
}

// Size returns the last known geometry.
func (t *Tracker) Size() Size { return t.size }

// Changed reports and clears the one-shot flag.
func (t *Tracker) Changed() bool { return t.changed.Swap(false) }
