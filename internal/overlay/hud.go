// Package overlay renders the recorder's live statistics line (HUD): the
// last and cumulative byte counts for both directions, drawn inverse-video
// at the top-left of the screen without disturbing the child's output.
package overlay

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"ttytap/internal/ansi"
	"ttytap/internal/bytebuf"
)

// HUD draws the statistics overlay. The zero value is a disabled HUD.
type HUD struct {
	enabled bool
	ok      bool
	buf     bytebuf.Buffer
}

// New returns a HUD; when enabled is false every method is a no-op.
func New(enabled bool) *HUD {
	return &HUD{enabled: enabled, ok: enabled}
}

// Observe inspects the most recent child-output chunk and decides whether
// the next render is safe. Drawing over a half-emitted escape sequence or
// a split multi-byte character would corrupt the display, so the HUD stays
// silent until a chunk ends cleanly.
func (h *HUD) Observe(chunk []byte) {
	h.ok = h.enabled && !ansi.IncompleteTail(chunk)
}

// ShouldRender reports whether the HUD is enabled and the last observed
// chunk ended on a safe boundary.
func (h *HUD) ShouldRender() bool { return h.ok }

// Render writes the overlay to w: cursor saved and restored around a move
// to the top-left, the whole update wrapped in synchronized-update markers
// so it lands as one frame.
func (h *HUD) Render(w io.Writer, lastRead, totalRead, lastWritten, totalWritten int64) error {
	if !h.enabled {
		return nil
	}
	label := fmt.Sprintf(" R: %d (%d), W: %d (%d) ", lastRead, totalRead, lastWritten, totalWritten)

	h.buf.Reset()
	h.buf.AppendString(ansi.SyncStart)
	h.buf.AppendString(ansi.SaveCursor)
	ansi.MoveTo(&h.buf, 0, 0)
	// Fixed ANSI profile: the overlay goes to a terminal by construction,
	// and inverse video needs no color support.
	h.buf.AppendString(termenv.ANSI.String(label).Reverse().String())
	h.buf.AppendString(ansi.RestoreCursor)
	h.buf.AppendString(ansi.SyncEnd)

	if _, err := w.Write(h.buf.Bytes()); err != nil {
		return fmt.Errorf("render overlay: %w", err)
	}
	return nil
}
