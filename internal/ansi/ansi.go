// Package ansi holds the small escape-emitting helpers used by the
// recorder's HUD, and the cheap tail heuristic that decides whether it is
// safe to interleave the HUD with the child's output.
package ansi

import (
	"bytes"
	"strconv"

	"ttytap/internal/bytebuf"
)

// Escape sequences emitted by the HUD and the filter's pause mode.
const (
	SaveCursor    = "\x1b7"
	RestoreCursor = "\x1b8"
	HideCursor    = "\x1b[?25l"
	ShowCursor    = "\x1b[?25h"
	SyncStart     = "\x1b[?2026h" // synchronized-update begin
	SyncEnd       = "\x1b[?2026l" // synchronized-update end
	ClearScreen   = "\x1b[2J\x1b[H"
	Reset         = "\x1b[0m"
)

// MoveTo appends a cursor-position sequence for the zero-based cell
// (col, row); ANSI coordinates are one-based.
func MoveTo(b *bytebuf.Buffer, col, row int) {
	b.AppendString("\x1b[")
	b.AppendString(strconv.Itoa(row + 1))
	b.AppendByte(';')
	b.AppendString(strconv.Itoa(col + 1))
	b.AppendByte('H')
}

// IncompleteTail reports whether chunk appears to end mid escape sequence
// or mid multi-byte character. It inspects only the tail of the single
// chunk, not the cumulative stream: an empty chunk is complete, a trailing
// high byte is conservatively incomplete, and after the last ESC a letter
// must appear for the sequence to count as terminated.
//
// This is a heuristic, not a parser. It is wrong for constructs with
// non-alphabetic terminators (an OSC ended by BEL can read as incomplete),
// which only delays a HUD update by one chunk.
func IncompleteTail(chunk []byte) bool {
	if len(chunk) == 0 {
		return false
	}
	if chunk[len(chunk)-1] >= 0x80 {
		return true
	}
	last := bytes.LastIndexByte(chunk, 0x1B)
	if last < 0 {
		return false
	}
	for _, c := range chunk[last+1:] {
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			return false
		}
	}
	return true
}
