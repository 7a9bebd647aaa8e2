// Package ansifilter classifies and filters ANSI/VT escape sequences out of
// raw terminal byte streams. The filter is restartable: sequences split
// across read boundaries are left in the input buffer untouched until more
// bytes arrive, and the result is the same whether the stream arrives in
// one chunk or one byte at a time.
package ansifilter

import (
	"bytes"

	"ttytap/internal/bytebuf"
)

// Mode selects the keep/drop policy applied to classified sequences.
type Mode int

const (
	// ModeDefault drops query, status and mode-setting sequences and keeps
	// everything that produces visible output (colors, cursor movement,
	// the synchronized-update toggles).
	ModeDefault Mode = iota
	// ModeStripAll drops every escape construct, leaving text only.
	ModeStripAll
)

// Outcome reports why a Filter call returned.
type Outcome int

const (
	// Continue means the available input was fully handled; the caller
	// should supply more bytes (or assert end of input).
	Continue Outcome = iota
	// FrameBoundary means input starts with an erase-in-display sequence
	// (CSI final byte J). The sequence has been counted but not consumed;
	// the caller applies the keep/drop policy and resumes.
	FrameBoundary
)

const (
	esc = 0x1B
	bel = 0x07
)

// Run carries the state scoped to one filtering run: the policy, the frame
// counter and limit, and the scratch buffer used to render offending bytes
// in diagnostics. Independent runs never interfere.
type Run struct {
	Mode       Mode
	FrameLimit int // stop after this many frames; zero or negative means unlimited
	Frames     int // erase-in-display sequences seen so far

	quoted bytebuf.Buffer
}

// Filter drains classifiable bytes from in to out according to the run's
// policy. Plain text before the first ESC is transferred verbatim. The
// return values are:
//
//   - (Continue, 0, nil): in is either empty or holds an incomplete
//     sequence that needs more bytes (only when atEOF is false).
//   - (FrameBoundary, n, nil): in starts with an n-byte erase-in-display
//     sequence, reported but not consumed. Call ApplyBoundary, then Filter
//     again to resume.
//   - (_, _, err): an unsupported introducer, or an incomplete sequence
//     with atEOF asserted. in is left as it was.
//
// The loop is iterative on purpose: input made of many tiny sequences must
// not grow the stack.
func (r *Run) Filter(in, out *bytebuf.Buffer, atEOF bool) (Outcome, int, error) {
	for {
		data := in.Bytes()
		i := bytes.IndexByte(data, esc)
		if i < 0 {
			bytebuf.Transfer(out, in, len(data))
			return Continue, 0, nil
		}
		bytebuf.Transfer(out, in, i)

		data = in.Bytes()
		if len(data) < 3 {
			// Too short to classify. ESC 7 alone would fit in two bytes,
			// but a uniform three-byte minimum keeps the wait decision
			// independent of the introducer.
			return r.incomplete(data, atEOF)
		}

		switch data[1] {
		case '7', '8': // DECSC / DECRC
			if r.Mode == ModeStripAll {
				in.Consume(2)
			} else {
				bytebuf.Transfer(out, in, 2)
			}
		case '=', '>': // DECPAM / DECPNM
			in.Consume(2)
		case '(', ')': // SCS: fixed three bytes including the designator
			in.Consume(3)
		case '[': // CSI
			end := csiEnd(data)
			if end < 0 {
				return r.incomplete(data, atEOF)
			}
			n := end + 1
			if data[end] == 'J' {
				r.Frames++
				return FrameBoundary, n, nil
			}
			if r.keepCSI(data[:n]) {
				bytebuf.Transfer(out, in, n)
			} else {
				in.Consume(n)
			}
		case ']': // OSC: terminated by BEL or ST
			n := stringEnd(data, true)
			if n < 0 {
				return r.incomplete(data, atEOF)
			}
			in.Consume(n)
		case 'P': // DCS: terminated by ST
			n := stringEnd(data, false)
			if n < 0 {
				return r.incomplete(data, atEOF)
			}
			in.Consume(n)
		default:
			return Continue, 0, r.seqError("unsupported escape sequence", data)
		}
	}
}

// ApplyBoundary consumes or transfers the n-byte frame-boundary sequence a
// prior Filter call reported, per the run's policy.
func (r *Run) ApplyBoundary(in, out *bytebuf.Buffer, n int) {
	if r.keepCSI(in.Slice(0, n)) {
		bytebuf.Transfer(out, in, n)
	} else {
		in.Consume(n)
	}
}

// LimitReached reports whether the configured frame limit has been hit.
func (r *Run) LimitReached() bool {
	return r.FrameLimit > 0 && r.Frames >= r.FrameLimit
}

// keepCSI decides the policy for a complete CSI sequence (ESC [ ... final).
func (r *Run) keepCSI(seq []byte) bool {
	if r.Mode == ModeStripAll {
		return false
	}
	final := seq[len(seq)-1]
	if final == 'n' || final == 'c' {
		// Device status / attribute queries expect an answer nobody will
		// send during replay.
		return false
	}
	if seq[2] == '?' {
		// Private query/mode sequences, except the synchronized-update
		// toggles which prevent flicker on replay.
		s := string(seq)
		return s == "\x1b[?2026h" || s == "\x1b[?2026l"
	}
	return true
}

func (r *Run) incomplete(data []byte, atEOF bool) (Outcome, int, error) {
	if atEOF {
		return Continue, 0, r.seqError("unterminated escape sequence at end of input", data)
	}
	return Continue, 0, nil
}

// csiEnd returns the index of the final byte (0x40-0x7E) of a CSI sequence
// starting at data[0] == ESC, data[1] == '[', or -1 if it is not present
// yet. data has at least three bytes.
func csiEnd(data []byte) int {
	for i := 2; i < len(data); i++ {
		if data[i] >= 0x40 && data[i] <= 0x7E {
			return i
		}
	}
	return -1
}

// stringEnd returns the total length of an OSC or DCS construct starting
// at data[0] == ESC, including its terminator, or -1 if the terminator is
// not present yet. OSC accepts BEL as well as ST (ESC \); DCS only ST.
func stringEnd(data []byte, allowBEL bool) int {
	for i := 2; i < len(data); i++ {
		c := data[i]
		if allowBEL && c == bel {
			return i + 1
		}
		if c == esc {
			if i+1 >= len(data) {
				return -1 // ST possibly split across reads
			}
			if data[i+1] == '\\' {
				return i + 2
			}
		}
	}
	return -1
}
