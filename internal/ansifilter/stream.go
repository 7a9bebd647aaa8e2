package ansifilter

import (
	"fmt"
	"io"

	"ttytap/internal/bytebuf"
)

// DefaultBufSize is the read chunk size used when StreamOptions does not
// override it.
const DefaultBufSize = 64 * 1024

// StreamOptions configures one Stream run.
type StreamOptions struct {
	Mode       Mode
	FrameLimit int // stop after this many frames; zero or negative means unlimited
	BufSize    int // read chunk size; DefaultBufSize when <= 0

	// LastFrame, when non-nil, accumulates the bytes written since the most
	// recent frame boundary, so the caller can re-render the final frame.
	LastFrame *bytebuf.Buffer
}

// StreamStats reports the totals of a Stream run.
type StreamStats struct {
	Read    int64
	Written int64
	Frames  int
}

// Stream runs the read, filter, flush cycle from r to w until end of input,
// a fatal sequence, or the frame limit. When the limit stops the run, bytes
// up to and including the limiting boundary have been written (or dropped,
// per mode) and nothing beyond it has been consumed from the stream.
func Stream(r io.Reader, w io.Writer, opts StreamOptions) (StreamStats, error) {
	bufSize := opts.BufSize
	if bufSize <= 0 {
		bufSize = DefaultBufSize
	}
	in := bytebuf.New(bufSize)
	out := bytebuf.New(bufSize)
	run := &Run{Mode: opts.Mode, FrameLimit: opts.FrameLimit}

	var stats StreamStats
	flush := func() error {
		if out.Len() == 0 {
			return nil
		}
		if _, err := w.Write(out.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		stats.Written += int64(out.Len())
		if opts.LastFrame != nil {
			opts.LastFrame.Append(out.Bytes())
		}
		out.Reset()
		return nil
	}

	atEOF := false
	stopped := false
	for !stopped && !atEOF {
		n, err := in.ReadFrom(r, bufSize)
		if err == io.EOF {
			atEOF = true
		} else if err != nil {
			return stats, fmt.Errorf("read input: %w", err)
		}
		stats.Read += int64(n)

		for {
			outcome, boundary, ferr := run.Filter(in, out, atEOF)
			if ferr != nil {
				// Text classified before the fatal sequence still goes out.
				if err := flush(); err != nil {
					return stats, err
				}
				stats.Frames = run.Frames
				return stats, ferr
			}
			if outcome == Continue {
				break
			}
			// Flush what precedes the boundary, then start a fresh frame.
			if err := flush(); err != nil {
				return stats, err
			}
			if opts.LastFrame != nil {
				opts.LastFrame.Reset()
			}
			run.ApplyBoundary(in, out, boundary)
			if run.LimitReached() {
				stopped = true
				break
			}
		}
		if err := flush(); err != nil {
			return stats, err
		}
	}
	stats.Frames = run.Frames
	return stats, nil
}
