// Package mux spawns a child process in a pseudo-terminal and runs the
// bidirectional copy loop between it and the controlling terminal:
// keyboard input goes to the child, child output goes to the screen and,
// when configured, byte-for-byte to an append-only recording sink.
package mux

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"github.com/gofrs/flock"
	"golang.org/x/term"

	"ttytap/internal/overlay"
	"ttytap/internal/sessionlog"
	"ttytap/internal/termsize"
)

const ioChunk = 32 * 1024

// Session runs one child under a pty. Configure the exported fields, then
// call Run once.
type Session struct {
	Command string
	Args    []string

	Stdin  io.Reader // controlling input; defaults to os.Stdin
	Stdout io.Writer // controlling output; defaults to os.Stdout

	HUD        bool               // render the live statistics overlay
	RecordPath string             // append raw child output here; empty disables
	Log        *sessionlog.Logger // nil disables activity logging

	ptm    *os.File
	cmd    *exec.Cmd
	record *os.File
	lock   *flock.Flock
	hud    *overlay.HUD
	size   termsize.Tracker

	totalRead    int64 // bytes forwarded from controlling input to the child
	totalWritten int64 // bytes forwarded from the child to controlling output
}

// Result describes how the session ended. Setup and I/O failures are
// returned as errors instead.
type Result struct {
	ExitCode     int    // mapped exit code: 0 ok, 1 child exited nonzero, 2 child killed by signal
	ChildCode    int    // the child's own exit code for a normal exit
	Signal       string // signal name when the child was killed, else empty
	TotalRead    int64
	TotalWritten int64
}

// chunk is one read delivered by a reader goroutine. A non-nil err is
// always the goroutine's last delivery.
type chunk struct {
	data []byte
	err  error
}

// Run spawns the child and blocks until it terminates. The event loop is a
// single goroutine owning the pty master, the output stream, the recording
// sink and all counters; the two blocking reads are delegated to goroutines
// that deliver chunks over channels, so a resize or child exit can never be
// missed while the loop is idle.
//
// The input reader goroutine can outlive Run: it stays blocked on its read
// (or on the channel send, discarding at most one chunk) until its Reader
// yields an error. Callers embedding a Session in a long-lived process
// should hand it a closable input and close it after Run returns.
func (s *Session) Run() (*Result, error) {
	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Log == nil {
		s.Log = sessionlog.Nop()
	}
	s.hud = overlay.New(s.HUD)

	// Size the child's pty from the controlling terminal. Non-terminal
	// callers (pipes, tests) get the conventional 80x24.
	stdinFile, _ := s.Stdin.(*os.File)
	interactive := stdinFile != nil && term.IsTerminal(int(stdinFile.Fd()))
	if interactive {
		if err := s.size.Refresh(stdinFile); err != nil {
			return nil, err
		}
	} else {
		s.size.Update(termsize.Size{Cols: 80, Rows: 24})
	}
	s.size.Changed() // the initial size is not a resize

	if s.RecordPath != "" {
		if err := s.openRecord(); err != nil {
			return nil, err
		}
		defer s.closeRecord()
	}

	s.cmd = exec.Command(s.Command, s.Args...)
	var err error
	s.ptm, err = pty.StartWithSize(s.cmd, s.size.Size().Winsize())
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", s.Command, err)
	}
	defer s.ptm.Close()

	sz := s.size.Size()
	s.Log.RecordStart(s.Command, s.Args, s.cmd.Process.Pid, sz.Cols, sz.Rows)

	// Raw mode so every keystroke passes through unmodified.
	if interactive {
		restore, err := term.MakeRaw(int(stdinFile.Fd()))
		if err != nil {
			return nil, fmt.Errorf("set raw mode: %w", err)
		}
		defer func() {
			term.Restore(int(stdinFile.Fd()), restore)
			io.WriteString(s.Stdout, "\x1b[?25h\x1b[0m")
		}()
	}

	winchCh := make(chan os.Signal, 1)
	if interactive {
		signal.Notify(winchCh, syscall.SIGWINCH)
		defer signal.Stop(winchCh)
	}

	stdinCh := make(chan chunk, 1)
	go readLoop(s.Stdin, stdinCh)
	ptyCh := make(chan chunk, 1)
	go readLoop(s.ptm, ptyCh)
	waitCh := make(chan error, 1)
	go func() { waitCh <- s.cmd.Wait() }()

	var waitErr error
	waited := false
	done := false
	for !done {
		select {
		case <-winchCh:
			s.forwardResize(stdinFile)

		case c := <-stdinCh:
			if len(c.data) > 0 {
				if werr := writeAll(s.ptm, c.data); werr != nil {
					return nil, fmt.Errorf("write to pty: %w", werr)
				}
				s.totalRead += int64(len(c.data))
				s.renderHUD(int64(len(c.data)), 0)
			}
			if c.err != nil {
				// EOF on controlling input only stops monitoring it; the
				// loop keeps servicing child output.
				stdinCh = nil
			}

		case c := <-ptyCh:
			if len(c.data) > 0 {
				if _, werr := s.Stdout.Write(c.data); werr != nil {
					return nil, fmt.Errorf("write to output: %w", werr)
				}
				if s.record != nil {
					if _, werr := s.record.Write(c.data); werr != nil {
						return nil, fmt.Errorf("write recording: %w", werr)
					}
				}
				s.totalWritten += int64(len(c.data))
				s.hud.Observe(c.data)
				s.renderHUD(0, int64(len(c.data)))
			}
			if c.err != nil {
				// EOF or EIO on the pty is the authoritative termination
				// signal: it fires only once the child and any descendants
				// holding the pty have all exited.
				if !waited {
					waitErr = <-waitCh
				}
				done = true
			}

		case waitErr = <-waitCh:
			// Child reaped, but the pty may still hold undrained output.
			// Keep looping; the session leader's exit hangs up the pty, so
			// the master read fails as soon as the backlog is drained, even
			// when an orphaned descendant still holds a slave handle.
			waited = true
			waitCh = nil
		}
	}

	code, sig := classifyWait(waitErr)
	res := &Result{
		ChildCode:    code,
		Signal:       sig,
		TotalRead:    s.totalRead,
		TotalWritten: s.totalWritten,
	}
	switch {
	case sig != "":
		res.ExitCode = 2
	case code != 0:
		res.ExitCode = 1
	}
	s.Log.ChildExit(code, sig)
	s.Log.Summary(s.totalRead, s.totalWritten)
	return res, nil
}

// readLoop delivers reads from r until the first error, which is sent
// along with any final bytes.
func readLoop(r io.Reader, ch chan<- chunk) {
	for {
		buf := make([]byte, ioChunk)
		n, err := r.Read(buf)
		ch <- chunk{data: buf[:n], err: err}
		if err != nil {
			return
		}
	}
}

// writeAll retries partial and interrupted writes; any other failure is
// fatal to the session.
func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		p = p[n:]
		if err != nil && !errors.Is(err, syscall.EINTR) {
			return err
		}
	}
	return nil
}

// forwardResize re-queries the controlling terminal and, if the geometry
// actually changed, applies it to the child pty.
func (s *Session) forwardResize(tty *os.File) {
	if tty == nil {
		return
	}
	if err := s.size.Refresh(tty); err != nil {
		return
	}
	if !s.size.Changed() {
		return
	}
	sz := s.size.Size()
	if err := pty.Setsize(s.ptm, sz.Winsize()); err != nil {
		return
	}
	s.Log.Resize(sz.Cols, sz.Rows)
}

func (s *Session) renderHUD(lastRead, lastWritten int64) {
	if !s.hud.ShouldRender() {
		return
	}
	s.hud.Render(s.Stdout, lastRead, s.totalRead, lastWritten, s.totalWritten)
}

// classifyWait maps cmd.Wait's error to the child's exit code and, when it
// was killed, the signal name.
func classifyWait(err error) (code int, signal string) {
	if err == nil {
		return 0, ""
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return ee.ExitCode(), ws.Signal().String()
		}
		return ee.ExitCode(), ""
	}
	// Wait itself failed; treat like a nonzero exit.
	return 1, ""
}

// openRecord opens the append-only recording sink under an advisory lock,
// so two sessions never interleave writes into the same file. Append mode
// keeps earlier recordings intact across repeated runs.
func (s *Session) openRecord() error {
	lk := flock.New(s.RecordPath)
	locked, err := lk.TryLock()
	if err != nil {
		return fmt.Errorf("lock recording file: %w", err)
	}
	if !locked {
		return fmt.Errorf("recording file %s is in use by another session", s.RecordPath)
	}
	f, err := os.OpenFile(s.RecordPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		lk.Unlock()
		return fmt.Errorf("open recording file: %w", err)
	}
	s.lock = lk
	s.record = f
	return nil
}

func (s *Session) closeRecord() {
	if s.record != nil {
		s.record.Close()
		s.record = nil
	}
	if s.lock != nil {
		s.lock.Unlock()
		s.lock = nil
	}
}
