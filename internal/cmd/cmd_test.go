package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ttytap/internal/ansifilter"
	"ttytap/internal/bytebuf"
)

// runFilter executes the filter subcommand against an input file with a
// throwaway config so the user's real config never leaks into tests.
func runFilter(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TTYTAP_CONFIG", filepath.Join(t.TempDir(), "no-config.yaml"))

	in := filepath.Join(t.TempDir(), "input.rec")
	if err := os.WriteFile(in, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(append([]string{"filter"}, args...), in))
	err := root.Execute()
	return out.String(), err
}

func TestFilterDefaultKeepsStyling(t *testing.T) {
	got, err := runFilter(t, "a\x1b[31mred\x1b[0m\x1b[5nb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a\x1b[31mred\x1b[0mb" {
		t.Fatalf("expected styling kept and queries dropped, got %q", got)
	}
}

func TestFilterAllStripsEverything(t *testing.T) {
	got, err := runFilter(t, "a\x1b[31mred\x1b[0mb", "--all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "aredb" {
		t.Fatalf("expected plain text only, got %q", got)
	}
}

func TestFilterFrameLimit(t *testing.T) {
	got, err := runFilter(t, "one\x1b[2Jtwo\x1b[2Jthree", "--frames", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "one\x1b[2J" {
		t.Fatalf("expected stop after first frame, got %q", got)
	}
}

func TestFilterUnterminatedSequenceFails(t *testing.T) {
	got, err := runFilter(t, "ok\x1b[31")
	if err == nil {
		t.Fatal("expected an error for a truncated sequence")
	}
	var seqErr *ansifilter.SequenceError
	if !errors.As(err, &seqErr) {
		t.Fatalf("expected SequenceError, got %T: %v", err, err)
	}
	if got != "ok" {
		t.Fatalf("text before the failure must still be written, got %q", got)
	}
}

func TestFilterUnrecognizedEscapeFails(t *testing.T) {
	_, err := runFilter(t, "ab\x1b%Gcd")
	var seqErr *ansifilter.SequenceError
	if !errors.As(err, &seqErr) {
		t.Fatalf("expected SequenceError, got %T: %v", err, err)
	}
}

func TestFilterPauseRequiresFile(t *testing.T) {
	t.Setenv("TTYTAP_CONFIG", filepath.Join(t.TempDir(), "no-config.yaml"))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader("data"))
	root.SetArgs([]string{"filter", "--pause"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "--pause") {
		t.Fatalf("expected a pause-needs-file error, got %v", err)
	}
}

func TestFilterReadsStdin(t *testing.T) {
	t.Setenv("TTYTAP_CONFIG", filepath.Join(t.TempDir(), "no-config.yaml"))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader("pipe\x1b[0min"))
	root.SetArgs([]string{"filter", "--all"})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "pipein" {
		t.Fatalf("expected stripped stdin, got %q", out.String())
	}
}

func TestFilterMissingFile(t *testing.T) {
	t.Setenv("TTYTAP_CONFIG", filepath.Join(t.TempDir(), "no-config.yaml"))

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"filter", filepath.Join(t.TempDir(), "absent.rec")})
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "ttytap v") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("tty gone") }

func TestRedrawFrame(t *testing.T) {
	frame := bytebuf.New(16)
	frame.AppendString("\x1b[2Jlast frame")

	var out bytes.Buffer
	if err := redrawFrame(&out, frame); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "\x1b[2J\x1b[H\x1b[2Jlast frame" {
		t.Fatalf("unexpected redraw output %q", out.String())
	}

	// A failed redraw must surface instead of leaving the run blocked on a
	// keypress over a blank screen.
	if err := redrawFrame(failWriter{}, frame); err == nil {
		t.Fatal("expected an error from a failing writer")
	}
}

func TestChildExitError(t *testing.T) {
	err := &ChildExitError{Code: 2, Detail: "sleep killed by signal terminated"}
	if err.Error() != "sleep killed by signal terminated" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	var target *ChildExitError
	if !errors.As(error(err), &target) || target.Code != 2 {
		t.Fatal("errors.As must recover the exit code")
	}
}
