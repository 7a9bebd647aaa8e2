package sessionlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoggerWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	l := New(true, path)
	if l.SessionID() == "" {
		t.Fatal("expected a session ID on an enabled logger")
	}
	l.RecordStart("vim", []string{"notes.txt"}, 1234, 80, 24)
	l.Summary(10, 20)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var events []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e struct {
			Timestamp string `json:"ts"`
			SessionID string `json:"session_id"`
			Event     string `json:"event"`
		}
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("bad JSON line %q: %v", sc.Text(), err)
		}
		if e.Timestamp == "" || e.SessionID != l.SessionID() {
			t.Fatalf("bad envelope: %+v", e)
		}
		events = append(events, e.Event)
	}
	if len(events) != 2 || events[0] != "record_start" || events[1] != "summary" {
		t.Fatalf("unexpected events: %v", events)
	}
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	l := Nop()
	l.RecordStart("x", nil, 1, 80, 24)
	l.Resize(100, 40)
	l.ChildExit(0, "")
	l.Summary(0, 0)
	l.FilterRun("stdin", "default", 0, 0, 0)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if l.SessionID() != "" {
		t.Fatal("disabled logger must not have a session ID")
	}
}

func TestOpenFailureYieldsNoop(t *testing.T) {
	l := New(true, filepath.Join(t.TempDir(), "missing", "dir", "log"))
	l.Summary(1, 2) // must not panic
	if l.SessionID() != "" {
		t.Fatal("expected no-op logger when the file cannot be opened")
	}
}
