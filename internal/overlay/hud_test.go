package overlay

import (
	"bytes"
	"strings"
	"testing"

	"ttytap/internal/ansifilter"
)

func TestDisabledHUDRendersNothing(t *testing.T) {
	h := New(false)
	var out bytes.Buffer
	if err := h.Render(&out, 1, 2, 3, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("disabled HUD wrote %q", out.Bytes())
	}
	if h.ShouldRender() {
		t.Fatal("disabled HUD must never want to render")
	}
}

func TestRenderContents(t *testing.T) {
	h := New(true)
	var out bytes.Buffer
	if err := h.Render(&out, 5, 10, 7, 21); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "R: 5 (10), W: 7 (21)") {
		t.Fatalf("missing counters in %q", got)
	}
	if !strings.HasPrefix(got, "\x1b[?2026h\x1b7") {
		t.Fatalf("expected sync-start then save-cursor prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "\x1b8\x1b[?2026l") {
		t.Fatalf("expected restore-cursor then sync-end suffix, got %q", got)
	}
	if !strings.Contains(got, "\x1b[7m") {
		t.Fatalf("expected inverse video, got %q", got)
	}
}

func TestRenderSurvivesDefaultFiltering(t *testing.T) {
	h := New(true)
	var rendered bytes.Buffer
	if err := h.Render(&rendered, 5, 10, 7, 21); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A recording that contains HUD frames must replay cleanly: the default
	// mode keeps every sequence the overlay emits.
	var kept bytes.Buffer
	if _, err := ansifilter.Stream(bytes.NewReader(rendered.Bytes()), &kept, ansifilter.StreamOptions{
		Mode: ansifilter.ModeDefault,
	}); err != nil {
		t.Fatalf("default filter: %v", err)
	}
	if !bytes.Equal(kept.Bytes(), rendered.Bytes()) {
		t.Fatalf("default mode altered the overlay:\nin  %q\nout %q", rendered.Bytes(), kept.Bytes())
	}

	// Strip-all reduces the same bytes to the statistics text alone.
	var stripped bytes.Buffer
	if _, err := ansifilter.Stream(bytes.NewReader(rendered.Bytes()), &stripped, ansifilter.StreamOptions{
		Mode: ansifilter.ModeStripAll,
	}); err != nil {
		t.Fatalf("strip-all filter: %v", err)
	}
	if stripped.String() != " R: 5 (10), W: 7 (21) " {
		t.Fatalf("strip-all left %q", stripped.String())
	}
}

func TestObserveGatesOnChunkTail(t *testing.T) {
	h := New(true)
	if !h.ShouldRender() {
		t.Fatal("enabled HUD starts renderable")
	}
	h.Observe([]byte("output\x1b[31"))
	if h.ShouldRender() {
		t.Fatal("split sequence must suppress rendering")
	}
	h.Observe([]byte("output\x1b[31m"))
	if !h.ShouldRender() {
		t.Fatal("complete chunk re-enables rendering")
	}
}
