package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("TTYTAP_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HUD || cfg.RecordPath != "" || cfg.LogPath != "" {
		t.Fatalf("expected zero defaults, got %+v", cfg)
	}
	if cfg.BufferSize != 64*1024 {
		t.Fatalf("expected default buffer size, got %d", cfg.BufferSize)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "hud: true\nrecord_path: /tmp/sessions.rec\nbuffer_size: 4096\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TTYTAP_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.HUD {
		t.Fatal("expected hud enabled")
	}
	if cfg.RecordPath != "/tmp/sessions.rec" {
		t.Fatalf("unexpected record path %q", cfg.RecordPath)
	}
	if cfg.BufferSize != 4096 {
		t.Fatalf("unexpected buffer size %d", cfg.BufferSize)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("hud: [not bool"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TTYTAP_CONFIG", path)
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInvalidBufferSizeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("buffer_size: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TTYTAP_CONFIG", path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BufferSize != 64*1024 {
		t.Fatalf("expected fallback buffer size, got %d", cfg.BufferSize)
	}
}
