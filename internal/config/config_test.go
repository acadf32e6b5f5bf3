package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/folio/internal/painter/style"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Virtualization.Window != 5 || cfg.Virtualization.Overscan != 1 {
		t.Errorf("default virtualization = %+v", cfg.Virtualization)
	}
	if cfg.Virtualization.Gap != 24 {
		t.Errorf("default gap = %g, want 24", cfg.Virtualization.Gap)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[virtualization]
window = 7
overscan = 2
gap = 16.5

[theme]
container_chrome = "#123456"
tracked_insert = "#00aa00"

[links]
allowed_schemes = ["https"]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Virtualization.Window != 7 || cfg.Virtualization.Overscan != 2 || cfg.Virtualization.Gap != 16.5 {
		t.Errorf("virtualization = %+v", cfg.Virtualization)
	}
	if cfg.Theme.ContainerChrome != "#123456" {
		t.Errorf("theme chrome = %q", cfg.Theme.ContainerChrome)
	}
	if len(cfg.Links.AllowedSchemes) != 1 || cfg.Links.AllowedSchemes[0] != "https" {
		t.Errorf("links = %+v", cfg.Links)
	}
}

func TestParseNormalizesGarbage(t *testing.T) {
	cfg, err := Parse([]byte(`
[virtualization]
window = 0
overscan = -3
gap = -10
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Virtualization.Window < 1 {
		t.Errorf("window must normalize to at least 1, got %d", cfg.Virtualization.Window)
	}
	if cfg.Virtualization.Overscan != 0 || cfg.Virtualization.Gap != 0 {
		t.Errorf("negative values must clamp to 0: %+v", cfg.Virtualization)
	}
}

func TestParseRejectsInvalidTOML(t *testing.T) {
	if _, err := Parse([]byte("[virtualization\nwindow=")); err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("a missing file must not be an error: %v", err)
	}
	if cfg.Virtualization.Window != Default().Virtualization.Window {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.toml")
	if err := os.WriteFile(path, []byte("[virtualization]\nwindow = 9\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Virtualization.Window != 9 {
		t.Errorf("window = %d, want 9", cfg.Virtualization.Window)
	}
}

func TestVirtualOptions(t *testing.T) {
	cfg := Default()
	cfg.Virtualization.Window = 3
	opts := cfg.VirtualOptions()
	if opts.Window != 3 || opts.Overscan != 1 || opts.Gap != 24 {
		t.Errorf("VirtualOptions() = %+v", opts)
	}
}

func TestResolveTheme(t *testing.T) {
	cfg := Default()
	cfg.Theme.ContainerChrome = "#336699"

	theme := cfg.ResolveTheme()
	if theme.ContainerChrome != "#336699" {
		t.Errorf("chrome = %q", theme.ContainerChrome)
	}
	if theme.ContainerLabel == "" {
		t.Errorf("label must be derived")
	}
	// Unset values fall back to the stock theme.
	if theme.TrackedInsert != style.DefaultTheme().TrackedInsert {
		t.Errorf("tracked insert = %q", theme.TrackedInsert)
	}
}

func TestWatchReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	if err := os.WriteFile(path, []byte("[virtualization]\nwindow = 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reloaded := make(chan Config, 1)
	w, err := Watch(path, func(cfg Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[virtualization]\nwindow = 11\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Virtualization.Window != 11 {
			t.Errorf("reloaded window = %d, want 11", cfg.Virtualization.Window)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.toml")
	w, err := Watch(path, func(Config) {})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
