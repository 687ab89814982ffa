package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/viewport"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Algorithm() != layout.ForceDirected {
		t.Errorf("expected force-directed, got %q", cfg.Algorithm())
	}
	if cfg.ViewMode() != model.ViewGlobal {
		t.Errorf("expected global view, got %q", cfg.ViewMode())
	}
	if cfg.Export.Width != 1000 || cfg.Export.Height != 600 {
		t.Errorf("expected 1000x600 export, got %dx%d", cfg.Export.Width, cfg.Export.Height)
	}
	if !reflect.DeepEqual(cfg.LayoutParams(), layout.DefaultParams()) {
		t.Error("default config should not change layout params")
	}
	if cfg.ViewportLimits() != viewport.DefaultLimits() {
		t.Error("default config should not change viewport limits")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
graph:
  path: ~/nets/explorer.yaml
  self: client_1
view:
  layout: circle
  mode: personal
layout:
  circular_radius: 180
  iterations: 250
zoom:
  min: 0.2
  max: 3
  button_step: 0.25
watch:
  poll_interval: 500ms
  debounce: 1s
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "nets/explorer.yaml"); cfg.Graph.Path != want {
		t.Errorf("expected expanded path %q, got %q", want, cfg.Graph.Path)
	}
	if cfg.Graph.Self != "client_1" {
		t.Errorf("self = %q", cfg.Graph.Self)
	}
	if cfg.Algorithm() != layout.Circular {
		t.Errorf("algorithm = %q, want circular", cfg.Algorithm())
	}
	if cfg.ViewMode() != model.ViewPersonal {
		t.Errorf("view = %q, want personal", cfg.ViewMode())
	}
	if cfg.Watch.PollInterval != 500*time.Millisecond || cfg.Watch.Debounce != time.Second {
		t.Errorf("watch = %+v", cfg.Watch)
	}
	// untouched sections keep their defaults
	if cfg.Export.Width != 1000 {
		t.Errorf("export width = %d, want default", cfg.Export.Width)
	}

	p := cfg.LayoutParams()
	if p.CircularRadius != 180 || p.Force.Iterations != 250 {
		t.Errorf("layout overrides not applied: %+v", p)
	}
	if p.HierarchyPadding != layout.DefaultParams().HierarchyPadding {
		t.Error("unset layout field changed")
	}

	v := cfg.ViewportLimits()
	if v.Min != 0.2 || v.Max != 3 || v.ButtonStep != 0.25 {
		t.Errorf("zoom overrides not applied: %+v", v)
	}
	if v.Default != 0.8 || v.WheelStep != 0.05 {
		t.Errorf("unset zoom fields changed: %+v", v)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "view: [unclosed")
	if _, err := LoadFrom(path); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("err = %v, want parse error", err)
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"layout", "view: {layout: spiral}", "unknown layout"},
		{"mode", "view: {mode: secret}", "unknown view mode"},
		{"zoom", "zoom: {min: 2, max: 1}", "exceeds zoom.max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestViewportLimits_DefaultOutsideRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Zoom.Min = 1
	cfg.Zoom.Max = 2
	v := cfg.ViewportLimits()
	if v.Default != 1.5 {
		t.Errorf("default = %v, want midpoint 1.5", v.Default)
	}

	cfg = DefaultConfig()
	cfg.Zoom.Min = 2.5
	v = cfg.ViewportLimits()
	if v.Min != 1.8 || v.Max != 2.5 {
		t.Errorf("inverted range not repaired: %+v", v)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Graph.Path = "/data/net.db"
	cfg.View.Layout = string(layout.Hierarchical)
	cfg.Layout.Gravity = 0.02
	cfg.Zoom.MaxPan = 1500
	cfg.Export.Title = "Explorer"
	cfg.Watch.Debounce = 300 * time.Millisecond

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		input string
		want  string
	}{
		{"~/graphs", filepath.Join(home, "graphs")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandHome(tt.input); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := ConfigDir(); got != "/tmp/xdg-test/netscope" {
		t.Errorf("expected /tmp/xdg-test/netscope, got %q", got)
	}
	if got := ConfigPath(); got != "/tmp/xdg-test/netscope/config.yaml" {
		t.Errorf("ConfigPath() = %q", got)
	}
}

func TestLoadAndSave_UseXDGDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.View.Mode = string(model.ViewPersonal)
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "netscope", "config.yaml")); err != nil {
		t.Fatalf("config not written under XDG dir: %v", err)
	}
	again, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if again.ViewMode() != model.ViewPersonal {
		t.Errorf("view = %q after reload", again.ViewMode())
	}
}
