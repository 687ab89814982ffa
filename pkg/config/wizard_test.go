package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/model"
)

func TestAnswersRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Graph.Path = "/data/net.yaml"
	cfg.Layout.Iterations = 250

	a := answersFrom(cfg)
	if a.Layout != string(layout.ForceDirected) || a.Mode != string(model.ViewGlobal) || a.Iterations != "250" {
		t.Fatalf("answersFrom = %+v", a)
	}

	var out Config
	if err := a.apply(&out); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Graph.Path != cfg.Graph.Path || out.Layout.Iterations != 250 || out.Algorithm() != layout.ForceDirected {
		t.Errorf("apply = %+v", out)
	}
}

func TestAnswersApplyValidates(t *testing.T) {
	tests := []struct {
		name string
		ans  answers
		want string
	}{
		{"bad iterations", answers{Layout: "circular", Mode: "global", Iterations: "lots"}, "iterations"},
		{"negative iterations", answers{Layout: "circular", Mode: "global", Iterations: "-3"}, "iterations"},
		{"bad layout", answers{Layout: "spiral", Mode: "global"}, "unknown layout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			err := tt.ans.apply(&cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("apply error = %v, want %q", err, tt.want)
			}
		})
	}

	var cfg Config
	cfg.Layout.Iterations = 80
	if err := (answers{Layout: "hierarchical", Mode: "personal", Iterations: " "}).apply(&cfg); err != nil {
		t.Fatalf("blank iterations: %v", err)
	}
	if cfg.Layout.Iterations != 0 {
		t.Errorf("blank iterations should restore the default, got %d", cfg.Layout.Iterations)
	}
}

func TestValidGraphPath(t *testing.T) {
	existing := writeConfig(t, "graph: {}\n")
	if err := validGraphPath(""); err != nil {
		t.Errorf("empty path: %v", err)
	}
	if err := validGraphPath(existing); err != nil {
		t.Errorf("existing path: %v", err)
	}
	if err := validGraphPath(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestWizardSaveWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netscope", "config.yaml")
	w := NewWizard(DefaultConfig(), path)
	w.ans.Layout = string(layout.Circular)
	w.ans.Mode = string(model.ViewPersonal)
	w.ans.Self = "pool_1"
	w.ans.Title = "  Lab network "

	cfg, err := w.save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if cfg.Graph.Self != "pool_1" || cfg.Export.Title != "Lab network" {
		t.Errorf("saved config = %+v", cfg)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Algorithm() != layout.Circular || loaded.ViewMode() != model.ViewPersonal {
		t.Errorf("reloaded %s/%s", loaded.Algorithm(), loaded.ViewMode())
	}

	w.ans.Iterations = "nope"
	if _, err := w.save(); err == nil {
		t.Error("invalid answers saved")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file disappeared: %v", err)
	}
}

func TestWizardFormBuilds(t *testing.T) {
	w := NewWizard(DefaultConfig(), filepath.Join(t.TempDir(), "config.yaml"))
	if w.Form() == nil {
		t.Fatal("nil form")
	}
}
