// Package config handles loading and saving netscope configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/netscope/config.yaml
//
// Every field is optional. Zero values fall back to the built-in defaults and
// command-line flags override whatever the file sets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/viewport"
)

// GraphConfig selects the snapshot to open when no --graph flag is given.
type GraphConfig struct {
	Path string `yaml:"path,omitempty"` // JSON, YAML or SQLite; empty = built-in sample
	Self string `yaml:"self,omitempty"` // Override which node is the viewer
}

// ViewConfig holds the initial interactive state.
type ViewConfig struct {
	Layout     string  `yaml:"layout,omitempty"` // circular, hierarchical, force-directed
	Mode       string  `yaml:"mode,omitempty"`   // global, personal
	PixelRatio float64 `yaml:"pixel_ratio,omitempty"`
}

// LayoutConfig overrides layout tuning. Zero fields keep the default.
type LayoutConfig struct {
	CircularRadius   float64 `yaml:"circular_radius,omitempty"`
	HierarchyPadding float64 `yaml:"hierarchy_padding,omitempty"`
	Iterations       int     `yaml:"iterations,omitempty"`
	Repulsion        float64 `yaml:"repulsion,omitempty"`
	Attraction       float64 `yaml:"attraction,omitempty"`
	IdealEdgeLength  float64 `yaml:"ideal_edge_length,omitempty"`
	Gravity          float64 `yaml:"gravity,omitempty"`
	Damping          float64 `yaml:"damping,omitempty"`
	Margin           float64 `yaml:"margin,omitempty"`
}

// ZoomConfig overrides the viewport limits. Zero fields keep the default.
type ZoomConfig struct {
	Min            float64 `yaml:"min,omitempty"`
	Max            float64 `yaml:"max,omitempty"`
	Default        float64 `yaml:"default,omitempty"`
	WheelStep      float64 `yaml:"wheel_step,omitempty"`
	ButtonStep     float64 `yaml:"button_step,omitempty"`
	WheelThreshold float64 `yaml:"wheel_threshold,omitempty"`
	MaxPan         float64 `yaml:"max_pan,omitempty"`
}

// ExportConfig holds defaults for static snapshots.
type ExportConfig struct {
	Width      int     `yaml:"width,omitempty"`
	Height     int     `yaml:"height,omitempty"`
	PixelRatio float64 `yaml:"pixel_ratio,omitempty"`
	Title      string  `yaml:"title,omitempty"`
}

// WatchConfig tunes the file watcher used by --watch.
type WatchConfig struct {
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
	Debounce     time.Duration `yaml:"debounce,omitempty"`
	ForcePoll    bool          `yaml:"force_poll,omitempty"`
}

// Config is the top-level configuration for netscope.
type Config struct {
	Graph  GraphConfig  `yaml:"graph,omitempty"`
	View   ViewConfig   `yaml:"view,omitempty"`
	Layout LayoutConfig `yaml:"layout,omitempty"`
	Zoom   ZoomConfig   `yaml:"zoom,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
	Watch  WatchConfig  `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		View: ViewConfig{
			Layout:     string(layout.ForceDirected),
			Mode:       string(model.ViewGlobal),
			PixelRatio: 1,
		},
		Export: ExportConfig{
			Width:      int(layout.DefaultBounds.Width),
			Height:     int(layout.DefaultBounds.Height),
			PixelRatio: 1,
		},
	}
}

// ConfigDir returns the XDG config directory for netscope.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "netscope")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "netscope")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.Graph.Path = expandHome(cfg.Graph.Path)
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	if c.View.Layout != "" {
		if _, err := layout.ParseAlgorithm(c.View.Layout); err != nil {
			return err
		}
	}
	if c.View.Mode != "" {
		if _, err := model.ParseViewMode(c.View.Mode); err != nil {
			return err
		}
	}
	if c.Zoom.Min != 0 && c.Zoom.Max != 0 && c.Zoom.Min > c.Zoom.Max {
		return fmt.Errorf("zoom.min %.2f exceeds zoom.max %.2f", c.Zoom.Min, c.Zoom.Max)
	}
	return nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Algorithm returns the configured layout, falling back to force-directed.
func (c Config) Algorithm() layout.Algorithm {
	a, err := layout.ParseAlgorithm(c.View.Layout)
	if err != nil {
		return layout.ForceDirected
	}
	return a
}

// ViewMode returns the configured view mode, falling back to global.
func (c Config) ViewMode() model.ViewMode {
	m, err := model.ParseViewMode(c.View.Mode)
	if err != nil {
		return model.ViewGlobal
	}
	return m
}

// LayoutParams applies the overrides to layout.DefaultParams.
func (c Config) LayoutParams() layout.Params {
	p := layout.DefaultParams()
	l := c.Layout
	setF(&p.CircularRadius, l.CircularRadius)
	setF(&p.HierarchyPadding, l.HierarchyPadding)
	if l.Iterations > 0 {
		p.Force.Iterations = l.Iterations
	}
	setF(&p.Force.Repulsion, l.Repulsion)
	setF(&p.Force.Attraction, l.Attraction)
	setF(&p.Force.IdealEdgeLength, l.IdealEdgeLength)
	setF(&p.Force.Gravity, l.Gravity)
	setF(&p.Force.Damping, l.Damping)
	setF(&p.Force.Margin, l.Margin)
	return p
}

// ViewportLimits applies the overrides to viewport.DefaultLimits.
func (c Config) ViewportLimits() viewport.Limits {
	v := viewport.DefaultLimits()
	z := c.Zoom
	setF(&v.Min, z.Min)
	setF(&v.Max, z.Max)
	setF(&v.Default, z.Default)
	setF(&v.WheelStep, z.WheelStep)
	setF(&v.ButtonStep, z.ButtonStep)
	setF(&v.WheelThreshold, z.WheelThreshold)
	setF(&v.MaxPan, z.MaxPan)
	if v.Min > v.Max {
		v.Min, v.Max = v.Max, v.Min
	}
	if v.Default < v.Min || v.Default > v.Max {
		v.Default = (v.Min + v.Max) / 2
	}
	return v
}

func setF(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
