package config

// This file implements the interactive setup behind --configure.

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/model"
)

// ErrAborted is returned when the user cancels the wizard.
var ErrAborted = errors.New("configuration cancelled")

// answers holds the form fields as the user typed them.
type answers struct {
	GraphPath  string
	Self       string
	Layout     string
	Mode       string
	Iterations string
	Title      string
}

func answersFrom(cfg Config) answers {
	a := answers{
		GraphPath: cfg.Graph.Path,
		Self:      cfg.Graph.Self,
		Layout:    string(cfg.Algorithm()),
		Mode:      string(cfg.ViewMode()),
		Title:     cfg.Export.Title,
	}
	if cfg.Layout.Iterations > 0 {
		a.Iterations = strconv.Itoa(cfg.Layout.Iterations)
	}
	return a
}

// apply writes the answers into cfg and validates the result.
func (a answers) apply(cfg *Config) error {
	cfg.Graph.Path = expandHome(strings.TrimSpace(a.GraphPath))
	cfg.Graph.Self = strings.TrimSpace(a.Self)
	cfg.View.Layout = a.Layout
	cfg.View.Mode = a.Mode
	cfg.Export.Title = strings.TrimSpace(a.Title)

	cfg.Layout.Iterations = 0
	if it := strings.TrimSpace(a.Iterations); it != "" {
		n, err := validIterations(it)
		if err != nil {
			return err
		}
		cfg.Layout.Iterations = n
	}
	return cfg.Validate()
}

func validIterations(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("iterations must be a positive number, got %q", s)
	}
	return n, nil
}

func validGraphPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := os.Stat(expandHome(s)); err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	return nil
}

// Wizard asks for the common settings and saves them.
type Wizard struct {
	cfg  Config
	path string
	ans  answers
}

// NewWizard starts from cfg and will save to path.
func NewWizard(cfg Config, path string) *Wizard {
	return &Wizard{cfg: cfg, path: path, ans: answersFrom(cfg)}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Form builds the form bound to the wizard's answers.
func (w *Wizard) Form() *huh.Form {
	layouts := make([]huh.Option[string], 0, 3)
	for _, a := range []layout.Algorithm{layout.ForceDirected, layout.Circular, layout.Hierarchical} {
		layouts = append(layouts, huh.NewOption(string(a), string(a)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Graph file").
				Description("JSON, YAML or SQLite. Leave empty for the built-in sample.").
				Value(&w.ans.GraphPath).
				Validate(validGraphPath),
			huh.NewInput().
				Title("Viewer node ID (optional)").
				Description("Overrides which node is you.").
				Value(&w.ans.Self),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Layout").
				Options(layouts...).
				Value(&w.ans.Layout),
			huh.NewSelect[string]().
				Title("View mode").
				Options(
					huh.NewOption("Global (show everything)", string(model.ViewGlobal)),
					huh.NewOption("Personal (hide others' private data)", string(model.ViewPersonal)),
				).
				Value(&w.ans.Mode),
			huh.NewInput().
				Title("Force-directed iterations").
				Placeholder(strconv.Itoa(layout.DefaultParams().Force.Iterations)).
				Value(&w.ans.Iterations).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := validIterations(strings.TrimSpace(s))
					return err
				}),
			huh.NewInput().
				Title("Snapshot title").
				Placeholder("Network Snapshot").
				Value(&w.ans.Title),
		),
	).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run shows the form, then saves and returns the new config.
func (w *Wizard) Run() (Config, error) {
	if err := w.Form().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return w.cfg, ErrAborted
		}
		return w.cfg, err
	}
	return w.save()
}

func (w *Wizard) save() (Config, error) {
	cfg := w.cfg
	if err := w.ans.apply(&cfg); err != nil {
		return w.cfg, err
	}
	if err := SaveTo(cfg, w.path); err != nil {
		return w.cfg, err
	}
	w.cfg = cfg
	return cfg, nil
}
