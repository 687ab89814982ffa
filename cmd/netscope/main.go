// Command netscope explores a network graph snapshot in the terminal, or
// renders it to PNG/SVG and data files when --export is given.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/netscope/internal/datasource"
	"github.com/vanderheijden86/netscope/pkg/config"
	"github.com/vanderheijden86/netscope/pkg/debug"
	"github.com/vanderheijden86/netscope/pkg/export"
	"github.com/vanderheijden86/netscope/pkg/interact"
	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/loader"
	"github.com/vanderheijden86/netscope/pkg/metrics"
	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/ui"
	"github.com/vanderheijden86/netscope/pkg/version"
	"github.com/vanderheijden86/netscope/pkg/watcher"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// isTerminal reports whether stdout is interactive. Tests replace it.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// runTUI runs the explorer. Tests replace it.
var runTUI = runTUIProgram

// runWizard runs the interactive config editor. Tests replace it.
var runWizard = func(cfg config.Config, path string) (config.Config, error) {
	return config.NewWizard(cfg, path).Run()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// cliFlags holds the parsed command line.
type cliFlags struct {
	graph, layout, view, self, configPath string
	iterations, width, height             int
	pixelRatio                            float64
	exports                               stringList
	watch, metrics, configure             bool
	help, version                         bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, *flag.FlagSet, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("netscope", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.graph, "graph", "", "Graph file (.json, .yaml, .db); empty uses the built-in sample")
	fs.StringVar(&f.layout, "layout", "", "Layout: circular, hierarchical or force-directed")
	fs.StringVar(&f.view, "view", "", "View mode: global or personal")
	fs.StringVar(&f.self, "self", "", "Node ID to treat as the viewer")
	fs.IntVar(&f.iterations, "iterations", 0, "Force-directed iterations")
	fs.Var(&f.exports, "export", "Write PATH and exit (.png, .svg, .json, .yaml, .db); repeatable")
	fs.IntVar(&f.width, "width", 0, "Export width in CSS pixels")
	fs.IntVar(&f.height, "height", 0, "Export height in CSS pixels")
	fs.Float64Var(&f.pixelRatio, "pixel-ratio", 0, "Device pixels per CSS pixel for exports")
	fs.BoolVar(&f.watch, "watch", false, "Reload the graph file when it changes (TUI only)")
	fs.BoolVar(&f.metrics, "metrics", false, "Print timing metrics as JSON on exit")
	fs.StringVar(&f.configPath, "config", "", "Config file (default ~/.config/netscope/config.yaml)")
	fs.BoolVar(&f.configure, "configure", false, "Interactively edit the config file and exit")
	fs.BoolVar(&f.help, "help", false, "Show help")
	fs.BoolVar(&f.version, "version", false, "Show version")
	err := fs.Parse(args)
	return f, fs, err
}

// applyFlags layers explicitly set flags over the config file.
func applyFlags(cfg *config.Config, f *cliFlags, fs *flag.FlagSet) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "graph":
			cfg.Graph.Path = f.graph
		case "self":
			cfg.Graph.Self = f.self
		case "layout":
			var a layout.Algorithm
			if a, err = layout.ParseAlgorithm(f.layout); err == nil {
				cfg.View.Layout = string(a)
			}
		case "view":
			var m model.ViewMode
			if m, err = model.ParseViewMode(f.view); err == nil {
				cfg.View.Mode = string(m)
			}
		case "iterations":
			if f.iterations <= 0 {
				err = fmt.Errorf("--iterations must be positive, got %d", f.iterations)
			}
			cfg.Layout.Iterations = f.iterations
		case "width":
			cfg.Export.Width = f.width
		case "height":
			cfg.Export.Height = f.height
		case "pixel-ratio":
			cfg.Export.PixelRatio = f.pixelRatio
		}
	})
	return err
}

func run(args []string, stdout, stderr io.Writer) int {
	f, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if f.help {
		fmt.Fprintln(stdout, "Usage: netscope [options]")
		fmt.Fprintln(stdout, "\nExplore a network graph snapshot in the terminal.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return exitOK
	}
	if f.version {
		fmt.Fprintf(stdout, "netscope %s\n", version.String())
		return exitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return exitUsage
	}

	var cfg config.Config
	if f.configPath != "" {
		cfg, err = config.LoadFrom(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if f.configure {
		return configure(cfg, f.configPath, stdout, stderr)
	}
	if err := applyFlags(&cfg, f, fs); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	for _, p := range f.exports {
		if err := checkExportPath(p); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
	}
	if f.metrics {
		metrics.SetEnabled(true)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := loader.ParseOptions{
		SelfID:         cfg.Graph.Self,
		WarningHandler: func(msg string) { fmt.Fprintf(stderr, "Warning: %s\n", msg) },
	}
	g, src, err := datasource.Load(ctx, cfg.Graph.Path, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading graph: %v\n", err)
		return exitFailure
	}
	debug.Log("loaded %s: %d nodes, %d edges", src, len(g.Nodes), len(g.Edges))

	code := exitOK
	switch {
	case len(f.exports) > 0:
		if err := writeExports(ctx, stdout, g, cfg, f.exports); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			code = exitFailure
		}
	case isTerminal():
		if err := launchTUI(ctx, g, src, opts, cfg, f.watch); err != nil {
			fmt.Fprintf(stderr, "Error running netscope: %v\n", err)
			code = exitFailure
		}
	default:
		if f.watch {
			fmt.Fprintln(stderr, "Warning: --watch needs a terminal; ignoring")
		}
		printSummary(stdout, g, src, cfg)
	}

	if f.metrics {
		if err := metrics.WriteJSON(stdout); err != nil {
			fmt.Fprintf(stderr, "Error writing metrics: %v\n", err)
			code = exitFailure
		}
	}
	return code
}

// configure runs the setup wizard against path, or the XDG config file.
func configure(cfg config.Config, path string, stdout, stderr io.Writer) int {
	if path == "" {
		path = config.ConfigPath()
	}
	if path == "" {
		fmt.Fprintln(stderr, "Error: cannot determine config directory; pass --config")
		return exitFailure
	}
	if _, err := runWizard(cfg, path); err != nil {
		if errors.Is(err, config.ErrAborted) {
			fmt.Fprintln(stdout, "Configuration unchanged.")
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Fprintf(stdout, "Saved %s\n", path)
	return exitOK
}

// checkExportPath rejects extensions no exporter handles.
func checkExportPath(p string) error {
	if datasource.IsDataExport(p) {
		return nil
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".png", ".svg":
		return nil
	}
	return fmt.Errorf("--export %s: unsupported extension (want .png, .svg, .json, .yaml or .db)", p)
}

// writeExports writes data exports in order and renders image exports
// concurrently.
func writeExports(ctx context.Context, stdout io.Writer, g *model.Graph, cfg config.Config, paths []string) error {
	var snaps []export.SnapshotOptions
	for _, p := range paths {
		if datasource.IsDataExport(p) {
			if err := datasource.Save(ctx, p, g); err != nil {
				return fmt.Errorf("exporting %s: %w", p, err)
			}
			fmt.Fprintf(stdout, "wrote %s\n", p)
			continue
		}
		snaps = append(snaps, export.SnapshotOptions{
			Path:       p,
			Title:      cfg.Export.Title,
			Graph:      g,
			Algorithm:  cfg.Algorithm(),
			Params:     cfg.LayoutParams(),
			ViewMode:   cfg.ViewMode(),
			Width:      cfg.Export.Width,
			Height:     cfg.Export.Height,
			PixelRatio: cfg.Export.PixelRatio,
		})
	}
	if len(snaps) == 0 {
		return nil
	}
	if err := export.SaveSnapshots(ctx, snaps); err != nil {
		return err
	}
	for _, s := range snaps {
		fmt.Fprintf(stdout, "wrote %s\n", s.Path)
	}
	return nil
}

func printSummary(w io.Writer, g *model.Graph, src datasource.DataSource, cfg config.Config) {
	fmt.Fprintf(w, "source: %s\n", src)
	fmt.Fprintln(w, export.Summary(g, cfg.Algorithm(), cfg.ViewMode()))
	if self, ok := g.Self(); ok {
		fmt.Fprintf(w, "self: %s\n", self.ID)
	}
	if errs := g.Validate(); len(errs) > 0 {
		fmt.Fprintf(w, "data errors: %d\n", len(errs))
	}
}

func launchTUI(ctx context.Context, g *model.Graph, src datasource.DataSource, opts loader.ParseOptions, cfg config.Config, watch bool) error {
	copts := interact.DefaultOptions()
	copts.Algorithm = cfg.Algorithm()
	copts.ViewMode = cfg.ViewMode()
	copts.Params = cfg.LayoutParams()
	copts.Limits = cfg.ViewportLimits()

	// Warnings would scribble over the alt screen.
	opts.WarningHandler = func(msg string) { debug.Log("reload warning: %s", msg) }

	uiOpts := ui.Options{
		Controller:  copts,
		Source:      src,
		LoadOptions: opts,
		Export: export.SnapshotOptions{
			Title:      cfg.Export.Title,
			Width:      cfg.Export.Width,
			Height:     cfg.Export.Height,
			PixelRatio: cfg.Export.PixelRatio,
		},
	}

	if watch && src.Type != datasource.SourceTypeSample {
		w, err := watcher.New(src.Path,
			watcher.WithPollInterval(cfg.Watch.PollInterval),
			watcher.WithDebounceDuration(cfg.Watch.Debounce),
			watcher.WithForcePoll(cfg.Watch.ForcePoll),
			watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }),
		)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("watching %s: %w", src.Path, err)
		}
		defer w.Stop()
		uiOpts.Watcher = w
	}

	return runTUI(ui.New(g, uiOpts))
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set NETSCOPE_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("NETSCOPE_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
