// Package ui is the terminal explorer: a bubbletea program that draws the
// network with braille dots and drives the interaction controller from mouse
// and keyboard input.
package ui

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/netscope/internal/datasource"
	"github.com/vanderheijden86/netscope/pkg/analysis"
	"github.com/vanderheijden86/netscope/pkg/debug"
	"github.com/vanderheijden86/netscope/pkg/export"
	"github.com/vanderheijden86/netscope/pkg/interact"
	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/loader"
	"github.com/vanderheijden86/netscope/pkg/metrics"
	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/render"
	"github.com/vanderheijden86/netscope/pkg/watcher"
)

// Input tuning, in CSS pixels of the scene.
const (
	wheelDelta = 100.0
	panStep    = 40.0
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

var dlog = debug.Scope("ui")

// FileChangedMsg is sent when the graph file changes on disk.
type FileChangedMsg struct{}

// layoutDoneMsg carries positions computed off the update loop. gen ties the
// result to the request that produced it.
type layoutDoneMsg struct {
	gen   int
	graph *model.Graph
	algo  layout.Algorithm
	pos   layout.Positions
	took  time.Duration
}

// graphLoadedMsg carries a reloaded snapshot.
type graphLoadedMsg struct {
	graph *model.Graph
	err   error
}

// snapshotSavedMsg reports the outcome of an image export.
type snapshotSavedMsg struct {
	path string
	err  error
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// computeLayoutCmd runs the layout on the command goroutine.
func computeLayoutCmd(gen int, g *model.Graph, algo layout.Algorithm, b layout.Bounds, p layout.Params) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		pos := layout.Compute(g, algo, b, p)
		return layoutDoneMsg{gen: gen, graph: g, algo: algo, pos: pos, took: time.Since(start)}
	}
}

// loadGraphCmd re-reads the data source.
func loadGraphCmd(src datasource.DataSource, opts loader.ParseOptions) tea.Cmd {
	return func() tea.Msg {
		g, err := datasource.LoadFromSource(context.Background(), src, opts)
		return graphLoadedMsg{graph: g, err: err}
	}
}

func saveSnapshotCmd(opts export.SnapshotOptions) tea.Cmd {
	return func() tea.Msg {
		return snapshotSavedMsg{path: opts.Path, err: export.SaveSnapshot(opts)}
	}
}

// Options configures the explorer.
type Options struct {
	Controller  interact.Options
	Source      datasource.DataSource // re-read on FileChangedMsg
	LoadOptions loader.ParseOptions
	Watcher     *watcher.Watcher // optional; nil disables live reload

	SnapshotDir    string // where "s" writes images; empty = working directory
	SnapshotFormat string // svg or png; empty = svg
	Export         export.SnapshotOptions
}

// frameState is shared between model copies so the controller's render
// callback can mark the canvas stale.
type frameState struct {
	dirty bool
	out   string
}

// Model is the bubbletea model of the explorer.
type Model struct {
	ctrl   *interact.Controller
	canvas *Canvas
	frame  *frameState
	keys   keyMap
	help   help.Model
	theme  Theme

	legend     viewport.Model
	showLegend bool

	source   datasource.DataSource
	loadOpts loader.ParseOptions
	watcher  *watcher.Watcher
	snapDir  string
	snapFmt  string
	snapBase export.SnapshotOptions

	analyzer  *analysis.Analyzer
	stats     analysis.Stats
	connected map[string]bool

	// Layout requests in flight. Results with a stale gen are dropped.
	layoutGen   int
	layoutBusy  bool
	pendingAlgo layout.Algorithm
	pending     *model.Graph

	width, height int
	ready         bool
	ratio         float64

	statusMsg     string
	statusIsError bool
}

// New creates the explorer for g. The first layout runs from Init.
func New(g *model.Graph, opts Options) Model {
	frame := &frameState{dirty: true}
	copts := opts.Controller
	copts.OnRender = func() { frame.dirty = true }
	ctrl := interact.New(copts)

	format := opts.SnapshotFormat
	if format == "" {
		format = export.FormatSVG
	}

	m := Model{
		ctrl:        ctrl,
		canvas:      NewCanvas(0, 0),
		frame:       frame,
		keys:        defaultKeyMap(),
		help:        help.New(),
		theme:       TestTheme(),
		source:      opts.Source,
		loadOpts:    opts.LoadOptions,
		watcher:     opts.Watcher,
		snapDir:     opts.SnapshotDir,
		snapFmt:     format,
		snapBase:    opts.Export,
		layoutGen:   1,
		layoutBusy:  true,
		pendingAlgo: ctrl.Algorithm(),
		pending:     g,
	}
	m.setStats(g)
	return m
}

// Controller exposes the interaction controller, mainly for tests and hosts
// that add their own chrome.
func (m Model) Controller() *interact.Controller { return m.ctrl }

// Status returns the current status line message.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// LegendVisible reports whether the legend overlay is open.
func (m Model) LegendVisible() bool { return m.showLegend }

// LayoutPending reports whether a layout is being computed.
func (m Model) LayoutPending() bool { return m.layoutBusy }

func (m *Model) setStats(g *model.Graph) {
	m.analyzer = analysis.NewAnalyzer(g)
	m.stats = m.analyzer.Stats()
	m.connected = g.ConnectedToSelf()
}

func (m Model) Init() tea.Cmd {
	layoutCmd := computeLayoutCmd(m.layoutGen, m.pending, m.pendingAlgo, m.ctrl.Bounds(), m.ctrl.LayoutParams())
	if m.watcher == nil {
		return layoutCmd
	}
	return tea.Batch(layoutCmd, WatchFileCmd(m.watcher))
}

// requestLayout starts a layout for g and supersedes any request in flight.
func (m Model) requestLayout(g *model.Graph, algo layout.Algorithm) (Model, tea.Cmd) {
	m.layoutGen++
	m.layoutBusy = true
	m.pendingAlgo = algo
	m.pending = g
	return m, computeLayoutCmd(m.layoutGen, g, algo, m.ctrl.Bounds(), m.ctrl.LayoutParams())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case layoutDoneMsg:
		if msg.gen != m.layoutGen {
			dlog.Log("dropping stale %s layout (gen %d, want %d)", msg.algo, msg.gen, m.layoutGen)
			return m, nil
		}
		m.layoutBusy = false
		m.pending = nil
		if msg.graph != m.ctrl.Graph() {
			m.setStats(msg.graph)
		}
		m.ctrl.Load(msg.graph, msg.pos)
		if msg.algo != m.ctrl.Algorithm() {
			m.ctrl.SetAlgorithmWith(msg.algo, msg.pos)
		}
		if m.statusMsg == "" || strings.HasPrefix(m.statusMsg, "Computing") {
			m.setStatus(fmt.Sprintf("%s layout in %s", msg.algo, msg.took.Round(time.Millisecond)), false)
		}
		return m, nil

	case FileChangedMsg:
		m.setStatus("Reloading…", false)
		cmds := []tea.Cmd{loadGraphCmd(m.source, m.loadOpts)}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case graphLoadedMsg:
		if msg.err != nil {
			dlog.Log("reload failed: %v", msg.err)
			m.setStatus("Reload failed: "+msg.err.Error(), true)
			return m, nil
		}
		metrics.GraphReloads.Inc()
		d := datasource.Diff(m.ctrl.Graph(), msg.graph)
		m.setStatus("Reloaded: "+d.Summary(), false)
		return m.requestLayout(msg.graph, m.ctrl.Algorithm())

	case snapshotSavedMsg:
		if msg.err != nil {
			m.setStatus("Snapshot failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("Saved "+msg.path, false)
		}
		return m, nil

	case tea.MouseMsg:
		if !m.showLegend {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.showLegend {
			return m.updateLegend(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.statusMsg = s
	m.statusIsError = isErr
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Circular):
		return m.switchLayout(layout.Circular)
	case key.Matches(msg, k.Hierarchical):
		return m.switchLayout(layout.Hierarchical)
	case key.Matches(msg, k.Force):
		return m.switchLayout(layout.ForceDirected)
	case key.Matches(msg, k.ToggleView):
		m.ctrl.SetViewMode(m.ctrl.ViewMode().Toggle())
		m.setStatus(string(m.ctrl.ViewMode())+" view", false)

	case key.Matches(msg, k.ZoomIn):
		m.ctrl.ZoomIn()
	case key.Matches(msg, k.ZoomOut):
		m.ctrl.ZoomOut()
	case key.Matches(msg, k.Reset):
		m.ctrl.ResetView()
	case key.Matches(msg, k.Up):
		m.ctrl.PanBy(0, panStep)
	case key.Matches(msg, k.Down):
		m.ctrl.PanBy(0, -panStep)
	case key.Matches(msg, k.Left):
		m.ctrl.PanBy(panStep, 0)
	case key.Matches(msg, k.Right):
		m.ctrl.PanBy(-panStep, 0)

	case key.Matches(msg, k.Next):
		m.ctrl.Select(cycle(nodeOrder(m.ctrl.Graph()), m.ctrl.Selection().Selected, 1))
	case key.Matches(msg, k.Prev):
		m.ctrl.Select(cycle(nodeOrder(m.ctrl.Graph()), m.ctrl.Selection().Selected, -1))
	case key.Matches(msg, k.Clear):
		m.ctrl.Select("")
	case key.Matches(msg, k.Copy):
		m.copySelection()

	case key.Matches(msg, k.Snapshot):
		return m.saveSnapshot()
	case key.Matches(msg, k.Legend):
		m.openLegend()
	}
	return m, nil
}

// switchLayout recomputes positions for the current graph with algo. The
// previous layout stays on screen until the new one arrives.
func (m Model) switchLayout(algo layout.Algorithm) (tea.Model, tea.Cmd) {
	g := m.ctrl.Graph()
	if m.pending != nil {
		g = m.pending
	}
	if g == nil {
		return m, nil
	}
	if algo == m.ctrl.Algorithm() && !m.layoutBusy {
		return m, nil
	}
	m.setStatus("Computing "+string(algo)+" layout…", false)
	return m.requestLayout(g, algo)
}

func (m *Model) copySelection() {
	id := m.ctrl.Selection().Selected
	if id == "" {
		m.setStatus("Nothing selected", true)
		return
	}
	if err := writeClipboard(id); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("📋 Copied %s to clipboard", id), false)
}

func (m Model) saveSnapshot() (tea.Model, tea.Cmd) {
	g := m.ctrl.Graph()
	if g == nil || len(g.Nodes) == 0 {
		m.setStatus("Nothing to save", true)
		return m, nil
	}
	name := fmt.Sprintf("netscope-%s.%s", time.Now().Format("20060102-150405"), m.snapFmt)
	opts := m.snapBase
	opts.Path = filepath.Join(m.snapDir, name)
	opts.Format = m.snapFmt
	opts.Graph = g
	opts.Positions = m.ctrl.Positions()
	opts.Algorithm = m.ctrl.Algorithm()
	opts.Params = m.ctrl.LayoutParams()
	opts.ViewMode = m.ctrl.ViewMode()
	opts.Selection = model.Selection{Selected: m.ctrl.Selection().Selected}
	m.setStatus("Saving "+opts.Path+"…", false)
	return m, saveSnapshotCmd(opts)
}

func (m *Model) openLegend() {
	m.showLegend = true
	m.legend = viewport.New(max(m.width, 20), max(m.height-1, 5))
	m.legend.SetContent(renderLegend(m.keys, m.width))
}

func (m Model) updateLegend(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Legend, m.keys.Clear, m.keys.Quit):
		m.showLegend = false
		m.frame.dirty = true
		return m, nil
	}
	var cmd tea.Cmd
	m.legend, cmd = m.legend.Update(msg)
	return m, cmd
}

// handleMouse translates terminal mouse events into pointer events. Motion
// events need tea.WithMouseAllMotion for hover.
func (m Model) handleMouse(msg tea.MouseMsg) {
	p, inside := m.toScene(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if inside {
			m.ctrl.Wheel(-wheelDelta, p)
		}
	case msg.Button == tea.MouseButtonWheelDown:
		if inside {
			m.ctrl.Wheel(wheelDelta, p)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if inside {
			m.ctrl.PointerDown(p)
		}
	case msg.Action == tea.MouseActionRelease:
		m.ctrl.PointerUp(p)
	case msg.Action == tea.MouseActionMotion:
		if inside || m.ctrl.State() == interact.Panning {
			m.ctrl.PointerMove(p)
		} else {
			m.ctrl.PointerLeave()
		}
	}
}

// toScene maps a terminal cell to CSS pixels of the scene, aiming at the
// middle of the cell's dot block.
func (m Model) toScene(x, y int) (model.Point, bool) {
	cols, rows := m.canvas.Cells()
	inside := x >= 0 && y >= 0 && x < cols && y < rows
	if m.ratio <= 0 {
		return model.Point{}, false
	}
	dot := model.Point{
		X: float64(x*dotsPerCol) + dotsPerCol/2,
		Y: float64(y*dotsPerRow) + dotsPerRow/2,
	}
	return dot.Scale(1 / m.ratio), inside
}

// resize fits the canvas to the terminal and picks the pixel ratio so the
// default view shows the whole layout area.
func (m *Model) resize() {
	cols := m.width
	if m.width >= minPanelWidth {
		cols -= panelWidth
	}
	rows := max(m.height-chromeRows, 1)
	m.canvas.Resize(max(cols, 1), rows)

	b := m.ctrl.Bounds()
	z := m.ctrl.Viewport().Limits.Default
	dw, dh := m.canvas.Size()
	m.ratio = math.Min(dw/(b.Width*z), dh/(b.Height*z))
	m.help.Width = m.width
	m.frame.dirty = true
	if m.showLegend {
		m.openLegend()
	}
}

// canvasView renders the scene when something changed since the last frame.
func (m Model) canvasView() string {
	if m.frame.dirty {
		sc := m.ctrl.Scene()
		sc.PixelRatio = m.ratio
		render.Render(m.canvas, sc)
		m.frame.out = m.canvas.String()
		m.frame.dirty = false
	}
	return m.frame.out
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.showLegend {
		return m.legend.View() + "\n" + m.theme.Muted.Render(" ↑/↓ scroll · ? or esc close")
	}

	body := m.canvasView()
	if m.width >= minPanelWidth {
		_, rows := m.canvas.Cells()
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderPanel(panelWidth, rows))
	}
	return body + "\n" + m.renderStatusBar() + "\n" + m.help.View(m.keys)
}
