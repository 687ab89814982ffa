package ui_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/netscope/internal/datasource"
	"github.com/vanderheijden86/netscope/pkg/interact"
	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/loader"
	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/style"
	"github.com/vanderheijden86/netscope/pkg/testutil"
	"github.com/vanderheijden86/netscope/pkg/ui"
)

var quiet = loader.ParseOptions{WarningHandler: func(string) {}}

// drain runs cmd and every command it produces, feeding each message back
// into the model, until nothing is left.
func drain(t *testing.T, m ui.Model, cmd tea.Cmd) ui.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("commands did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nc := m.Update(msg)
			m = next.(ui.Model)
			queue = append(queue, nc)
		}
	}
	return m
}

func newExplorer(t *testing.T, g *model.Graph, opts ui.Options) ui.Model {
	t.Helper()
	if opts.Controller.Bounds == (layout.Bounds{}) {
		opts.Controller = interact.DefaultOptions()
	}
	m := ui.New(g, opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(ui.Model)
	return drain(t, m, m.Init())
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m ui.Model, k string) (ui.Model, tea.Cmd) {
	next, cmd := m.Update(keyMsg(k))
	return next.(ui.Model), cmd
}

func TestViewBeforeWindowSize(t *testing.T) {
	m := ui.New(datasource.Sample(), ui.Options{Controller: interact.DefaultOptions()})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}

func TestInitialLayoutLoadsGraph(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})

	if m.LayoutPending() {
		t.Fatal("layout still pending after Init")
	}
	ctrl := m.Controller()
	testutil.AssertPositionsCover(t, ctrl.Graph(), ctrl.Positions())

	view := m.View()
	for _, want := range []string{"force-directed", "26 nodes", "40 edges", "zoom 80%", "Network", "circular"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.ContainsFunc(view, isBraille) {
		t.Error("canvas drew no braille dots")
	}
}

func isBraille(r rune) bool { return r > 0x2800 && r <= 0x28ff }

func TestLayoutKeysSwitchAlgorithm(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})

	tests := []struct {
		key  string
		want layout.Algorithm
	}{
		{"c", layout.Circular},
		{"h", layout.Hierarchical},
		{"f", layout.ForceDirected},
	}
	for _, tt := range tests {
		var cmd tea.Cmd
		m, cmd = press(m, tt.key)
		if cmd == nil {
			t.Fatalf("%s: no layout command", tt.key)
		}
		if !m.LayoutPending() {
			t.Errorf("%s: layout not marked pending", tt.key)
		}
		m = drain(t, m, cmd)
		if got := m.Controller().Algorithm(); got != tt.want {
			t.Errorf("%s: algorithm = %s, want %s", tt.key, got, tt.want)
		}
		if msg, _ := m.Status(); !strings.Contains(msg, string(tt.want)+" layout in") {
			t.Errorf("%s: status = %q", tt.key, msg)
		}
	}
}

func TestSameLayoutKeyIsNoop(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})
	if _, cmd := press(m, "f"); cmd != nil {
		t.Error("pressing the active layout started a recompute")
	}
}

func TestStaleLayoutResultIsDropped(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})

	m, circularCmd := press(m, "c")
	m, hierCmd := press(m, "h")

	m = drain(t, m, hierCmd)
	if got := m.Controller().Algorithm(); got != layout.Hierarchical {
		t.Fatalf("algorithm = %s, want hierarchical", got)
	}
	m = drain(t, m, circularCmd)
	if got := m.Controller().Algorithm(); got != layout.Hierarchical {
		t.Errorf("stale circular result applied, algorithm = %s", got)
	}
}

func TestToggleViewMode(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})
	m, _ = press(m, "v")
	if got := m.Controller().ViewMode(); got != model.ViewPersonal {
		t.Errorf("view = %s, want personal", got)
	}
	m, _ = press(m, "v")
	if got := m.Controller().ViewMode(); got != model.ViewGlobal {
		t.Errorf("view = %s, want global", got)
	}
}

func TestZoomAndPanKeys(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})
	vp := m.Controller().Viewport()

	m, _ = press(m, "+")
	if vp.Zoom <= vp.Limits.Default {
		t.Errorf("zoom = %v after +, want > %v", vp.Zoom, vp.Limits.Default)
	}
	if !strings.Contains(m.View(), "zoom 95%") {
		t.Error("status bar does not show the new zoom")
	}
	m, _ = press(m, "-")
	m, _ = press(m, "-")
	if vp.Zoom >= vp.Limits.Default {
		t.Errorf("zoom = %v after two -, want < %v", vp.Zoom, vp.Limits.Default)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(ui.Model)
	if vp.Pan.X >= 0 {
		t.Errorf("pan = %v after right arrow, want negative X", vp.Pan)
	}

	m, _ = press(m, "0")
	if vp.Zoom != vp.Limits.Default || vp.Pan != (model.Point{}) {
		t.Errorf("reset left zoom=%v pan=%v", vp.Zoom, vp.Pan)
	}
}

func TestTabCyclesSelection(t *testing.T) {
	g := datasource.Sample()
	m := newExplorer(t, g, ui.Options{})
	ids := testutil.NodeIDs(g)

	m, _ = press(m, "tab")
	if got := m.Controller().Selection().Selected; got != ids[0] {
		t.Errorf("first tab selected %q, want %q", got, ids[0])
	}
	m, _ = press(m, "tab")
	if got := m.Controller().Selection().Selected; got != ids[1] {
		t.Errorf("second tab selected %q, want %q", got, ids[1])
	}
	m, _ = press(m, "shift+tab")
	m, _ = press(m, "shift+tab")
	if got := m.Controller().Selection().Selected; got != ids[len(ids)-1] {
		t.Errorf("shift+tab wrapped to %q, want %q", got, ids[len(ids)-1])
	}
	if !strings.Contains(m.View(), ids[len(ids)-1]) {
		t.Error("side panel does not show the selected node")
	}

	m, _ = press(m, "esc")
	if got := m.Controller().Selection().Selected; got != "" {
		t.Errorf("esc left %q selected", got)
	}
}

func TestCopyWithoutSelection(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})
	m, _ = press(m, "y")
	msg, isErr := m.Status()
	if !isErr || msg != "Nothing selected" {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
}

func TestPersonalViewMasksPrivateDetails(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})
	m.Controller().Select("client_1")

	global := m.View()
	if !strings.Contains(global, "0x0a19...1234") || !strings.Contains(global, "2,340") {
		t.Fatal("global view should show the label and details")
	}

	m, _ = press(m, "v")
	personal := m.View()
	if strings.Contains(personal, "0x0a19...1234") || strings.Contains(personal, "2,340") {
		t.Error("personal view leaked a private label or detail")
	}
	if !strings.Contains(personal, style.MaskedLabel) || !strings.Contains(personal, "hidden") {
		t.Error("personal view should show the mask")
	}

	// Self is never masked.
	m.Controller().Select("you")
	if !strings.Contains(m.View(), "258.06") {
		t.Error("own balance hidden in personal view")
	}
}

func TestLegendOverlay(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})

	m, _ = press(m, "?")
	if !m.LegendVisible() {
		t.Fatal("? did not open the legend")
	}
	view := m.View()
	if !strings.Contains(view, "Legend") || !strings.Contains(view, "Private") {
		t.Errorf("legend view missing content:\n%s", view)
	}

	// Keys go to the legend while it is open.
	m, _ = press(m, "c")
	if m.LayoutPending() {
		t.Error("layout key handled while legend open")
	}

	m, _ = press(m, "esc")
	if m.LegendVisible() {
		t.Error("esc did not close the legend")
	}
}

func TestQuitKey(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestWheelZoomsAroundPointer(t *testing.T) {
	m := newExplorer(t, datasource.Sample(), ui.Options{})
	vp := m.Controller().Viewport()

	next, _ := m.Update(tea.MouseMsg{X: 40, Y: 20, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	m = next.(ui.Model)
	if vp.Zoom <= vp.Limits.Default {
		t.Errorf("wheel up left zoom at %v", vp.Zoom)
	}

	// Outside the canvas the wheel is ignored.
	z := vp.Zoom
	next, _ = m.Update(tea.MouseMsg{X: 110, Y: 20, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	m = next.(ui.Model)
	if vp.Zoom != z {
		t.Errorf("wheel over the side panel changed zoom to %v", vp.Zoom)
	}
}

const smallGraph = `self: you
nodes:
  - {id: you, type: you, label: me}
  - {id: pool_1, type: pool, label: p1}
edges:
  - {from: you, to: pool_1, type: stake}
`

func TestReloadOnFileChange(t *testing.T) {
	path := testutil.WriteGraphFile(t, t.TempDir(), "net.yaml", smallGraph)
	g, src, err := datasource.Load(context.Background(), path, quiet)
	if err != nil {
		t.Fatal(err)
	}
	m := newExplorer(t, g, ui.Options{Source: src, LoadOptions: quiet})

	grown := smallGraph + "  - {from: client_1, to: you, type: payment}\n"
	grown = strings.Replace(grown, "edges:", "  - {id: client_1, type: client, label: c1}\nedges:", 1)
	if err := os.WriteFile(path, []byte(grown), 0o644); err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(ui.FileChangedMsg{})
	m = drain(t, next.(ui.Model), cmd)

	if n := len(m.Controller().Graph().Nodes); n != 3 {
		t.Errorf("graph has %d nodes after reload, want 3", n)
	}
	if _, ok := m.Controller().Positions()["client_1"]; !ok {
		t.Error("new node has no position")
	}
	msg, isErr := m.Status()
	if isErr || msg != "Reloaded: +1 node, edges 1→2" {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
}

// run executes cmd and returns its messages, flattening batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

func TestReloadStatsWaitForLayout(t *testing.T) {
	path := testutil.WriteGraphFile(t, t.TempDir(), "net.yaml", smallGraph)
	g, src, err := datasource.Load(context.Background(), path, quiet)
	if err != nil {
		t.Fatal(err)
	}
	m := newExplorer(t, g, ui.Options{Source: src, LoadOptions: quiet})

	grown := strings.Replace(smallGraph, "edges:", "  - {id: client_1, type: client, label: c1}\nedges:", 1)
	if err := os.WriteFile(path, []byte(grown), 0o644); err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(ui.FileChangedMsg{})
	m = next.(ui.Model)
	var layoutCmds []tea.Cmd
	for _, msg := range run(cmd) {
		next, c := m.Update(msg)
		m = next.(ui.Model)
		layoutCmds = append(layoutCmds, c)
	}
	if !m.LayoutPending() {
		t.Fatal("reload did not request a layout")
	}
	if v := m.View(); !strings.Contains(v, "2 nodes") || strings.Contains(v, "3 nodes") {
		t.Error("status bar shows the reloaded graph before its layout arrived")
	}

	m = drain(t, m, tea.Batch(layoutCmds...))
	if v := m.View(); !strings.Contains(v, "3 nodes") {
		t.Error("status bar not updated once the layout arrived")
	}
}

func TestReloadFailureKeepsGraph(t *testing.T) {
	path := testutil.WriteGraphFile(t, t.TempDir(), "net.yaml", smallGraph)
	g, src, err := datasource.Load(context.Background(), path, quiet)
	if err != nil {
		t.Fatal(err)
	}
	m := newExplorer(t, g, ui.Options{Source: src, LoadOptions: quiet})

	if err := os.WriteFile(path, []byte("nodes: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	next, cmd := m.Update(ui.FileChangedMsg{})
	m = drain(t, next.(ui.Model), cmd)

	if m.Controller().Graph() != g {
		t.Error("failed reload replaced the graph")
	}
	if msg, isErr := m.Status(); !isErr || !strings.HasPrefix(msg, "Reload failed") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
}

func TestSnapshotKeyWritesImage(t *testing.T) {
	dir := t.TempDir()
	m := newExplorer(t, datasource.Sample(), ui.Options{SnapshotDir: dir})

	m, cmd := press(m, "s")
	m = drain(t, m, cmd)

	files, err := filepath.Glob(filepath.Join(dir, "netscope-*.svg"))
	if err != nil || len(files) != 1 {
		t.Fatalf("snapshot files = %v, err = %v", files, err)
	}
	if msg, isErr := m.Status(); isErr || !strings.HasPrefix(msg, "Saved ") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
}

func TestSnapshotWithoutGraph(t *testing.T) {
	m := newExplorer(t, &model.Graph{}, ui.Options{SnapshotDir: t.TempDir()})
	m, cmd := press(m, "s")
	if cmd != nil {
		t.Error("empty graph still scheduled an export")
	}
	if _, isErr := m.Status(); !isErr {
		t.Error("expected an error status")
	}
}
