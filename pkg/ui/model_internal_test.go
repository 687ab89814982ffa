package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/netscope/internal/datasource"
	"github.com/vanderheijden86/netscope/pkg/interact"
	"github.com/vanderheijden86/netscope/pkg/layout"
)

// readyModel returns an explorer on the sample with a circular layout in
// place and a 120x40 terminal.
func readyModel(t *testing.T) Model {
	t.Helper()
	opts := Options{Controller: interact.DefaultOptions()}
	opts.Controller.Algorithm = layout.Circular
	m := New(datasource.Sample(), opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	next, _ = m.Update(m.Init()())
	return next.(Model)
}

// cellOf returns the terminal cell under a node's centre.
func cellOf(m Model, id string) (int, int) {
	p := m.ctrl.Viewport().WorldToScreen(m.ctrl.Positions()[id])
	return int(p.X * m.ratio / dotsPerCol), int(p.Y * m.ratio / dotsPerRow)
}

func mouse(m Model, x, y int, b tea.MouseButton, a tea.MouseAction) Model {
	next, _ := m.Update(tea.MouseMsg{X: x, Y: y, Button: b, Action: a})
	return next.(Model)
}

func TestResizeFitsDefaultView(t *testing.T) {
	m := readyModel(t)

	cols, rows := m.canvas.Cells()
	if cols != 120-panelWidth || rows != 40-chromeRows {
		t.Fatalf("canvas = %dx%d", cols, rows)
	}
	// The whole layout area fits at the default zoom.
	b := m.ctrl.Bounds()
	z := m.ctrl.Viewport().Limits.Default
	w, h := m.canvas.Size()
	if b.Width*z*m.ratio > w+1e-9 || b.Height*z*m.ratio > h+1e-9 {
		t.Errorf("ratio %v overflows the %vx%v dot canvas", m.ratio, w, h)
	}

	narrow, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if cols, _ := narrow.(Model).canvas.Cells(); cols != 60 {
		t.Errorf("narrow terminal canvas has %d cols, want full width", cols)
	}
	if strings.Contains(narrow.(Model).View(), "Network") {
		t.Error("side panel shown on a narrow terminal")
	}
}

func TestClickSelectsNode(t *testing.T) {
	m := readyModel(t)
	var selected string
	m.ctrl.SetOnSelect(func(id string, ok bool) { selected = id })

	x, y := cellOf(m, "you")
	m = mouse(m, x, y, tea.MouseButtonLeft, tea.MouseActionPress)
	m = mouse(m, x, y, tea.MouseButtonLeft, tea.MouseActionRelease)

	if got := m.ctrl.Selection().Selected; got != "you" {
		t.Fatalf("selected %q, want you", got)
	}
	if selected != "you" {
		t.Errorf("OnSelect saw %q", selected)
	}
	if !strings.Contains(m.View(), "258.06") {
		t.Error("panel does not show the selected node's balance")
	}

	// Clicking empty space clears it.
	m = mouse(m, 0, 0, tea.MouseButtonLeft, tea.MouseActionPress)
	m = mouse(m, 0, 0, tea.MouseButtonLeft, tea.MouseActionRelease)
	if got := m.ctrl.Selection().Selected; got != "" {
		t.Errorf("empty click left %q selected", got)
	}
}

func TestDragPansWithoutSelecting(t *testing.T) {
	m := readyModel(t)
	vp := m.ctrl.Viewport()

	x, y := cellOf(m, "you")
	m = mouse(m, x, y, tea.MouseButtonLeft, tea.MouseActionPress)
	if m.ctrl.State() != interact.Panning {
		t.Fatalf("state = %v after press", m.ctrl.State())
	}
	m = mouse(m, x+10, y, tea.MouseButtonLeft, tea.MouseActionMotion)
	m = mouse(m, x+10, y, tea.MouseButtonLeft, tea.MouseActionRelease)

	if vp.Pan.X <= 0 || vp.Pan.Y != 0 {
		t.Errorf("pan = %v, want positive X only", vp.Pan)
	}
	if got := m.ctrl.Selection().Selected; got != "" {
		t.Errorf("drag selected %q", got)
	}
}

func TestHoverAndLeave(t *testing.T) {
	m := readyModel(t)
	x, y := cellOf(m, "you")

	m = mouse(m, x, y, tea.MouseButtonNone, tea.MouseActionMotion)
	if got := m.ctrl.Selection().Hovered; got != "you" {
		t.Fatalf("hovered %q, want you", got)
	}
	if !strings.Contains(m.View(), "258.06") {
		t.Error("panel should describe the hovered node")
	}

	m = mouse(m, 119, 5, tea.MouseButtonNone, tea.MouseActionMotion)
	if got := m.ctrl.Selection().Hovered; got != "" {
		t.Errorf("hover %q survived leaving the canvas", got)
	}
}

func TestRenderCallbackMarksFrameDirty(t *testing.T) {
	m := readyModel(t)
	_ = m.View()
	if m.frame.dirty {
		t.Fatal("frame still dirty after View")
	}
	m.ctrl.ZoomIn()
	if !m.frame.dirty {
		t.Error("zoom did not mark the frame dirty")
	}
}

func TestCopySelectionUsesClipboard(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	m := readyModel(t)
	m.ctrl.Select("pool_2")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = next.(Model)

	if copied != "pool_2" {
		t.Errorf("clipboard got %q", copied)
	}
	if msg, isErr := m.Status(); isErr || !strings.Contains(msg, "Copied pool_2") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}

	writeClipboard = func(string) error { return errors.New("no display") }
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if msg, isErr := next.(Model).Status(); !isErr || !strings.Contains(msg, "no display") {
		t.Errorf("status = %q (error=%v)", msg, isErr)
	}
}

func TestCycle(t *testing.T) {
	ids := []string{"a", "b", "c"}
	tests := []struct {
		current string
		step    int
		want    string
	}{
		{"", 1, "a"},
		{"", -1, "c"},
		{"a", 1, "b"},
		{"c", 1, "a"},
		{"a", -1, "c"},
		{"missing", 1, "a"},
	}
	for _, tt := range tests {
		if got := cycle(ids, tt.current, tt.step); got != tt.want {
			t.Errorf("cycle(%q, %d) = %q, want %q", tt.current, tt.step, got, tt.want)
		}
	}
	if got := cycle(nil, "a", 1); got != "" {
		t.Errorf("cycle on empty list = %q", got)
	}
}

func TestTruncateAndPad(t *testing.T) {
	if got := truncateRunesHelper("validator_12", 8, "…"); got != "validat…" {
		t.Errorf("truncate = %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abc…" {
		t.Errorf("padRight overflow = %q", got)
	}
	if got := formatZoom(0.8); got != "80%" {
		t.Errorf("formatZoom = %q", got)
	}
}

func TestLegendListsEveryBinding(t *testing.T) {
	k := defaultKeyMap()
	md := legendMarkdown(k)
	for _, group := range k.FullHelp() {
		for _, b := range group {
			if !strings.Contains(md, b.Help().Desc) {
				t.Errorf("legend missing %q", b.Help().Desc)
			}
		}
	}
}
