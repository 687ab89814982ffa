// Package interact turns pointer and wheel events into viewport changes,
// hover and selection for one graph scene.
//
// Every handler runs synchronously on the caller's goroutine; the controller
// starts no goroutines of its own.
package interact

import (
	"math"

	"github.com/vanderheijden86/netscope/pkg/debug"
	"github.com/vanderheijden86/netscope/pkg/hittest"
	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/render"
	"github.com/vanderheijden86/netscope/pkg/viewport"
)

// State is the pointer state.
type State int

const (
	Idle State = iota
	Panning
)

func (s State) String() string {
	if s == Panning {
		return "panning"
	}
	return "idle"
}

// DefaultDragThreshold is how far, in CSS pixels, the pointer may travel
// between press and release and still count as a click.
const DefaultDragThreshold = 4.0

// Options configures a Controller.
type Options struct {
	Algorithm     layout.Algorithm
	ViewMode      model.ViewMode
	Bounds        layout.Bounds
	Params        layout.Params
	Limits        viewport.Limits
	PixelRatio    float64
	DragThreshold float64

	// OnSelect fires after a click resolves, with ok false when the click
	// landed on empty space.
	OnSelect func(id string, ok bool)
	// OnRender fires whenever the scene needs to be redrawn.
	OnRender func()
}

// DefaultOptions returns the stock controller settings.
func DefaultOptions() Options {
	return Options{
		Algorithm:     layout.ForceDirected,
		ViewMode:      model.ViewGlobal,
		Bounds:        layout.DefaultBounds,
		Params:        layout.DefaultParams(),
		Limits:        viewport.DefaultLimits(),
		PixelRatio:    1,
		DragThreshold: DefaultDragThreshold,
	}
}

// Controller owns the interactive state of one scene.
type Controller struct {
	opts      Options
	graph     *model.Graph
	positions layout.Positions
	vp        *viewport.Viewport
	sel       model.Selection
	algo      layout.Algorithm
	mode      model.ViewMode

	state  State
	anchor model.Point // last pointer position while panning
	press  model.Point // where the current press started
}

// New returns an idle controller with no graph.
func New(opts Options) *Controller {
	if opts.DragThreshold <= 0 {
		opts.DragThreshold = DefaultDragThreshold
	}
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 1
	}
	if opts.ViewMode == "" {
		opts.ViewMode = model.ViewGlobal
	}
	if opts.Algorithm == "" {
		opts.Algorithm = layout.ForceDirected
	}
	if opts.Bounds.Width <= 0 || opts.Bounds.Height <= 0 {
		opts.Bounds = layout.DefaultBounds
	}
	if opts.Params == (layout.Params{}) {
		opts.Params = layout.DefaultParams()
	}
	if opts.Limits == (viewport.Limits{}) {
		opts.Limits = viewport.DefaultLimits()
	}
	return &Controller{
		opts:      opts,
		vp:        viewport.New(opts.Limits),
		algo:      opts.Algorithm,
		mode:      opts.ViewMode,
		positions: layout.Positions{},
	}
}

// Accessors for hosts that draw their own chrome.
func (c *Controller) Graph() *model.Graph          { return c.graph }
func (c *Controller) Positions() layout.Positions  { return c.positions }
func (c *Controller) Viewport() *viewport.Viewport { return c.vp }
func (c *Controller) Selection() model.Selection   { return c.sel }
func (c *Controller) Algorithm() layout.Algorithm  { return c.algo }
func (c *Controller) ViewMode() model.ViewMode     { return c.mode }
func (c *Controller) State() State                 { return c.state }
func (c *Controller) Bounds() layout.Bounds        { return c.opts.Bounds }
func (c *Controller) LayoutParams() layout.Params  { return c.opts.Params }
func (c *Controller) DragThreshold() float64       { return c.opts.DragThreshold }

// SetOnSelect replaces the selection callback.
func (c *Controller) SetOnSelect(f func(id string, ok bool)) { c.opts.OnSelect = f }

// SetOnRender replaces the redraw callback.
func (c *Controller) SetOnRender(f func()) { c.opts.OnRender = f }

func (c *Controller) requestRender() {
	if c.opts.OnRender != nil {
		c.opts.OnRender()
	}
}

func (c *Controller) hit(p model.Point) (string, bool) {
	return hittest.Test(p, c.graph, c.positions, c.vp, c.sel)
}

// PointerDown starts a potential drag or click at p.
func (c *Controller) PointerDown(p model.Point) {
	c.state = Panning
	c.anchor = p
	c.press = p
}

// PointerMove pans while a button is held and tracks hover otherwise.
func (c *Controller) PointerMove(p model.Point) {
	if c.state == Panning {
		d := p.Sub(c.anchor)
		c.anchor = p
		if c.vp.PanBy(d.X, d.Y) {
			c.requestRender()
		}
		return
	}
	id, _ := c.hit(p)
	if id != c.sel.Hovered {
		c.sel.Hovered = id
		c.requestRender()
	}
}

// PointerUp ends a press. A release close to the press point is a click and
// selects the node under it, or clears the selection on empty space.
func (c *Controller) PointerUp(p model.Point) {
	if c.state != Panning {
		return
	}
	c.state = Idle
	travel := math.Sqrt(p.DistSq(c.press))
	if travel > c.opts.DragThreshold {
		return
	}
	id, ok := c.hit(p)
	c.sel.Selected = id
	debug.Log("click at %v selected %q", p, id)
	if c.opts.OnSelect != nil {
		c.opts.OnSelect(id, ok)
	}
	c.requestRender()
}

// PointerLeave ends any drag and clears hover.
func (c *Controller) PointerLeave() {
	c.state = Idle
	if c.sel.Hovered != "" {
		c.sel.Hovered = ""
		c.requestRender()
	}
}

// Wheel zooms one step around p.
func (c *Controller) Wheel(deltaY float64, p model.Point) {
	if c.vp.Wheel(deltaY, p) {
		c.requestRender()
	}
}

// ZoomIn applies one button zoom step.
func (c *Controller) ZoomIn() {
	if c.vp.ZoomIn() {
		c.requestRender()
	}
}

// ZoomOut applies one button zoom step.
func (c *Controller) ZoomOut() {
	if c.vp.ZoomOut() {
		c.requestRender()
	}
}

// PanBy moves the view, for keyboard panning.
func (c *Controller) PanBy(dx, dy float64) {
	if c.vp.PanBy(dx, dy) {
		c.requestRender()
	}
}

// ResetView restores the default zoom and pan.
func (c *Controller) ResetView() {
	c.vp.Reset()
	c.requestRender()
}

// SetGraph replaces the snapshot and recomputes the layout on the calling
// goroutine.
func (c *Controller) SetGraph(g *model.Graph) {
	c.Load(g, layout.Compute(g, c.algo, c.opts.Bounds, c.opts.Params))
}

// Load installs a snapshot together with positions computed elsewhere.
// Selection is cleared when the snapshot identity changes.
func (c *Controller) Load(g *model.Graph, pos layout.Positions) {
	if g != c.graph {
		c.sel = model.Selection{}
	}
	c.graph = g
	if pos == nil {
		pos = layout.Positions{}
	}
	c.positions = pos
	c.requestRender()
}

// SetAlgorithm switches the layout algorithm and recomputes positions.
func (c *Controller) SetAlgorithm(a layout.Algorithm) {
	c.algo = a
	c.positions = layout.Compute(c.graph, a, c.opts.Bounds, c.opts.Params)
	c.requestRender()
}

// SetAlgorithmWith switches the algorithm using positions computed elsewhere.
func (c *Controller) SetAlgorithmWith(a layout.Algorithm, pos layout.Positions) {
	c.algo = a
	c.Load(c.graph, pos)
}

// SetViewMode switches between global and personal rendering.
func (c *Controller) SetViewMode(m model.ViewMode) {
	if m == c.mode {
		return
	}
	c.mode = m
	c.requestRender()
}

// Select sets the selection directly, for keyboard navigation. An unknown ID
// clears it.
func (c *Controller) Select(id string) {
	if _, ok := c.graph.Node(id); !ok {
		id = ""
	}
	if id == c.sel.Selected {
		return
	}
	c.sel.Selected = id
	if c.opts.OnSelect != nil {
		c.opts.OnSelect(id, id != "")
	}
	c.requestRender()
}

// Scene returns the current frame description.
func (c *Controller) Scene() render.Scene {
	return render.Scene{
		Graph:      c.graph,
		Positions:  c.positions,
		Viewport:   c.vp,
		Selection:  c.sel,
		ViewMode:   c.mode,
		PixelRatio: c.opts.PixelRatio,
	}
}

// Frame renders the current scene onto s.
func (c *Controller) Frame(s render.Surface) {
	render.Render(s, c.Scene())
}
