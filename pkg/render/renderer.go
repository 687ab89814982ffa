package render

import (
	"math"
	"time"

	"github.com/vanderheijden86/netscope/pkg/debug"
	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/metrics"
	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/style"
	"github.com/vanderheijden86/netscope/pkg/viewport"
)

// Scene is everything one frame depends on.
type Scene struct {
	Graph      *model.Graph
	Positions  layout.Positions
	Viewport   *viewport.Viewport // nil means the default view
	Selection  model.Selection
	ViewMode   model.ViewMode
	PixelRatio float64 // device pixels per CSS pixel; <= 0 means 1
}

// frame caches the per-render transform.
type frame struct {
	vp    *viewport.Viewport
	ratio float64
	scale float64
}

func (f frame) screen(p model.Point) model.Point {
	return f.vp.WorldToScreen(p).Scale(f.ratio)
}

// Render clears s and draws the whole scene: background, edges, nodes, labels
// and then overlays. Edges with a missing endpoint and nodes without a
// position are skipped.
func Render(s Surface, sc Scene) {
	defer metrics.TimerWithCallback(metrics.Render, func(d time.Duration) {
		debug.LogIf(d > 50*time.Millisecond, "slow render: %v", d)
	})()
	metrics.FramesRendered.Inc()

	s.Clear(style.ColorBackground)
	if sc.Graph == nil || len(sc.Graph.Nodes) == 0 {
		return
	}

	f := frame{vp: sc.Viewport, ratio: sc.PixelRatio}
	if f.vp == nil {
		f.vp = viewport.New(viewport.DefaultLimits())
	}
	if f.ratio <= 0 {
		f.ratio = 1
	}
	f.scale = f.vp.Zoom * f.ratio

	nodes := placedNodes(sc.Graph, sc.Positions)
	at := make(map[string]model.Point, len(nodes))
	for _, n := range nodes {
		at[n.ID] = f.screen(sc.Positions[n.ID])
	}

	drawEdges(s, f, sc.Graph.Edges, at)
	connected := sc.Graph.ConnectedToSelf()
	for _, n := range nodes {
		drawNode(s, f, n, at[n.ID], sc, connected[n.ID])
	}
	for _, n := range nodes {
		drawLabel(s, f, n, at[n.ID], sc)
	}
	if sc.ViewMode == model.ViewPersonal {
		drawPrivateMarkers(s, f, sc.Graph.Edges, at)
	}
}

// placedNodes returns the first node for each ID that has a position.
func placedNodes(g *model.Graph, pos layout.Positions) []model.Node {
	seen := make(map[string]bool, len(g.Nodes))
	out := make([]model.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		if _, ok := pos[n.ID]; ok {
			out = append(out, n)
		}
	}
	return out
}

func drawEdges(s Surface, f frame, edges []model.Edge, at map[string]model.Point) {
	for _, e := range edges {
		a, ok := at[e.From]
		if !ok {
			continue
		}
		b, ok := at[e.To]
		if !ok {
			continue
		}
		st := style.ForEdge(e)
		s.SetColor(st.Color)
		s.SetLineWidth(st.Width * f.scale)
		s.SetDash(scaled(st.Dash, f.scale)...)
		s.MoveTo(a.X, a.Y)
		s.LineTo(b.X, b.Y)
		s.Stroke()
	}
	s.SetDash()
}

func drawNode(s Surface, f frame, n model.Node, p model.Point, sc Scene, connected bool) {
	r := style.NodeRadius(n.Kind, sc.Selection.Highlighted(n.ID)) * f.scale

	if n.Kind == model.KindSelf {
		s.SetColor(style.ColorSelfGlow)
		circle(s, p, r+style.SelfGlowGrowth*f.scale)
		s.Fill()
	}

	s.SetColor(style.NodeFill(n.Kind, connected, sc.ViewMode))
	circle(s, p, r)
	s.Fill()

	switch {
	case n.ID != "" && n.ID == sc.Selection.Selected:
		s.SetColor(style.ColorSelectedRing)
		s.SetLineWidth(2 * f.scale)
	case n.ID != "" && n.ID == sc.Selection.Hovered:
		s.SetColor(style.ColorHoverRing)
		s.SetLineWidth(1.5 * f.scale)
	default:
		return
	}
	circle(s, p, r)
	s.Stroke()
}

func drawLabel(s Surface, f frame, n model.Node, p model.Point, sc Scene) {
	label := style.DisplayLabel(n, sc.ViewMode)
	if label == "" {
		return
	}
	r := style.NodeRadius(n.Kind, sc.Selection.Highlighted(n.ID))
	s.SetColor(style.ColorLabel)
	s.Text(label, p.X, p.Y+(r+style.LabelOffset)*f.scale, style.LabelSize*f.scale)
}

func drawPrivateMarkers(s Surface, f frame, edges []model.Edge, at map[string]model.Point) {
	for _, e := range edges {
		if !e.IsPrivate || !e.IsSelfActivity {
			continue
		}
		a, ok := at[e.From]
		if !ok {
			continue
		}
		b, ok := at[e.To]
		if !ok {
			continue
		}
		m := a.Mid(b)
		s.SetColor(style.ColorMarker)
		s.Text(style.PrivateEdgeMarker, m.X, m.Y-style.MarkerLift*f.scale, style.MarkerSize*f.scale)
	}
}

func circle(s Surface, p model.Point, r float64) {
	s.MoveTo(p.X+r, p.Y)
	s.Arc(p.X, p.Y, r, 0, 2*math.Pi)
}

func scaled(pattern []float64, k float64) []float64 {
	if len(pattern) == 0 {
		return nil
	}
	out := make([]float64, len(pattern))
	for i, v := range pattern {
		out[i] = v * k
	}
	return out
}
