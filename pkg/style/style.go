// Package style holds the visual constants shared by the renderer and the
// hit-tester. NodeRadius is the single source of truth for how large a node is
// drawn, so clicking exactly where a node appears always selects it.
package style

import (
	"fmt"
	"image/color"

	"github.com/vanderheijden86/netscope/pkg/model"
)

// Node radii in world units.
const (
	RadiusSelf      = 16.0
	RadiusPool      = 12.0
	RadiusDefault   = 10.0
	HighlightGrowth = 2.0
	SelfGlowGrowth  = 6.0

	LabelSize   = 9.0
	LabelOffset = 10.0
	MarkerSize  = 8.0
	MarkerLift  = 4.0
)

// MaskedLabel replaces private labels in personal view.
const MaskedLabel = "•••••••"

// PrivateEdgeMarker is drawn at the midpoint of the viewer's private edges.
const PrivateEdgeMarker = "? → ?"

// NodeRadius returns the drawn radius of a node in world units.
func NodeRadius(k model.Kind, highlighted bool) float64 {
	r := RadiusDefault
	switch k {
	case model.KindSelf:
		r = RadiusSelf
	case model.KindPool:
		r = RadiusPool
	}
	if highlighted {
		r += HighlightGrowth
	}
	return r
}

// EdgeStyle describes how an edge is stroked.
type EdgeStyle struct {
	Color color.NRGBA
	Width float64
	Dash  []float64 // nil means solid
}

var (
	ColorBackground   = color.NRGBA{0x0a, 0x0b, 0x0f, 0xff}
	ColorSelf         = color.NRGBA{0x3b, 0x82, 0xf6, 0xff}
	ColorSelfGlow     = color.NRGBA{0x3b, 0x82, 0xf6, 0x26} // 15%
	ColorPool         = color.NRGBA{0x10, 0xb9, 0x81, 0xff}
	ColorConnected    = color.NRGBA{0xa3, 0xe6, 0x35, 0xff}
	ColorOther        = color.NRGBA{0xd1, 0xd5, 0xdb, 0xff}
	ColorSelectedRing = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	ColorHoverRing    = color.NRGBA{0xff, 0xff, 0xff, 0x99} // 60%
	ColorLabel        = color.NRGBA{0xff, 0xff, 0xff, 0x80} // 50%
	ColorMarker       = color.NRGBA{0x8b, 0x5c, 0xf6, 0xff}

	EdgeSelfActivity = EdgeStyle{Color: color.NRGBA{0x3b, 0x82, 0xf6, 0xff}, Width: 2.5}
	EdgePrivate      = EdgeStyle{Color: color.NRGBA{0x8b, 0x5c, 0xf6, 0x66}, Width: 1, Dash: []float64{4, 4}}
	EdgePublic       = EdgeStyle{Color: color.NRGBA{0xff, 0xff, 0xff, 0x1f}, Width: 1}
)

// ForEdge picks the edge style; the first matching rule wins.
func ForEdge(e model.Edge) EdgeStyle {
	switch {
	case e.IsSelfActivity:
		return EdgeSelfActivity
	case e.IsPrivate:
		return EdgePrivate
	default:
		return EdgePublic
	}
}

// NodeFill returns the fill colour of a node.
func NodeFill(k model.Kind, connectedToSelf bool, mode model.ViewMode) color.NRGBA {
	switch {
	case k == model.KindSelf:
		return ColorSelf
	case k == model.KindPool:
		return ColorPool
	case connectedToSelf && mode == model.ViewPersonal:
		return ColorConnected
	default:
		return ColorOther
	}
}

// DisplayLabel returns the text shown under a node. The node itself is not
// modified.
func DisplayLabel(n model.Node, mode model.ViewMode) string {
	if mode == model.ViewPersonal && n.IsPrivate && n.Kind != model.KindSelf {
		return MaskedLabel
	}
	return n.Label
}

// Hex formats a colour as #rrggbb, dropping alpha.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opacity returns the alpha channel as a 0..1 fraction.
func Opacity(c color.NRGBA) float64 {
	return float64(c.A) / 255
}
