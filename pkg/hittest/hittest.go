// Package hittest resolves which node, if any, lies under a screen point.
package hittest

import (
	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/metrics"
	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/style"
	"github.com/vanderheijden86/netscope/pkg/viewport"
)

// Tolerance absorbs floating-point error on the drawn boundary.
const Tolerance = 1e-9

// Test returns the node nearest to screen whose drawn circle contains it.
// The radius is the one the renderer uses, including the highlight growth for
// hovered or selected nodes, so the boundary is inclusive. Ties go to the
// earliest node in g.
func Test(screen model.Point, g *model.Graph, pos layout.Positions, vp *viewport.Viewport, sel model.Selection) (string, bool) {
	if g == nil || vp == nil || vp.Zoom <= 0 {
		return "", false
	}
	defer metrics.Timer(metrics.HitTest)()

	world := vp.ScreenToWorld(screen)
	best, bestDist, found := "", 0.0, false
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		p, ok := pos[n.ID]
		if !ok {
			continue
		}
		r := style.NodeRadius(n.Kind, sel.Highlighted(n.ID)) + Tolerance
		d := p.DistSq(world)
		if d > r*r {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = n.ID, d, true
		}
	}
	if !found {
		metrics.HitsMissed.Inc()
		return "", false
	}
	metrics.HitsResolved.Inc()
	return best, true
}
