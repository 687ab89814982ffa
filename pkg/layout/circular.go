package layout

import (
	"math"
	"sort"

	"github.com/vanderheijden86/netscope/pkg/model"
)

// circular places Self at the top of a ring and walks clockwise through the
// remaining nodes grouped by kind.
func circular(nodes []model.Node, b Bounds, radius float64) Positions {
	if radius <= 0 {
		radius = 0.4 * math.Min(b.Width, b.Height)
	}
	sorted := make([]model.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Kind.Order() < sorted[j].Kind.Order()
	})

	c := b.Center()
	step := 2 * math.Pi / float64(len(sorted))
	out := make(Positions, len(sorted))
	for i, n := range sorted {
		angle := -math.Pi/2 + float64(i)*step
		out[n.ID] = model.Point{
			X: c.X + radius*math.Cos(angle),
			Y: c.Y + radius*math.Sin(angle),
		}
	}
	return out
}
