package layout

import (
	"sort"

	"github.com/vanderheijden86/netscope/pkg/model"
)

// hierarchical stacks one horizontal band per kind: Self on top, then pools,
// validators and clients. Empty levels take no space.
func hierarchical(nodes []model.Node, b Bounds, padding float64) Positions {
	levels := make(map[int][]model.Node)
	for _, n := range nodes {
		o := n.Kind.Order()
		levels[o] = append(levels[o], n)
	}
	order := make([]int, 0, len(levels))
	for o := range levels {
		order = append(order, o)
	}
	sort.Ints(order)

	if padding < 0 || 2*padding > b.Width {
		padding = 0
	}
	bandH := b.Height / float64(len(order))
	out := make(Positions, len(nodes))
	for li, o := range order {
		level := levels[o]
		y := b.Y + bandH*(float64(li)+0.5)
		if len(level) == 1 {
			out[level[0].ID] = model.Point{X: b.X + b.Width/2, Y: y}
			continue
		}
		spacing := (b.Width - 2*padding) / float64(len(level)-1)
		for i, n := range level {
			out[n.ID] = model.Point{X: b.X + padding + float64(i)*spacing, Y: y}
		}
	}
	return out
}
