// Package layout computes world-space node positions for a graph snapshot.
//
// Every algorithm is a pure function of its inputs: no randomness, no wall
// clock, and the input graph is never modified. Callers that need to keep a UI
// responsive can run Compute on another goroutine since inputs and outputs are
// plain values.
package layout

import (
	"fmt"
	"strings"
	"time"

	"github.com/vanderheijden86/netscope/pkg/debug"
	"github.com/vanderheijden86/netscope/pkg/metrics"
	"github.com/vanderheijden86/netscope/pkg/model"
)

// Algorithm selects a layout strategy.
type Algorithm string

const (
	Circular      Algorithm = "circular"
	Hierarchical  Algorithm = "hierarchical"
	ForceDirected Algorithm = "force-directed"
)

// Algorithms lists the supported algorithms.
var Algorithms = []Algorithm{Circular, Hierarchical, ForceDirected}

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "circular", "circle":
		return Circular, nil
	case "hierarchical", "tree":
		return Hierarchical, nil
	case "force-directed", "force", "":
		return ForceDirected, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want circular, hierarchical or force-directed)", s)
	}
}

// Bounds is the world-space rectangle a layout fills.
type Bounds struct {
	X, Y          float64
	Width, Height float64
}

// Center returns the centre of the rectangle.
func (b Bounds) Center() model.Point {
	return model.Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// clamp keeps p inside the rectangle shrunk by margin. When the margin leaves
// no room on an axis, that axis collapses to the centre.
func (b Bounds) clamp(p model.Point, margin float64) model.Point {
	c := b.Center()
	return model.Point{
		X: clampAxis(p.X, b.X+margin, b.X+b.Width-margin, c.X),
		Y: clampAxis(p.Y, b.Y+margin, b.Y+b.Height-margin, c.Y),
	}
}

func clampAxis(v, lo, hi, mid float64) float64 {
	if lo > hi {
		return mid
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Positions maps node IDs to world coordinates.
type Positions map[string]model.Point

// Params holds every tunable constant. The defaults reproduce the look of the
// explorer view on a 1000x600 world; none of them is a physical truth.
type Params struct {
	CircularRadius   float64
	HierarchyPadding float64
	Force            ForceParams
}

// ForceParams tunes the force-directed simulation.
type ForceParams struct {
	Iterations        int
	Repulsion         float64
	MinDistance       float64
	Attraction        float64
	IdealEdgeLength   float64
	SelfActivityBoost float64
	Gravity           float64
	Damping           float64
	SelfDamping       float64
	SelfPull          float64
	Margin            float64

	// Initial ring radii around the centre.
	PoolRing      float64
	ValidatorRing float64
	ClientRing    float64
}

// DefaultBounds is the world rectangle used when the host has no preference.
var DefaultBounds = Bounds{Width: 1000, Height: 600}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		CircularRadius:   220,
		HierarchyPadding: 50,
		Force: ForceParams{
			Iterations:        100,
			Repulsion:         2500,
			MinDistance:       50,
			Attraction:        0.15,
			IdealEdgeLength:   80,
			SelfActivityBoost: 1.5,
			Gravity:           0.008,
			Damping:           0.9,
			SelfDamping:       0.1,
			SelfPull:          0.1,
			Margin:            50,
			PoolRing:          120,
			ValidatorRing:     220,
			ClientRing:        280,
		},
	}
}

// Compute returns one position per distinct node ID in g. Unknown algorithm
// values fall back to force-directed.
func Compute(g *model.Graph, algo Algorithm, b Bounds, p Params) Positions {
	if g == nil || len(g.Nodes) == 0 {
		return Positions{}
	}
	nodes := uniqueNodes(g.Nodes)
	defer metrics.TimerWithCallback(metrics.LayoutCompute, func(d time.Duration) {
		debug.Log("layout %s: %d nodes, %d edges in %v", algo, len(nodes), len(g.Edges), d)
	})()

	switch algo {
	case Circular:
		return circular(nodes, b, p.CircularRadius)
	case Hierarchical:
		return hierarchical(nodes, b, p.HierarchyPadding)
	default:
		return forceDirected(nodes, g.Edges, b, p.Force)
	}
}

// uniqueNodes drops repeated IDs, keeping the first occurrence.
func uniqueNodes(in []model.Node) []model.Node {
	seen := make(map[string]bool, len(in))
	out := make([]model.Node, 0, len(in))
	for _, n := range in {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}
