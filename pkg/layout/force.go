package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/netscope/pkg/model"
)

type body struct {
	id   string
	self bool
	pos  r2.Vec
	vel  r2.Vec
}

type spring struct {
	from, to int
	boost    float64
}

// forceDirected runs a bounded spring-electrical simulation. Nodes start on
// concentric rings by kind so the result is stable from run to run.
func forceDirected(nodes []model.Node, edges []model.Edge, b Bounds, p ForceParams) Positions {
	c := b.Center()
	center := r2.Vec{X: c.X, Y: c.Y}
	bodies := initialRings(nodes, center, p)

	index := make(map[string]int, len(bodies))
	for i, bd := range bodies {
		index[bd.id] = i
	}
	springs := make([]spring, 0, len(edges))
	for _, e := range edges {
		from, ok := index[e.From]
		if !ok {
			continue
		}
		to, ok := index[e.To]
		if !ok {
			continue
		}
		boost := 1.0
		if e.IsSelfActivity {
			boost = p.SelfActivityBoost
		}
		springs = append(springs, spring{from: from, to: to, boost: boost})
	}

	iterations := p.Iterations
	for iter := 0; iter < iterations; iter++ {
		cooling := math.Pow(1-float64(iter)/float64(iterations), 1.5)

		// pairwise repulsion
		for i := 0; i < len(bodies); i++ {
			for j := i + 1; j < len(bodies); j++ {
				d := r2.Sub(bodies[j].pos, bodies[i].pos)
				dist := nonZero(r2.Norm(d))
				eff := math.Max(dist, p.MinDistance)
				force := p.Repulsion / (eff * eff) * cooling
				f := r2.Scale(force/dist, d)
				bodies[i].vel = r2.Sub(bodies[i].vel, f)
				bodies[j].vel = r2.Add(bodies[j].vel, f)
			}
		}

		// springs toward the ideal edge length
		for _, s := range springs {
			from, to := &bodies[s.from], &bodies[s.to]
			d := r2.Sub(to.pos, from.pos)
			dist := nonZero(r2.Norm(d))
			force := (dist - p.IdealEdgeLength) * p.Attraction * cooling * s.boost
			f := r2.Scale(force/dist, d)
			from.vel = r2.Add(from.vel, f)
			to.vel = r2.Sub(to.vel, f)
		}

		// centre gravity
		for i := range bodies {
			pull := r2.Sub(center, bodies[i].pos)
			bodies[i].vel = r2.Add(bodies[i].vel, r2.Scale(p.Gravity*cooling, pull))
		}

		for i := range bodies {
			bd := &bodies[i]
			if bd.self {
				bd.vel = r2.Scale(p.SelfDamping, bd.vel)
				bd.vel = r2.Add(bd.vel, r2.Scale(p.SelfPull, r2.Sub(center, bd.pos)))
			}
			bd.pos = r2.Add(bd.pos, bd.vel)
			bd.vel = r2.Scale(p.Damping, bd.vel)

			clamped := b.clamp(model.Point{X: bd.pos.X, Y: bd.pos.Y}, p.Margin)
			bd.pos = r2.Vec{X: clamped.X, Y: clamped.Y}
		}
	}

	out := make(Positions, len(bodies))
	for _, bd := range bodies {
		out[bd.id] = model.Point{X: bd.pos.X, Y: bd.pos.Y}
	}
	return out
}

// initialRings seeds Self at the centre, pools on the inner ring starting at
// the top, validators on the middle ring and clients on the outer ring offset
// by 45 degrees.
func initialRings(nodes []model.Node, center r2.Vec, p ForceParams) []body {
	counts := make(map[model.Kind]int)
	for _, n := range nodes {
		counts[n.Kind]++
	}
	seen := make(map[model.Kind]int)

	bodies := make([]body, len(nodes))
	for i, n := range nodes {
		k := seen[n.Kind]
		seen[n.Kind]++
		frac := 2 * math.Pi * float64(k) / float64(counts[n.Kind])

		var radius, angle float64
		switch n.Kind {
		case model.KindSelf:
			radius = 0
		case model.KindPool:
			radius, angle = p.PoolRing, frac-math.Pi/2
		case model.KindValidator:
			radius, angle = p.ValidatorRing, frac
		default:
			radius, angle = p.ClientRing, frac+math.Pi/4
		}
		bodies[i] = body{
			id:   n.ID,
			self: n.Kind == model.KindSelf,
			pos:  r2.Add(center, r2.Vec{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}),
		}
	}
	return bodies
}

// nonZero substitutes 1 for a zero distance so direction math never divides
// by zero.
func nonZero(d float64) float64 {
	if d == 0 {
		return 1
	}
	return d
}
