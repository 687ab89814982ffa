// Package analysis derives display-only summary statistics for a graph
// snapshot. Nothing here feeds back into layout or rendering.
package analysis

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/netscope/pkg/model"
)

// Stats summarises a snapshot for status bars and export headers.
type Stats struct {
	Nodes             int                `json:"nodes"`
	Edges             int                `json:"edges"` // resolved edges only
	DanglingEdges     int                `json:"dangling_edges"`
	PrivateEdges      int                `json:"private_edges"`
	SelfActivityEdges int                `json:"self_activity_edges"`
	Density           float64            `json:"density"`
	AvgDegree         float64            `json:"avg_degree"`
	MaxDegreeNode     string             `json:"max_degree_node,omitempty"`
	MaxDegree         int                `json:"max_degree"`
	SelfNeighbours    int                `json:"self_neighbours"`
	Components        int                `json:"components"`
	ByKind            map[model.Kind]int `json:"-"`
}

// Analyzer holds a gonum view of one snapshot.
type Analyzer struct {
	g        *simple.DirectedGraph
	snapshot *model.Graph
	idToNode map[string]int64
	nodeToID map[int64]string
	order    []string
}

// NewAnalyzer indexes the distinct nodes and resolved edges of g. Self loops
// are left out of the gonum graph.
func NewAnalyzer(g *model.Graph) *Analyzer {
	dg := simple.NewDirectedGraph()
	a := &Analyzer{
		g:        dg,
		snapshot: g,
		idToNode: make(map[string]int64),
		nodeToID: make(map[int64]string),
	}
	if g == nil {
		return a
	}

	for _, n := range g.Nodes {
		if _, dup := a.idToNode[n.ID]; dup {
			continue
		}
		node := dg.NewNode()
		dg.AddNode(node)
		a.idToNode[n.ID] = node.ID()
		a.nodeToID[node.ID()] = n.ID
		a.order = append(a.order, n.ID)
	}

	for _, e := range g.ResolvedEdges() {
		u, v := a.idToNode[e.From], a.idToNode[e.To]
		if u == v {
			continue
		}
		dg.SetEdge(dg.NewEdge(dg.Node(u), dg.Node(v)))
	}
	return a
}

// Degree returns the number of distinct neighbours of id in either direction.
func (a *Analyzer) Degree(id string) int {
	n, ok := a.idToNode[id]
	if !ok {
		return 0
	}
	seen := make(map[int64]bool)
	for it := a.g.From(n); it.Next(); {
		seen[it.Node().ID()] = true
	}
	for it := a.g.To(n); it.Next(); {
		seen[it.Node().ID()] = true
	}
	return len(seen)
}

// Stats computes the summary.
func (a *Analyzer) Stats() Stats {
	s := Stats{ByKind: make(map[model.Kind]int)}
	g := a.snapshot
	if g == nil {
		return s
	}

	s.Nodes = len(a.order)
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if !seen[n.ID] {
			seen[n.ID] = true
			s.ByKind[n.Kind]++
		}
	}

	resolved := g.ResolvedEdges()
	s.Edges = len(resolved)
	s.DanglingEdges = len(g.Edges) - len(resolved)
	for _, e := range resolved {
		if e.IsPrivate {
			s.PrivateEdges++
		}
		if e.IsSelfActivity {
			s.SelfActivityEdges++
		}
	}

	// unordered pairs: an edge in either direction links the same two nodes
	if s.Nodes > 1 {
		s.Density = float64(s.Edges) / (float64(s.Nodes*(s.Nodes-1)) / 2)
	}

	if s.Nodes > 0 {
		degrees := make([]float64, len(a.order))
		for i, id := range a.order {
			d := a.Degree(id)
			degrees[i] = float64(d)
			if d > s.MaxDegree {
				s.MaxDegree, s.MaxDegreeNode = d, id
			}
		}
		s.AvgDegree = stat.Mean(degrees, nil)
	}

	s.SelfNeighbours = len(g.ConnectedToSelf())
	s.Components = a.components()
	return s
}

// components counts weakly connected components.
func (a *Analyzer) components() int {
	u := simple.NewUndirectedGraph()
	for nodes := a.g.Nodes(); nodes.Next(); {
		u.AddNode(simple.Node(nodes.Node().ID()))
	}
	for edges := a.g.Edges(); edges.Next(); {
		e := edges.Edge()
		u.SetEdge(u.NewEdge(u.Node(e.From().ID()), u.Node(e.To().ID())))
	}
	return len(topo.ConnectedComponents(u))
}

// Compute is a shorthand for NewAnalyzer(g).Stats().
func Compute(g *model.Graph) Stats {
	return NewAnalyzer(g).Stats()
}
