package model

import "fmt"

// Details carries the kind-specific attributes of a node. Exactly one concrete
// type exists per Kind; consumers switch on the concrete type.
type Details interface {
	Kind() Kind
}

// SelfDetails describes the viewer's own account.
type SelfDetails struct {
	Balance        string
	PrivateBalance string
}

// PoolDetails describes a staking pool.
type PoolDetails struct {
	TVL        string
	Validators int
}

// ValidatorDetails describes a validator.
type ValidatorDetails struct {
	Earnings string
	Uptime   string
}

// ClientDetails describes a client account submitting jobs.
type ClientDetails struct {
	Jobs  int
	Spent string
}

func (SelfDetails) Kind() Kind      { return KindSelf }
func (PoolDetails) Kind() Kind      { return KindPool }
func (ValidatorDetails) Kind() Kind { return KindValidator }
func (ClientDetails) Kind() Kind    { return KindClient }

// Node is a vertex of the network graph.
type Node struct {
	ID        string
	Kind      Kind
	Label     string
	IsPrivate bool
	Details   Details // may be nil
}

// Edge is a directed relationship between two nodes.
type Edge struct {
	From           string
	To             string
	Kind           EdgeKind
	Amount         string
	IsPrivate      bool
	IsSelfActivity bool
}

// Graph is an immutable snapshot supplied by the host. Nothing in this module
// mutates a Graph after construction.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Index maps node IDs to their position in Nodes. With duplicate IDs the first
// occurrence wins.
func (g *Graph) Index() map[string]int {
	if g == nil {
		return nil
	}
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, dup := idx[n.ID]; !dup {
			idx[n.ID] = i
		}
	}
	return idx
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	if g == nil {
		return nil, false
	}
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Self returns the first node of kind Self.
func (g *Graph) Self() (*Node, bool) {
	if g == nil {
		return nil, false
	}
	for i := range g.Nodes {
		if g.Nodes[i].Kind == KindSelf {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// ResolvedEdges returns the edges whose endpoints both exist. Dangling edges
// are dropped silently; use Validate to report them.
func (g *Graph) ResolvedEdges() []Edge {
	if g == nil {
		return nil
	}
	idx := g.Index()
	out := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if _, ok := idx[e.From]; !ok {
			continue
		}
		if _, ok := idx[e.To]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ConnectedToSelf returns the set of node IDs sharing an edge with Self.
func (g *Graph) ConnectedToSelf() map[string]bool {
	out := make(map[string]bool)
	self, ok := g.Self()
	if !ok {
		return out
	}
	for _, e := range g.Edges {
		switch self.ID {
		case e.From:
			out[e.To] = true
		case e.To:
			out[e.From] = true
		}
	}
	delete(out, self.ID)
	return out
}

// DataError describes a malformed entry in a graph snapshot. Data errors are
// never fatal: layout and rendering skip the offending entry.
type DataError struct {
	Kind   string // "empty_id", "dangling_edge", "duplicate_id", "self_count"
	Detail string
}

func (e DataError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Validate reports every data error in the snapshot.
func (g *Graph) Validate() []DataError {
	if g == nil {
		return nil
	}
	var errs []DataError
	seen := make(map[string]bool, len(g.Nodes))
	selfCount := 0
	for i, n := range g.Nodes {
		if n.ID == "" {
			errs = append(errs, DataError{Kind: "empty_id", Detail: fmt.Sprintf("node %d has no id", i)})
		}
		if seen[n.ID] {
			errs = append(errs, DataError{Kind: "duplicate_id", Detail: fmt.Sprintf("node %q appears more than once", n.ID)})
		}
		seen[n.ID] = true
		if n.Kind == KindSelf {
			selfCount++
		}
	}
	if len(g.Nodes) > 0 && selfCount != 1 {
		errs = append(errs, DataError{Kind: "self_count", Detail: fmt.Sprintf("expected exactly one self node, found %d", selfCount)})
	}
	for i, e := range g.Edges {
		for _, end := range []string{e.From, e.To} {
			if !seen[end] {
				errs = append(errs, DataError{Kind: "dangling_edge", Detail: fmt.Sprintf("edge %d (%s -> %s) references unknown node %q", i, e.From, e.To, end)})
			}
		}
	}
	return errs
}
