// Package testutil provides test fixture generators for network graphs.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/netscope/pkg/model"
)

// GeneratorConfig controls graph generation.
type GeneratorConfig struct {
	Seed         int64   // Random seed for determinism
	PrivateRatio float64 // Share of nodes and edges flagged private
	SelfID       string  // ID of the Self node (default: "you")
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:         42, // Deterministic
		PrivateRatio: 0.3,
		SelfID:       "you",
	}
}

// Generator creates network graphs with various shapes.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// New creates a generator with the given config.
func New(config GeneratorConfig) *Generator {
	if config.SelfID == "" {
		config.SelfID = "you"
	}
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// NewDefault creates a generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) private() bool {
	return g.rng.Float64() < g.config.PrivateRatio
}

func (g *Generator) self() model.Node {
	return model.Node{
		ID:        g.config.SelfID,
		Kind:      model.KindSelf,
		Label:     "0x06df...fefe",
		IsPrivate: true,
		Details:   model.SelfDetails{Balance: "258.06", PrivateBalance: "142.50"},
	}
}

func (g *Generator) edge(from, to string, kind model.EdgeKind) model.Edge {
	return model.Edge{
		From:           from,
		To:             to,
		Kind:           kind,
		Amount:         fmt.Sprintf("%d", 10+g.rng.Intn(990)),
		IsPrivate:      g.private(),
		IsSelfActivity: from == g.config.SelfID || to == g.config.SelfID,
	}
}

// SelfOnly returns a graph holding only the Self node.
func (g *Generator) SelfOnly() *model.Graph {
	return &model.Graph{Nodes: []model.Node{g.self()}}
}

// Star returns Self connected to n clients by payment edges.
func (g *Generator) Star(n int) *model.Graph {
	gr := &model.Graph{Nodes: []model.Node{g.self()}}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("client_%d", i)
		gr.Nodes = append(gr.Nodes, model.Node{
			ID:        id,
			Kind:      model.KindClient,
			Label:     fmt.Sprintf("0xc%03d", i),
			IsPrivate: g.private(),
			Details:   model.ClientDetails{Jobs: g.rng.Intn(200), Spent: fmt.Sprintf("%d", g.rng.Intn(5000))},
		})
		gr.Edges = append(gr.Edges, g.edge(g.config.SelfID, id, model.EdgePayment))
	}
	return gr
}

// Network returns an explorer-shaped graph: Self stakes into some pools,
// every validator delegates to a pool, clients submit jobs to validators and
// Self pays a few clients.
func (g *Generator) Network(pools, validators, clients int) *model.Graph {
	gr := &model.Graph{Nodes: []model.Node{g.self()}}
	selfID := g.config.SelfID

	for i := 1; i <= pools; i++ {
		id := fmt.Sprintf("pool_%d", i)
		gr.Nodes = append(gr.Nodes, model.Node{
			ID:      id,
			Kind:    model.KindPool,
			Label:   fmt.Sprintf("0xp%03d", i),
			Details: model.PoolDetails{TVL: fmt.Sprintf("%d", 1000+g.rng.Intn(200000)), Validators: 1 + g.rng.Intn(40)},
		})
		if i%2 == 1 {
			gr.Edges = append(gr.Edges, g.edge(selfID, id, model.EdgeStake))
		}
	}
	for i := 1; i <= validators; i++ {
		id := fmt.Sprintf("validator_%d", i)
		gr.Nodes = append(gr.Nodes, model.Node{
			ID:        id,
			Kind:      model.KindValidator,
			Label:     fmt.Sprintf("0xv%03d", i),
			IsPrivate: g.private(),
			Details:   model.ValidatorDetails{Earnings: fmt.Sprintf("%d.%d/day", g.rng.Intn(30), g.rng.Intn(10)), Uptime: "99.5%"},
		})
		if pools > 0 {
			gr.Edges = append(gr.Edges, g.edge(fmt.Sprintf("pool_%d", 1+(i-1)%pools), id, model.EdgeDelegation))
		}
	}
	for i := 1; i <= clients; i++ {
		id := fmt.Sprintf("client_%d", i)
		gr.Nodes = append(gr.Nodes, model.Node{
			ID:        id,
			Kind:      model.KindClient,
			Label:     fmt.Sprintf("0xc%03d", i),
			IsPrivate: g.private(),
			Details:   model.ClientDetails{Jobs: g.rng.Intn(200), Spent: fmt.Sprintf("%d", g.rng.Intn(5000))},
		})
		if validators > 0 {
			gr.Edges = append(gr.Edges, g.edge(id, fmt.Sprintf("validator_%d", 1+g.rng.Intn(validators)), model.EdgeJob))
		}
		if i%3 == 0 {
			gr.Edges = append(gr.Edges, g.edge(selfID, id, model.EdgePayment))
		}
	}
	return gr
}

// WithDangling returns a copy of gr with an extra edge pointing at a node
// that does not exist.
func WithDangling(gr *model.Graph, from string) *model.Graph {
	out := &model.Graph{
		Nodes: append([]model.Node(nil), gr.Nodes...),
		Edges: append([]model.Edge(nil), gr.Edges...),
	}
	out.Edges = append(out.Edges, model.Edge{From: from, To: "ghost", Kind: model.EdgePayment})
	return out
}

// RapidGraph draws arbitrary small graphs for property tests. Node IDs may
// repeat and edges may dangle, so consumers see the malformed inputs too.
func RapidGraph() *rapid.Generator[*model.Graph] {
	return rapid.Custom(func(t *rapid.T) *model.Graph {
		n := rapid.IntRange(0, 24).Draw(t, "nodes")
		gr := &model.Graph{}
		for i := 0; i < n; i++ {
			kind := model.Kind(rapid.IntRange(0, len(model.Kinds)-1).Draw(t, "kind"))
			id := fmt.Sprintf("n%d", rapid.IntRange(0, n+2).Draw(t, "id"))
			gr.Nodes = append(gr.Nodes, model.Node{
				ID:        id,
				Kind:      kind,
				Label:     id,
				IsPrivate: rapid.Bool().Draw(t, "private"),
			})
		}
		m := rapid.IntRange(0, 2*n+1).Draw(t, "edges")
		for i := 0; i < m; i++ {
			gr.Edges = append(gr.Edges, model.Edge{
				From:           fmt.Sprintf("n%d", rapid.IntRange(0, n+2).Draw(t, "from")),
				To:             fmt.Sprintf("n%d", rapid.IntRange(0, n+2).Draw(t, "to")),
				IsPrivate:      rapid.Bool().Draw(t, "edge_private"),
				IsSelfActivity: rapid.Bool().Draw(t, "edge_self"),
			})
		}
		return gr
	})
}
