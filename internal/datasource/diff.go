package datasource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/netscope/pkg/model"
)

// GraphDiff describes how a reloaded snapshot differs from the previous one.
type GraphDiff struct {
	// Added lists node IDs present only in the new snapshot (sorted)
	Added []string
	// Removed lists node IDs present only in the old snapshot (sorted)
	Removed []string
	// Changed lists node IDs whose kind, label or privacy changed (sorted)
	Changed []string

	NodesBefore int
	NodesAfter  int
	EdgesBefore int
	EdgesAfter  int
}

// IsEmpty reports whether the two snapshots carry the same nodes and edge count.
func (d GraphDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 &&
		d.EdgesBefore == d.EdgesAfter
}

// Summary returns a one-line description suitable for a status bar.
func (d GraphDiff) Summary() string {
	if d.IsEmpty() {
		return fmt.Sprintf("no changes (%d nodes, %d edges)", d.NodesAfter, d.EdgesAfter)
	}

	var parts []string
	if len(d.Added) > 0 {
		parts = append(parts, fmt.Sprintf("+%d %s", len(d.Added), plural(len(d.Added), "node")))
	}
	if len(d.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("-%d %s", len(d.Removed), plural(len(d.Removed), "node")))
	}
	if len(d.Changed) > 0 {
		parts = append(parts, fmt.Sprintf("~%d changed", len(d.Changed)))
	}
	if d.EdgesBefore != d.EdgesAfter {
		parts = append(parts, fmt.Sprintf("edges %d→%d", d.EdgesBefore, d.EdgesAfter))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Diff compares two snapshots by node ID. Either side may be nil. Duplicate
// IDs are compared by their first occurrence.
func Diff(before, after *model.Graph) GraphDiff {
	a := firstByID(before)
	b := firstByID(after)

	d := GraphDiff{NodesBefore: len(a), NodesAfter: len(b)}
	if before != nil {
		d.EdgesBefore = len(before.Edges)
	}
	if after != nil {
		d.EdgesAfter = len(after.Edges)
	}

	for id, na := range a {
		nb, ok := b[id]
		if !ok {
			d.Removed = append(d.Removed, id)
			continue
		}
		if na.Kind != nb.Kind || na.Label != nb.Label || na.IsPrivate != nb.IsPrivate {
			d.Changed = append(d.Changed, id)
		}
	}
	for id := range b {
		if _, ok := a[id]; !ok {
			d.Added = append(d.Added, id)
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Changed)
	return d
}

func firstByID(g *model.Graph) map[string]model.Node {
	out := make(map[string]model.Node)
	if g == nil {
		return out
	}
	for _, n := range g.Nodes {
		if _, dup := out[n.ID]; !dup {
			out[n.ID] = n
		}
	}
	return out
}
