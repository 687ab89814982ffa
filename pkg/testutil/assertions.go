package testutil

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/netscope/pkg/model"
)

// AssertNodeCount verifies the expected number of nodes.
func AssertNodeCount(t *testing.T, g *model.Graph, expected int) {
	t.Helper()
	if len(g.Nodes) != expected {
		t.Errorf("expected %d nodes, got %d", expected, len(g.Nodes))
	}
}

// AssertNoDataErrors verifies the graph validates cleanly.
func AssertNoDataErrors(t *testing.T, g *model.Graph) {
	t.Helper()
	for _, e := range g.Validate() {
		t.Errorf("unexpected data error: %v", e)
	}
}

// AssertEdgeExists verifies that a directed edge from -> to exists.
func AssertEdgeExists(t *testing.T, g *model.Graph, from, to string) {
	t.Helper()
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return
		}
	}
	t.Errorf("expected edge %s -> %s not found", from, to)
}

// AssertPositionsCover verifies pos holds exactly one entry per distinct node
// ID of g and nothing else.
func AssertPositionsCover(t *testing.T, g *model.Graph, pos map[string]model.Point) {
	t.Helper()
	want := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		want[n.ID] = true
	}
	if len(pos) != len(want) {
		t.Errorf("got %d positions for %d distinct nodes", len(pos), len(want))
	}
	for id := range want {
		if _, ok := pos[id]; !ok {
			t.Errorf("no position for node %q", id)
		}
	}
	for id := range pos {
		if !want[id] {
			t.Errorf("position for unknown node %q", id)
		}
	}
}

// AssertPointNear verifies got is within tol of want on each axis.
func AssertPointNear(t *testing.T, got, want model.Point, tol float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol {
		t.Errorf("point %v not within %v of %v", got, tol, want)
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if string(expected) == actual {
		return
	}

	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
			return
		}
	}
}

// WriteGraphFile writes content to name inside dir and returns the path.
func WriteGraphFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write graph file: %v", err)
	}
	return path
}

// NodeIDs returns the IDs of g's nodes in list order.
func NodeIDs(g *model.Graph) []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}
