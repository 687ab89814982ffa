package hittest

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/viewport"
)

func fixture() (*model.Graph, layout.Positions) {
	g := &model.Graph{Nodes: []model.Node{
		{ID: "you", Kind: model.KindSelf},
		{ID: "pool", Kind: model.KindPool},
		{ID: "v1", Kind: model.KindValidator},
		{ID: "v2", Kind: model.KindValidator},
	}}
	pos := layout.Positions{
		"you":  {X: 0, Y: 0},
		"pool": {X: 100, Y: 0},
		"v1":   {X: 200, Y: 0},
		"v2":   {X: 200, Y: 0},
	}
	return g, pos
}

func TestHitCentreAndMiss(t *testing.T) {
	g, pos := fixture()
	vp := viewport.New(viewport.DefaultLimits())
	vp.Zoom = 1

	tests := []struct {
		name   string
		screen model.Point
		want   string
		ok     bool
	}{
		{"self centre", model.Point{X: 0, Y: 0}, "you", true},
		{"pool edge", model.Point{X: 112, Y: 0}, "pool", true},
		{"just outside pool", model.Point{X: 112.01, Y: 0}, "", false},
		{"empty space", model.Point{X: 50, Y: 50}, "", false},
		{"duplicate position goes to earliest", model.Point{X: 201, Y: 0}, "v1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Test(tt.screen, g, pos, vp, model.Selection{})
			if got != tt.want || ok != tt.ok {
				t.Errorf("Test(%v) = %q, %v; want %q, %v", tt.screen, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHighlightGrowsHitArea(t *testing.T) {
	g, pos := fixture()
	vp := viewport.New(viewport.DefaultLimits())
	vp.Zoom = 1
	p := model.Point{X: 113.5, Y: 0}
	if _, ok := Test(p, g, pos, vp, model.Selection{}); ok {
		t.Fatal("point beyond the plain radius should miss")
	}
	if id, ok := Test(p, g, pos, vp, model.Selection{Hovered: "pool"}); !ok || id != "pool" {
		t.Errorf("hovered pool should be hit at radius 14, got %q %v", id, ok)
	}
}

func TestNearestWins(t *testing.T) {
	g := &model.Graph{Nodes: []model.Node{
		{ID: "a", Kind: model.KindClient},
		{ID: "b", Kind: model.KindClient},
	}}
	pos := layout.Positions{"a": {X: 0, Y: 0}, "b": {X: 15, Y: 0}}
	vp := viewport.New(viewport.DefaultLimits())
	vp.Zoom = 1
	if id, _ := Test(model.Point{X: 9, Y: 0}, g, pos, vp, model.Selection{}); id != "b" {
		t.Errorf("overlap point closer to b resolved to %q", id)
	}
}

func TestEmptyIDIsHittable(t *testing.T) {
	g := &model.Graph{Nodes: []model.Node{
		{ID: "", Kind: model.KindSelf},
		{ID: "far", Kind: model.KindClient},
	}}
	pos := layout.Positions{"": {X: 100, Y: 100}, "far": {X: 106, Y: 100}}
	vp := viewport.New(viewport.DefaultLimits())
	vp.Zoom = 1
	if id, ok := Test(model.Point{X: 100, Y: 100}, g, pos, vp, model.Selection{}); !ok || id != "" {
		t.Errorf("Test(centre) = %q, %v; want \"\", true", id, ok)
	}
}

func TestNilInputs(t *testing.T) {
	g, pos := fixture()
	if _, ok := Test(model.Point{}, nil, pos, viewport.New(viewport.DefaultLimits()), model.Selection{}); ok {
		t.Error("nil graph should never hit")
	}
	if _, ok := Test(model.Point{}, g, pos, nil, model.Selection{}); ok {
		t.Error("nil viewport should never hit")
	}
	if _, ok := Test(model.Point{}, g, nil, viewport.New(viewport.DefaultLimits()), model.Selection{}); ok {
		t.Error("missing positions should never hit")
	}
}

// A point on the drawn boundary always hits, at any zoom and pan.
func TestBoundaryAgreesWithRenderer(t *testing.T) {
	g, pos := fixture()
	rapid.Check(t, func(rt *rapid.T) {
		vp := viewport.New(viewport.DefaultLimits())
		vp.SetZoom(rapid.Float64Range(0.4, 1.8).Draw(rt, "zoom"))
		vp.PanBy(rapid.Float64Range(-300, 300).Draw(rt, "dx"), rapid.Float64Range(-300, 300).Draw(rt, "dy"))
		angle := rapid.Float64Range(0, 2*math.Pi).Draw(rt, "angle")

		// the pool sits alone, 100 world units from its neighbours
		centre := vp.WorldToScreen(pos["pool"])
		r := 12 * vp.Zoom
		on := model.Point{X: centre.X + r*math.Cos(angle), Y: centre.Y + r*math.Sin(angle)}
		if id, ok := Test(on, g, pos, vp, model.Selection{}); !ok || id != "pool" {
			rt.Fatalf("boundary point %v at zoom %v resolved to %q", on, vp.Zoom, id)
		}
		out := model.Point{X: centre.X + (r+1)*math.Cos(angle), Y: centre.Y + (r+1)*math.Sin(angle)}
		if id, ok := Test(out, g, pos, vp, model.Selection{}); ok {
			rt.Fatalf("point outside the pool resolved to %q", id)
		}
	})
}
