// Package viewport holds the zoom and pan state that maps world coordinates to
// screen coordinates.
package viewport

import (
	"math"

	"github.com/vanderheijden86/netscope/pkg/model"
)

// Limits bounds and steps the zoom and pan. Out-of-range requests are clamped,
// never rejected.
type Limits struct {
	Min            float64
	Max            float64
	Default        float64
	WheelStep      float64
	ButtonStep     float64
	WheelThreshold float64
	MaxPan         float64 // 0 disables pan clamping
}

// DefaultLimits returns the stock zoom range and steps.
func DefaultLimits() Limits {
	return Limits{
		Min:            0.4,
		Max:            1.8,
		Default:        0.8,
		WheelStep:      0.05,
		ButtonStep:     0.15,
		WheelThreshold: 20,
		MaxPan:         4000,
	}
}

// Viewport is the screen transform: screen = world*Zoom + Pan.
type Viewport struct {
	Zoom   float64
	Pan    model.Point
	Limits Limits
}

// New returns a viewport at the default zoom with no pan.
func New(l Limits) *Viewport {
	v := &Viewport{Limits: l}
	v.Reset()
	return v
}

// WorldToScreen maps a world point into screen space.
func (v *Viewport) WorldToScreen(p model.Point) model.Point {
	return p.Scale(v.Zoom).Add(v.Pan)
}

// ScreenToWorld maps a screen point back into world space.
func (v *Viewport) ScreenToWorld(p model.Point) model.Point {
	return p.Sub(v.Pan).Scale(1 / v.Zoom)
}

// SetZoom clamps z into the allowed range. It reports whether the zoom changed.
func (v *Viewport) SetZoom(z float64) bool {
	z = v.clampZoom(z)
	if z == v.Zoom {
		return false
	}
	v.Zoom = z
	return true
}

func (v *Viewport) clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return v.Limits.Default
	}
	return math.Max(v.Limits.Min, math.Min(v.Limits.Max, z))
}

// Wheel applies one zoom step for a scroll event. Deltas smaller than the
// threshold are ignored; scrolling down (positive delta) zooms out. The world
// point under at stays fixed on screen.
func (v *Viewport) Wheel(deltaY float64, at model.Point) bool {
	if math.Abs(deltaY) < v.Limits.WheelThreshold {
		return false
	}
	step := v.Limits.WheelStep
	if deltaY > 0 {
		step = -step
	}
	anchor := v.ScreenToWorld(at)
	if !v.SetZoom(v.Zoom + step) {
		return false
	}
	// keep anchor under the cursor
	v.setPan(at.Sub(anchor.Scale(v.Zoom)))
	return true
}

// ZoomIn applies one button step.
func (v *Viewport) ZoomIn() bool {
	return v.SetZoom(v.Zoom + v.Limits.ButtonStep)
}

// ZoomOut applies one button step.
func (v *Viewport) ZoomOut() bool {
	return v.SetZoom(v.Zoom - v.Limits.ButtonStep)
}

// PanBy moves the view by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) bool {
	before := v.Pan
	v.setPan(model.Point{X: v.Pan.X + dx, Y: v.Pan.Y + dy})
	return v.Pan != before
}

func (v *Viewport) setPan(p model.Point) {
	if m := v.Limits.MaxPan; m > 0 {
		p.X = math.Max(-m, math.Min(m, p.X))
		p.Y = math.Max(-m, math.Min(m, p.Y))
	}
	v.Pan = p
}

// Reset restores the default zoom and removes any pan.
func (v *Viewport) Reset() {
	v.Zoom = v.clampZoom(v.Limits.Default)
	v.Pan = model.Point{}
}
