// Package render draws a graph scene onto a portable 2D surface.
//
// The renderer only speaks the Surface interface; raster (gg), vector (svgo)
// and recording backends live alongside it and the terminal canvas lives in
// the ui package.
package render

import "image/color"

// Surface is the drawing API the renderer targets. Coordinates are device
// pixels. Path operations accumulate until Stroke or Fill, which consume the
// current path.
type Surface interface {
	Size() (width, height float64)
	Clear(c color.NRGBA)
	SetColor(c color.NRGBA)
	SetLineWidth(w float64)
	// SetDash sets the stroke dash pattern; no arguments means solid.
	SetDash(pattern ...float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc adds a circular arc centred on (x, y), angles in radians.
	Arc(x, y, r, angle1, angle2 float64)
	Stroke()
	Fill()
	// Text draws s centred on (x, y) at the given font size.
	Text(s string, x, y, size float64)
}
