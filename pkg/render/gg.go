package render

import (
	"image"
	"image/color"
	"io"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

// basicfont glyphs are 13px tall; Text scales around that.
const ggFontHeight = 13.0

// GGSurface rasterises onto an in-memory image with gg.
type GGSurface struct {
	dc *gg.Context
}

// NewGGSurface allocates a width x height raster surface.
func NewGGSurface(width, height int) *GGSurface {
	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)
	return &GGSurface{dc: dc}
}

func (s *GGSurface) Size() (float64, float64) {
	return float64(s.dc.Width()), float64(s.dc.Height())
}

func (s *GGSurface) Clear(c color.NRGBA) {
	s.dc.ClearPath()
	s.dc.SetColor(c)
	s.dc.Clear()
}

func (s *GGSurface) SetColor(c color.NRGBA)     { s.dc.SetColor(c) }
func (s *GGSurface) SetLineWidth(w float64)     { s.dc.SetLineWidth(w) }
func (s *GGSurface) SetDash(pattern ...float64) { s.dc.SetDash(pattern...) }
func (s *GGSurface) MoveTo(x, y float64)        { s.dc.MoveTo(x, y) }
func (s *GGSurface) LineTo(x, y float64)        { s.dc.LineTo(x, y) }
func (s *GGSurface) Stroke()                    { s.dc.Stroke() }
func (s *GGSurface) Fill()                      { s.dc.Fill() }

func (s *GGSurface) Arc(x, y, r, a1, a2 float64) {
	s.dc.DrawArc(x, y, r, a1, a2)
}

func (s *GGSurface) Text(str string, x, y, size float64) {
	if size <= 0 {
		return
	}
	k := size / ggFontHeight
	s.dc.Push()
	s.dc.ScaleAbout(k, k, x, y)
	s.dc.DrawStringAnchored(asciiFallback(str), x, y, 0.5, 0.5)
	s.dc.Pop()
}

// Image returns the rendered raster.
func (s *GGSurface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the raster as PNG.
func (s *GGSurface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// SavePNG writes the raster to path.
func (s *GGSurface) SavePNG(path string) error { return s.dc.SavePNG(path) }

// basicfont only covers ASCII, so the mask and marker glyphs get stand-ins.
var asciiReplacer = strings.NewReplacer("•", "*", "→", "->")

func asciiFallback(s string) string {
	return asciiReplacer.Replace(s)
}
