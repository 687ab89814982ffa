package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/netscope/pkg/style"
)

// SVGSurface streams drawing calls as SVG elements. Each Stroke or Fill emits
// one <path>.
type SVGSurface struct {
	canvas        *svg.SVG
	width, height int
	path          strings.Builder
	color         color.NRGBA
	lineWidth     float64
	dash          []float64
}

// NewSVGSurface starts an SVG document on w. Call Close to finish it.
func NewSVGSurface(w io.Writer, width, height int) *SVGSurface {
	canvas := svg.New(w)
	canvas.Start(width, height)
	return &SVGSurface{canvas: canvas, width: width, height: height, lineWidth: 1}
}

// Close ends the document.
func (s *SVGSurface) Close() {
	s.canvas.End()
}

func (s *SVGSurface) Size() (float64, float64) {
	return float64(s.width), float64(s.height)
}

func (s *SVGSurface) Clear(c color.NRGBA) {
	s.path.Reset()
	s.canvas.Rect(0, 0, s.width, s.height, "fill:"+css(c))
}

func (s *SVGSurface) SetColor(c color.NRGBA) { s.color = c }

func (s *SVGSurface) SetLineWidth(w float64) { s.lineWidth = w }

func (s *SVGSurface) SetDash(pattern ...float64) {
	s.dash = append(s.dash[:0], pattern...)
}

func (s *SVGSurface) MoveTo(x, y float64) {
	fmt.Fprintf(&s.path, "M%.2f %.2f ", x, y)
}

func (s *SVGSurface) LineTo(x, y float64) {
	if s.path.Len() == 0 {
		s.MoveTo(x, y)
		return
	}
	fmt.Fprintf(&s.path, "L%.2f %.2f ", x, y)
}

func (s *SVGSurface) Arc(x, y, r, a1, a2 float64) {
	sx, sy := x+r*math.Cos(a1), y+r*math.Sin(a1)
	s.LineTo(sx, sy)
	sweep := a2 - a1
	if math.Abs(sweep) >= 2*math.Pi {
		// a full circle needs two half arcs
		ox, oy := x-r*math.Cos(a1), y-r*math.Sin(a1)
		fmt.Fprintf(&s.path, "A%.2f %.2f 0 1 1 %.2f %.2f A%.2f %.2f 0 1 1 %.2f %.2f ", r, r, ox, oy, r, r, sx, sy)
		return
	}
	large, dir := 0, 1
	if math.Abs(sweep) > math.Pi {
		large = 1
	}
	if sweep < 0 {
		dir = 0
	}
	fmt.Fprintf(&s.path, "A%.2f %.2f 0 %d %d %.2f %.2f ", r, r, large, dir, x+r*math.Cos(a2), y+r*math.Sin(a2))
}

func (s *SVGSurface) Stroke() {
	if s.path.Len() == 0 {
		return
	}
	st := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f", css(s.color), s.lineWidth)
	if len(s.dash) > 0 {
		parts := make([]string, len(s.dash))
		for i, d := range s.dash {
			parts[i] = fmt.Sprintf("%.2f", d)
		}
		st += ";stroke-dasharray:" + strings.Join(parts, ",")
	}
	s.canvas.Path(strings.TrimSpace(s.path.String()), st)
	s.path.Reset()
}

func (s *SVGSurface) Fill() {
	if s.path.Len() == 0 {
		return
	}
	s.canvas.Path(strings.TrimSpace(s.path.String()), "fill:"+css(s.color))
	s.path.Reset()
}

func (s *SVGSurface) Text(str string, x, y, size float64) {
	s.canvas.Text(int(math.Round(x)), int(math.Round(y)), str,
		fmt.Sprintf("fill:%s;font-size:%.1fpx;font-family:monospace;text-anchor:middle;dominant-baseline:middle", css(s.color), size))
}

func css(c color.NRGBA) string {
	if c.A == 0xff {
		return style.Hex(c)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", c.R, c.G, c.B, style.Opacity(c))
}
