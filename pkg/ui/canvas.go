package ui

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/style"
)

// Braille cells hold 2x4 dots.
const (
	dotsPerCol = 2
	dotsPerRow = 4

	// Fills fainter than this are skipped: a dot is either on or off, so a
	// translucent halo would read as a larger solid node.
	minFillAlpha = 0x40

	wideContinuation = -1
)

// brailleBits maps a dot's position inside its cell to the Unicode braille bit.
var brailleBits = [dotsPerCol][dotsPerRow]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Canvas is a render.Surface drawn with braille dots. Coordinates passed to
// the Surface methods are in dots; text snaps to whole cells.
type Canvas struct {
	cols, rows int
	dots       []uint8
	ink        []color.NRGBA
	text       []rune
	textInk    []color.NRGBA

	bg    color.NRGBA
	color color.NRGBA
	dash  []float64
	path  [][]model.Point

	styles map[color.NRGBA]lipgloss.Style
}

// NewCanvas returns a canvas of cols x rows terminal cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{styles: make(map[color.NRGBA]lipgloss.Style)}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell grid and clears it.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	n := c.cols * c.rows
	c.dots = make([]uint8, n)
	c.ink = make([]color.NRGBA, n)
	c.text = make([]rune, n)
	c.textInk = make([]color.NRGBA, n)
	c.path = nil
}

// Cells returns the grid size in terminal cells.
func (c *Canvas) Cells() (cols, rows int) { return c.cols, c.rows }

func (c *Canvas) Size() (float64, float64) {
	return float64(c.cols * dotsPerCol), float64(c.rows * dotsPerRow)
}

func (c *Canvas) Clear(bg color.NRGBA) {
	clear(c.dots)
	clear(c.text)
	c.bg = bg
	c.path = nil
}

func (c *Canvas) SetColor(col color.NRGBA) { c.color = col }

// SetLineWidth is a no-op: every dot has the same size.
func (c *Canvas) SetLineWidth(float64) {}

func (c *Canvas) SetDash(pattern ...float64) {
	c.dash = append(c.dash[:0], pattern...)
}

func (c *Canvas) MoveTo(x, y float64) {
	c.path = append(c.path, []model.Point{{X: x, Y: y}})
}

func (c *Canvas) LineTo(x, y float64) {
	if len(c.path) == 0 {
		c.MoveTo(x, y)
		return
	}
	last := len(c.path) - 1
	c.path[last] = append(c.path[last], model.Point{X: x, Y: y})
}

func (c *Canvas) Arc(x, y, r, a1, a2 float64) {
	sweep := a2 - a1
	// roughly one vertex per dot of circumference
	n := int(math.Ceil(math.Abs(sweep) * r))
	n = min(max(n, 8), 720)
	for i := 0; i <= n; i++ {
		a := a1 + sweep*float64(i)/float64(n)
		c.LineTo(x+r*math.Cos(a), y+r*math.Sin(a))
	}
}

func (c *Canvas) Stroke() {
	defer c.resetPath()
	if c.color.A == 0 {
		return
	}
	ink := blend(c.color, c.bg)
	for _, sub := range c.path {
		travelled := 0.0
		for i := 1; i < len(sub); i++ {
			travelled = c.line(sub[i-1], sub[i], travelled, ink)
		}
	}
}

// line plots a to b and returns the distance travelled along the path, which
// keeps dash phase continuous across segments.
func (c *Canvas) line(a, b model.Point, travelled float64, ink color.NRGBA) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		if c.dashOn(travelled) {
			c.setDot(a.X, a.Y, ink)
		}
		return travelled
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		if c.dashOn(travelled + t*length) {
			c.setDot(a.X+t*dx, a.Y+t*dy, ink)
		}
	}
	return travelled + length
}

func (c *Canvas) dashOn(d float64) bool {
	if len(c.dash) == 0 {
		return true
	}
	total := 0.0
	for _, v := range c.dash {
		total += v
	}
	if total <= 0 {
		return true
	}
	d = math.Mod(d, total)
	for i, v := range c.dash {
		if d < v {
			return i%2 == 0
		}
		d -= v
	}
	return true
}

// Fill scan-converts the current path with the even-odd rule, sampling at
// dot centres.
func (c *Canvas) Fill() {
	defer c.resetPath()
	if c.color.A < minFillAlpha || len(c.path) == 0 {
		return
	}
	ink := blend(c.color, c.bg)

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, sub := range c.path {
		for _, p := range sub {
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	drawn := false
	var xs []float64
	for y := math.Ceil(minY); y <= maxY; y++ {
		xs = xs[:0]
		for _, sub := range c.path {
			for i := range sub {
				a, b := sub[i], sub[(i+1)%len(sub)]
				if (a.Y <= y) != (b.Y <= y) {
					xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
				}
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := math.Ceil(xs[i]); x <= xs[i+1]; x++ {
				c.setDot(x, y, ink)
				drawn = true
			}
		}
	}
	if !drawn {
		// shapes smaller than a dot still get one
		p := centroid(c.path)
		c.setDot(p.X, p.Y, ink)
	}
}

func centroid(path [][]model.Point) model.Point {
	var sum model.Point
	n := 0
	for _, sub := range path {
		for _, p := range sub {
			sum = sum.Add(p)
			n++
		}
	}
	return sum.Scale(1 / float64(n))
}

// Text writes s centred on the cell containing (x, y). Size is ignored:
// terminal glyphs are all one size.
func (c *Canvas) Text(s string, x, y, size float64) {
	if s == "" || c.cols == 0 {
		return
	}
	row := int(math.Floor(y / dotsPerRow))
	if row < 0 || row >= c.rows {
		return
	}
	w := runewidth.StringWidth(s)
	col := int(math.Round(x/dotsPerCol - float64(w)/2))
	ink := blend(c.color, c.bg)
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col >= 0 && col+rw <= c.cols {
			i := row*c.cols + col
			c.text[i] = r
			c.textInk[i] = ink
			if rw == 2 {
				c.text[i+1] = wideContinuation
			}
		}
		col += rw
	}
}

func (c *Canvas) resetPath() { c.path = c.path[:0] }

func (c *Canvas) setDot(x, y float64, ink color.NRGBA) {
	xi, yi := int(math.Round(x)), int(math.Round(y))
	if xi < 0 || yi < 0 || xi >= c.cols*dotsPerCol || yi >= c.rows*dotsPerRow {
		return
	}
	i := (yi/dotsPerRow)*c.cols + xi/dotsPerCol
	c.dots[i] |= brailleBits[xi%dotsPerCol][yi%dotsPerRow]
	c.ink[i] = ink
}

// cell returns the glyph and colour of one cell; ok is false for blank cells
// and the trailing half of wide glyphs is reported as skip.
func (c *Canvas) cell(i int) (glyph rune, ink color.NRGBA, ok, skip bool) {
	switch t := c.text[i]; {
	case t == wideContinuation:
		return 0, ink, false, true
	case t != 0:
		return t, c.textInk[i], true, false
	case c.dots[i] != 0:
		return rune(0x2800 + int(c.dots[i])), c.ink[i], true, false
	default:
		return ' ', ink, false, false
	}
}

// Plain returns the grid without colour, one line per row.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			glyph, _, _, skip := c.cell(row*c.cols + col)
			if !skip {
				b.WriteRune(glyph)
			}
		}
	}
	return b.String()
}

// String returns the grid with runs of equal colour styled by lipgloss.
func (c *Canvas) String() string {
	var b, run strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var runInk color.NRGBA
		runStyled := false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyled {
				b.WriteString(c.style(runInk).Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for col := 0; col < c.cols; col++ {
			glyph, ink, styled, skip := c.cell(row*c.cols + col)
			if skip {
				continue
			}
			if styled != runStyled || (styled && ink != runInk) {
				flush()
				runInk, runStyled = ink, styled
			}
			run.WriteRune(glyph)
		}
		flush()
	}
	return b.String()
}

func (c *Canvas) style(ink color.NRGBA) lipgloss.Style {
	st, ok := c.styles[ink]
	if !ok {
		st = lipgloss.NewStyle().Foreground(ThemeFg(style.Hex(ink)))
		c.styles[ink] = st
	}
	return st
}

// blend flattens a translucent colour onto the background.
func blend(c, bg color.NRGBA) color.NRGBA {
	a := float64(c.A) / 255
	mix := func(f, b uint8) uint8 {
		return uint8(math.Round(float64(f)*a + float64(b)*(1-a)))
	}
	return color.NRGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 0xff}
}
