package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/vanderheijden86/netscope/pkg/style"
)

// Op is one recorded drawing call.
type Op struct {
	Name  string
	Args  []float64
	Text  string
	Color color.NRGBA
}

func (o Op) String() string {
	var b strings.Builder
	b.WriteString(o.Name)
	switch o.Name {
	case "clear", "color":
		fmt.Fprintf(&b, " %s %.2f", style.Hex(o.Color), style.Opacity(o.Color))
	case "text":
		fmt.Fprintf(&b, " %q", o.Text)
	}
	for _, a := range o.Args {
		fmt.Fprintf(&b, " %.2f", a)
	}
	return b.String()
}

// Recorder is a Surface that remembers every call. Tests and golden files
// use it to check draw order and styling without rasterising.
type Recorder struct {
	Width, Height float64
	Ops           []Op
}

// NewRecorder returns an empty recorder of the given size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) add(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

func (r *Recorder) Size() (float64, float64) { return r.Width, r.Height }

// Clear drops anything recorded so far, like wiping a canvas.
func (r *Recorder) Clear(c color.NRGBA) {
	r.Ops = r.Ops[:0]
	r.Ops = append(r.Ops, Op{Name: "clear", Color: c})
}

func (r *Recorder) SetColor(c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Name: "color", Color: c})
}

func (r *Recorder) SetLineWidth(w float64) { r.add("width", w) }

func (r *Recorder) SetDash(pattern ...float64) { r.add("dash", pattern...) }

func (r *Recorder) MoveTo(x, y float64) { r.add("move", x, y) }

func (r *Recorder) LineTo(x, y float64) { r.add("line", x, y) }

func (r *Recorder) Arc(x, y, radius, a1, a2 float64) { r.add("arc", x, y, radius, a1, a2) }

func (r *Recorder) Stroke() { r.add("stroke") }

func (r *Recorder) Fill() { r.add("fill") }

func (r *Recorder) Text(s string, x, y, size float64) {
	r.Ops = append(r.Ops, Op{Name: "text", Text: s, Args: []float64{x, y, size}})
}

// Count returns how many ops have the given name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Texts returns the strings passed to Text in call order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Name == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// String renders one op per line.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, op := range r.Ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}
