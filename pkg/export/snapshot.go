// Package export writes static snapshots of a graph scene as PNG or SVG.
package export

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/netscope/pkg/analysis"
	"github.com/vanderheijden86/netscope/pkg/debug"
	"github.com/vanderheijden86/netscope/pkg/layout"
	"github.com/vanderheijden86/netscope/pkg/metrics"
	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/render"
	"github.com/vanderheijden86/netscope/pkg/style"
	"github.com/vanderheijden86/netscope/pkg/viewport"
)

// Image formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// HeaderHeight is the height of the summary strip above the scene, in CSS
// pixels.
const HeaderHeight = 56.0

// ErrNoGraph is returned when there is nothing to draw.
var ErrNoGraph = errors.New("no graph to export")

// SnapshotOptions controls one snapshot export.
type SnapshotOptions struct {
	Path      string           // Output path; format inferred from extension when Format empty
	Format    string           // "svg" or "png" (case-insensitive)
	Title     string           // Optional title rendered in the summary strip
	Graph     *model.Graph     // Snapshot to draw
	Positions layout.Positions // Precomputed layout; nil computes one with Algorithm and Params
	Algorithm layout.Algorithm
	Params    layout.Params
	ViewMode  model.ViewMode
	Selection model.Selection
	Viewport  *viewport.Viewport // nil frames the whole world at zoom 1

	Width      int     // Scene width in CSS pixels (default 1000)
	Height     int     // Scene height in CSS pixels, excluding the header (default 600)
	PixelRatio float64 // Device pixels per CSS pixel (default 1)
}

// withDefaults fills zero fields and resolves the format.
func (o SnapshotOptions) withDefaults() (SnapshotOptions, error) {
	if o.Graph == nil || len(o.Graph.Nodes) == 0 {
		return o, ErrNoGraph
	}
	if o.Width <= 0 {
		o.Width = int(layout.DefaultBounds.Width)
	}
	if o.Height <= 0 {
		o.Height = int(layout.DefaultBounds.Height)
	}
	if o.PixelRatio <= 0 {
		o.PixelRatio = 1
	}
	if o.Algorithm == "" {
		o.Algorithm = layout.ForceDirected
	}
	if o.Params == (layout.Params{}) {
		o.Params = layout.DefaultParams()
	}
	if o.ViewMode == "" {
		o.ViewMode = model.ViewGlobal
	}
	if strings.TrimSpace(o.Title) == "" {
		o.Title = "Network Snapshot"
	}

	format := strings.ToLower(strings.TrimPrefix(o.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(o.Path)) {
		case ".png":
			format = FormatPNG
		case ".svg":
			format = FormatSVG
		default:
			format = FormatSVG
			if o.Path != "" && filepath.Ext(o.Path) == "" {
				o.Path += ".svg"
			}
		}
	}
	if format != FormatPNG && format != FormatSVG {
		return o, fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	o.Format = format
	return o, nil
}

// SaveSnapshot renders the scene with a summary strip and legend and writes it
// to opts.Path.
func SaveSnapshot(opts SnapshotOptions) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Path, err)
	}
	if err := write(f, opts); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", opts.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", opts.Path, err)
	}
	debug.Log("exported %s snapshot to %s", opts.Format, opts.Path)
	return nil
}

// WriteSnapshot renders the scene to w. The format must be given explicitly or
// via the extension of opts.Path.
func WriteSnapshot(w io.Writer, opts SnapshotOptions) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	return write(w, opts)
}

// SaveSnapshots exports every entry concurrently, each onto its own surface.
// The first error is returned and stops exports that have not started yet.
func SaveSnapshots(ctx context.Context, all []SnapshotOptions) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, opts := range all {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return SaveSnapshot(opts)
		})
	}
	return g.Wait()
}

func write(w io.Writer, opts SnapshotOptions) error {
	defer metrics.Timer(metrics.Export)()

	pos := opts.Positions
	if pos == nil {
		pos = layout.Compute(opts.Graph, opts.Algorithm,
			layout.Bounds{Width: float64(opts.Width), Height: float64(opts.Height)}, opts.Params)
	}
	vp := opts.Viewport
	if vp == nil {
		vp = viewport.New(viewport.DefaultLimits())
		vp.SetZoom(1)
	}
	// shift the scene below the header strip
	framed := *vp
	framed.Pan.Y += HeaderHeight

	scene := render.Scene{
		Graph:      opts.Graph,
		Positions:  pos,
		Viewport:   &framed,
		Selection:  opts.Selection,
		ViewMode:   opts.ViewMode,
		PixelRatio: opts.PixelRatio,
	}
	width := int(float64(opts.Width) * opts.PixelRatio)
	height := int((float64(opts.Height) + HeaderHeight) * opts.PixelRatio)

	switch opts.Format {
	case FormatPNG:
		s := render.NewGGSurface(width, height)
		draw(s, scene, opts)
		return s.EncodePNG(w)
	default:
		s := render.NewSVGSurface(w, width, height)
		draw(s, scene, opts)
		s.Close()
		return nil
	}
}

func draw(s render.Surface, scene render.Scene, opts SnapshotOptions) {
	render.Render(s, scene)
	drawHeader(s, opts)
}

var (
	colorHeader = color.NRGBA{0x14, 0x16, 0x1d, 0xff}
	colorRule   = color.NRGBA{0xff, 0xff, 0xff, 0x1f}
	colorTitle  = color.NRGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorSubtle = color.NRGBA{0x9c, 0xa3, 0xaf, 0xff}
)

// Summary returns the second header line for g.
func Summary(g *model.Graph, algo layout.Algorithm, mode model.ViewMode) string {
	st := analysis.Compute(g)
	return fmt.Sprintf("nodes: %d | edges: %d | private: %d | density: %.3f | layout: %s | view: %s",
		st.Nodes, st.Edges, st.PrivateEdges, st.Density, algo, mode)
}

func drawHeader(s render.Surface, opts SnapshotOptions) {
	k := opts.PixelRatio
	w, _ := s.Size()
	h := HeaderHeight * k

	s.SetColor(colorHeader)
	rect(s, 0, 0, w, h)
	s.Fill()
	s.SetColor(colorRule)
	s.SetLineWidth(k)
	s.MoveTo(0, h)
	s.LineTo(w, h)
	s.Stroke()

	s.SetColor(colorTitle)
	textLeft(s, opts.Title, 16*k, 18*k, 14*k)
	s.SetColor(colorSubtle)
	textLeft(s, Summary(opts.Graph, opts.Algorithm, opts.ViewMode), 16*k, 40*k, 10*k)

	drawLegend(s, w-16*k, 18*k, k)
}

type legendEntry struct {
	label  string
	color  color.NRGBA
	dashed bool
}

var legend = []legendEntry{
	{label: "You", color: style.ColorSelf},
	{label: "Pools", color: style.ColorPool},
	{label: "Accounts", color: style.ColorOther},
	{label: "Private", color: style.EdgePrivate.Color, dashed: true},
}

// drawLegend lays the entries out right to left so the last one ends at right.
func drawLegend(s render.Surface, right, y, k float64) {
	const size = 10.0
	x := right
	for i := len(legend) - 1; i >= 0; i-- {
		e := legend[i]
		x -= textWidth(e.label, size*k)
		s.SetColor(colorSubtle)
		textLeft(s, e.label, x, y, size*k)

		x -= 8 * k
		s.SetColor(e.color)
		if e.dashed {
			s.SetLineWidth(1.5 * k)
			s.SetDash(4*k, 3*k)
			s.MoveTo(x-14*k, y)
			s.LineTo(x, y)
			s.Stroke()
			s.SetDash()
			x -= 14 * k
		} else {
			s.MoveTo(x, y)
			s.Arc(x-5*k, y, 5*k, 0, 2*math.Pi)
			s.Fill()
			x -= 10 * k
		}
		x -= 16 * k
	}
}

func rect(s render.Surface, x, y, w, h float64) {
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
}

// monoAdvance approximates the advance of one monospace cell in ems.
const monoAdvance = 0.6

func textWidth(str string, size float64) float64 {
	return float64(runewidth.StringWidth(str)) * size * monoAdvance
}

// textLeft draws str starting at x; Surface.Text centres on its anchor.
func textLeft(s render.Surface, str string, x, y, size float64) {
	s.Text(str, x+textWidth(str, size)/2, y, size)
}
