package vectrace

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/esimov/vectrace/bezier"
	"github.com/esimov/vectrace/contour"
	"github.com/esimov/vectrace/utils"
	"github.com/esimov/vectrace/waypoint"
)

// Processor options
type Processor struct {
	Spinner *utils.Spinner
	// DebugPlot is the path of an optional plot of the traced loops.
	DebugPlot string
	// Levels is the number of grey levels kept by the quantization.
	Levels int
	// MaxIterations bounds the cells a region trace may visit. Zero means
	// the image area.
	MaxIterations int
	// MaxSize downscales the image so that its longest side does not
	// exceed it. Zero keeps the original size.
	MaxSize int
	// MinLoopLength is the number of cells under which a loop is joined
	// with straight segments instead of fitted curves.
	MinLoopLength int
	Workers       int
	// BlurRadius is the sigma of the Gaussian blur applied before the
	// quantization. Zero disables it.
	BlurRadius float64
	// Tolerance is the grey difference under which two cells belong to
	// the same region.
	Tolerance float64
	// OverlapRatio is the share of common cells above which two
	// boundaries are considered the same.
	OverlapRatio float64
	Quadratic    bool
	NoMidpoints  bool
	Stroke       bool
	ShowCells    bool
}

// DefaultProcessor returns a processor with the default options.
func DefaultProcessor() *Processor {
	return &Processor{
		Levels:        8,
		MinLoopLength: 4,
		OverlapRatio:  contour.DefaultOverlapRatio,
		Workers:       runtime.NumCPU(),
	}
}

// normalize returns a copy of the options with the zero values replaced
// by their defaults.
func (p *Processor) normalize() Processor {
	o := *p
	if o.Levels < 2 {
		o.Levels = 8
	}
	if o.MinLoopLength <= 0 {
		o.MinLoopLength = 4
	}
	if o.OverlapRatio <= 0 || o.OverlapRatio > 1 {
		o.OverlapRatio = contour.DefaultOverlapRatio
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Tolerance < 0 {
		o.Tolerance = 0
	}
	return o
}

// Shape is the vector form of one boundary loop.
type Shape struct {
	Loop      *contour.Loop
	Waypoints []waypoint.Waypoint
	Chain     bezier.Chain
}

// Fill returns the colour the shape is painted with.
func (s Shape) Fill() string {
	return s.Loop.Hex()
}

// Drawing holds the shapes of an image in painting order.
type Drawing struct {
	Width, Height int
	Shapes        []Shape
}

// Stats sums up what one or more tracings produced.
type Stats struct {
	Images    int
	Shapes    int
	Curves    int
	Fallbacks int // curves whose control points fell back on the midpoint construction
}

// Stats counts the shapes and curves of the drawing.
func (d *Drawing) Stats() Stats {
	st := Stats{Images: 1, Shapes: len(d.Shapes)}
	for _, s := range d.Shapes {
		st.Curves += s.Chain.Len()
		for _, seg := range s.Chain.Segments {
			if seg.Fallback {
				st.Fallbacks++
			}
		}
	}
	return st
}

// Add returns the sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Images:    s.Images + o.Images,
		Shapes:    s.Shapes + o.Shapes,
		Curves:    s.Curves + o.Curves,
		Fallbacks: s.Fallbacks + o.Fallbacks,
	}
}

func (s Stats) String() string {
	out := fmt.Sprintf("%s, %s", utils.Count(s.Shapes, "shape"), utils.Count(s.Curves, "curve"))
	if s.Fallbacks > 0 {
		out += fmt.Sprintf(" (%d fallback)", s.Fallbacks)
	}
	if s.Images > 1 {
		out = utils.Count(s.Images, "image") + ", " + out
	}
	return out
}

// Vectorize traces the shapes of img. Regions whose trace or loops could
// not be completed are logged and left out; only an image that cannot be
// turned into a grey grid is reported as an error.
func (p *Processor) Vectorize(img image.Image) (*Drawing, error) {
	o := p.normalize()
	now := time.Now()
	b := img.Bounds()

	o.Spinner.Stage("quantizing %dx%d pixels", b.Dx(), b.Dy())
	g, err := GreyGrid(img, o.Levels)
	if err != nil {
		return nil, err
	}
	contours, err := contour.SegmentAll(g, o.Tolerance, o.MaxIterations)
	if err != nil {
		if !errors.Is(err, contour.ErrIterationCapExceeded) {
			return nil, err
		}
		Logger().Warn("region trace stopped early", "err", err)
	}
	for _, c := range contours {
		c.Sample(img)
	}
	found := len(contours)
	contours = contour.RemoveDouble(contours, o.OverlapRatio)
	nested := contour.ResolveNesting(contours, g, o.Tolerance)
	Logger().Debug("segmentation done",
		"regions", found,
		"kept", len(contours),
		"nested_cells", nested,
		"elapsed", time.Since(now),
	)

	o.Spinner.Stage("walking %s", utils.Count(len(contours), "region"))
	loops := o.separate(contours)
	contour.PaintOrder(loops)

	o.Spinner.Stage("fitting %s", utils.Count(len(loops), "loop"))

	shapes := make([]Shape, len(loops))
	forEach(len(loops), o.Workers, func(i int) {
		shapes[i] = o.trace(loops[i])
	})
	d := &Drawing{Width: b.Dx(), Height: b.Dy(), Shapes: shapes}
	Logger().Debug("curve fitting done", "stats", d.Stats(), "elapsed", time.Since(now))
	return d, nil
}

// separate thins every boundary and walks it into loops. Malformed
// walks are logged and dropped.
func (p *Processor) separate(contours []*contour.Contour) []*contour.Loop {
	found := make([][]*contour.Loop, len(contours))
	forEach(len(contours), p.Workers, func(i int) {
		c := contours[i]
		contour.Thin(c.Cells)
		size := c.Len()
		loops, err := contour.SeparateAll(c)
		if err != nil {
			Logger().Warn("dropping malformed loops", "contour", i, "cells", size, "err", err)
		}
		found[i] = loops
	})

	var loops []*contour.Loop
	for _, l := range found {
		loops = append(loops, l...)
	}
	return loops
}

// trace reduces a loop to its waypoints and fits the curve chain through
// them. Loops shorter than MinLoopLength are joined with straight segments.
func (p *Processor) trace(l *contour.Loop) Shape {
	s := Shape{Loop: l}
	if l.Len() < p.MinLoopLength {
		s.Chain = bezier.Polyline(l.Cells, !p.Quadratic)
		return s
	}
	wps, err := waypoint.Select(l, waypoint.Options{NoMidpoints: p.NoMidpoints})
	if err != nil {
		Logger().Warn("waypoint walk stopped early", "cells", l.Len(), "waypoints", len(wps), "err", err)
	}
	if len(wps) < 3 {
		s.Chain = bezier.Polyline(l.Cells, !p.Quadratic)
		return s
	}
	s.Waypoints = wps
	s.Chain = bezier.FitLoop(wps, !p.Quadratic)
	return s
}

// Process decodes the image read from r and writes its vector form into w
// as an SVG document. We are using the io package, since we can provide
// different input and output types, as long as they implement the
// io.Reader and io.Writer interface.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	_, err := p.render(r, w)
	return err
}

// render is Process returning the drawing it wrote.
func (p *Processor) render(r io.Reader, w io.Writer) (*Drawing, error) {
	if f, ok := w.(*os.File); ok {
		if ext := filepath.Ext(f.Name()); ext != "" && ext != ".svg" {
			return nil, fmt.Errorf("unsupported output format %q", ext)
		}
	}

	p.Spinner.Stage("decoding")
	img, err := decode(r)
	if err != nil {
		return nil, err
	}
	img = p.prepare(img)

	d, err := p.Vectorize(img)
	if err != nil {
		return nil, err
	}
	if p.DebugPlot != "" {
		p.Spinner.Stage("plotting %s", utils.Count(len(d.Shapes), "shape"))
		if err := d.Plot(p.DebugPlot); err != nil {
			return nil, err
		}
	}

	bw := bufio.NewWriter(w)
	d.WriteSVG(bw, p.svgOptions())
	return d, bw.Flush()
}

func (p *Processor) svgOptions() SVGOptions {
	return SVGOptions{Stroke: p.Stroke, ShowCells: p.ShowCells}
}
