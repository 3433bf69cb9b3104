package vectrace

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"honnef.co/go/curve"
)

// SVGOptions tune the SVG output.
type SVGOptions struct {
	// Stroke outlines every path with its fill colour.
	Stroke bool
	// ShowCells draws the cells of every loop as small circles.
	ShowCells bool
	// Precision is the maximum number of decimals of the path
	// coordinates. Zero means 3.
	Precision int
}

// toImage moves grid coordinates to image pixel coordinates.
var toImage = curve.Translate(curve.Vec(-1, -1))

// WriteSVG writes the drawing into w as an SVG document, one path per shape
// in painting order. Write errors are left to w to report, a bufio.Writer
// keeping the first one for instance.
func (d *Drawing) WriteSVG(w io.Writer, opts SVGOptions) {
	if opts.Precision <= 0 {
		opts.Precision = 3
	}
	canvas := svg.New(w)
	canvas.Start(d.Width, d.Height)
	canvas.Desc(fmt.Sprintf("%d shapes traced from a %dx%d image", len(d.Shapes), d.Width, d.Height))

	for _, s := range d.Shapes {
		if s.Chain.Len() == 0 {
			continue
		}
		path := s.Chain.Path().Transform(toImage)
		stroke := "none"
		if opts.Stroke {
			stroke = s.Fill()
		}
		canvas.Path(path.SVG(curve.SVGOptions{MaxPrecision: opts.Precision}),
			fmt.Sprintf(`fill="%s"`, s.Fill()),
			fmt.Sprintf(`stroke="%s"`, stroke),
		)
	}

	if opts.ShowCells {
		canvas.Gid("cells")
		for _, s := range d.Shapes {
			for _, c := range s.Loop.Cells {
				canvas.Circle(c.X-1, c.Y-1, 1,
					`fill="none"`,
					fmt.Sprintf(`stroke="%s"`, s.Fill()),
					`stroke-width="0.2"`,
				)
			}
		}
		canvas.Gend()
	}
	canvas.End()
}
