package vectrace

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// samplesPerSegment is the number of steps each curve segment is drawn
// with in the debug plot.
const samplesPerSegment = 8

// Plot saves a plot of the traced shapes: the loop cells, the fitted
// curves and the waypoints. The file format follows the extension of path.
func (d *Drawing) Plot(path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d traced shapes", len(d.Shapes))
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	// Image rows grow downward.
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}

	for i, s := range d.Shapes {
		col := s.Loop.Color

		cells := make(plotter.XYs, len(s.Loop.Cells))
		for k, c := range s.Loop.Cells {
			cells[k] = plotter.XY{X: float64(c.X - 1), Y: float64(c.Y - 1)}
		}
		sc, err := plotter.NewScatter(cells)
		if err != nil {
			return fmt.Errorf("shape %d cells: %w", i, err)
		}
		sc.GlyphStyle.Color = col
		sc.GlyphStyle.Radius = vg.Points(1)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)

		pts := s.Chain.Sample(samplesPerSegment)
		if len(pts) > 1 {
			xys := make(plotter.XYs, len(pts))
			for k, pt := range pts {
				xys[k] = plotter.XY{X: pt.X - 1, Y: pt.Y - 1}
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return fmt.Errorf("shape %d curve: %w", i, err)
			}
			line.Color = col
			line.Width = vg.Points(1)
			p.Add(line)
		}

		if len(s.Waypoints) > 0 {
			xys := make(plotter.XYs, len(s.Waypoints))
			for k, w := range s.Waypoints {
				xys[k] = plotter.XY{X: float64(w.Cell.X - 1), Y: float64(w.Cell.Y - 1)}
			}
			wp, err := plotter.NewScatter(xys)
			if err != nil {
				return fmt.Errorf("shape %d waypoints: %w", i, err)
			}
			wp.GlyphStyle.Color = col
			wp.GlyphStyle.Radius = vg.Points(3)
			wp.GlyphStyle.Shape = draw.RingGlyph{}
			p.Add(wp)
		}
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save debug plot: %w", err)
	}
	return nil
}
