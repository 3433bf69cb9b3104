// Package contour extracts region boundaries from a quantized grey grid and
// turns them into ordered closed loops of cells.
//
// The pipeline of the package is:
//
//	SegmentAll -> RemoveDouble -> ResolveNesting -> Thin -> SeparateAll
//
// SegmentAll produces unordered boundaries, one per region. Thin removes
// the redundant cells of a boundary in place and SeparateAll walks what is
// left into one or more ordered loops.
package contour

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/esimov/vectrace/grid"
	"github.com/esimov/vectrace/utils"
)

var (
	// ErrMalformedContour is reported when a boundary cannot be walked into
	// a closed loop.
	ErrMalformedContour = errors.New("malformed contour")

	// ErrIterationCapExceeded is reported when a boundary trace stops early
	// because it reached its iteration bound.
	ErrIterationCapExceeded = errors.New("iteration cap exceeded")
)

// Contour is the unordered boundary of a region: the cells just outside of
// it. Grey is the grey level of the enclosed region and Seed its first
// cell in row-major order.
type Contour struct {
	Cells *grid.Set
	Grey  float64
	Seed  grid.Cell
	Color color.NRGBA
}

// Len returns the number of boundary cells.
func (c *Contour) Len() int {
	return c.Cells.Len()
}

// Bounds returns the bounding rectangle of the boundary cells.
func (c *Contour) Bounds() image.Rectangle {
	return c.Cells.Bounds()
}

// Hex returns the fill colour in #rrggbb notation.
func (c *Contour) Hex() string {
	return Hex(c.Color)
}

// Sample resolves the contour colour by reading img at the pixel the seed
// cell stands for. Without an image the grey level of the region is used.
func (c *Contour) Sample(img image.Image) {
	if img == nil {
		v := uint8(utils.Clamp(c.Grey*255, 0, 255))
		c.Color = color.NRGBA{R: v, G: v, B: v, A: 255}
		return
	}
	b := img.Bounds()
	p := image.Pt(b.Min.X+c.Seed.X-1, b.Min.Y+c.Seed.Y-1)
	if !p.In(b) {
		p = b.Min
	}
	col := color.NRGBAModel.Convert(img.At(p.X, p.Y)).(color.NRGBA)
	col.A = 255
	c.Color = col
}

// Loop is an ordered closed walk of cells. Consecutive cells, the last and
// the first included, are 8-neighbours.
type Loop struct {
	Cells []grid.Cell
	Grey  float64
	Color color.NRGBA
}

// Len returns the number of cells of the loop.
func (l *Loop) Len() int {
	return len(l.Cells)
}

// At returns the cell at index i, taken modulo the loop length.
func (l *Loop) At(i int) grid.Cell {
	return l.Cells[utils.Wrap(i, len(l.Cells))]
}

// Index returns the position of c in the loop or -1.
func (l *Loop) Index(c grid.Cell) int {
	for i, lc := range l.Cells {
		if lc == c {
			return i
		}
	}
	return -1
}

// Bounds returns the bounding rectangle of the loop cells.
func (l *Loop) Bounds() image.Rectangle {
	return grid.NewSet(l.Cells...).Bounds()
}

// Hex returns the fill colour in #rrggbb notation.
func (l *Loop) Hex() string {
	return Hex(l.Color)
}

// Hex formats the RGB channels of col as #rrggbb.
func Hex(col color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", col.R, col.G, col.B)
}
