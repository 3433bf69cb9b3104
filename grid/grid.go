package grid

import (
	"fmt"
	"image"
)

// Border is the value of the artificial ring surrounding the image. It is
// not a grey level, so every comparison against a real cell tells them apart.
const Border = 7.0

// Grid is a grey level matrix surrounded by a one cell wide Border ring.
// Interior values lie in [0,1]. Coordinates are those of the bordered
// matrix: the image pixel (x, y) is the cell (x+1, y+1).
type Grid struct {
	width, height int // bordered size
	pix           []float64
}

// New builds a bordered grid from the row-major interior values of a
// width x height image.
func New(width, height int, values []float64) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("got %d grey values for a %dx%d grid", len(values), width, height)
	}
	g := &Grid{
		width:  width + 2,
		height: height + 2,
		pix:    make([]float64, (width+2)*(height+2)),
	}
	for i := range g.pix {
		g.pix[i] = Border
	}
	for y := 0; y < height; y++ {
		copy(g.pix[(y+1)*g.width+1:(y+1)*g.width+1+width], values[y*width:(y+1)*width])
	}
	return g, nil
}

// FromRows builds a bordered grid from rows of grey values. All rows must
// have the same length.
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	w := len(rows[0])
	values := make([]float64, 0, w*len(rows))
	for i, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), w)
		}
		values = append(values, row...)
	}
	return New(w, len(rows), values)
}

// Bounds returns the extent of the bordered grid.
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.width, g.height)
}

// Interior returns the extent of the real image inside the border ring.
func (g *Grid) Interior() image.Rectangle {
	return image.Rect(1, 1, g.width-1, g.height-1)
}

// At returns the grey level of c. Cells outside the grid read as Border.
func (g *Grid) At(c Cell) float64 {
	if !c.In(g.Bounds()) {
		return Border
	}
	return g.pix[c.Y*g.width+c.X]
}

// IsBorder reports whether c lies outside the real image.
func (g *Grid) IsBorder(c Cell) bool {
	return !c.In(g.Interior())
}

// ImagePoint converts a grid cell to the coordinates of the image pixel it
// stands for.
func (g *Grid) ImagePoint(c Cell) image.Point {
	return image.Pt(c.X-1, c.Y-1)
}
