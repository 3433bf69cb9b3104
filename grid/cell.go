// Package grid provides the pixel lattice the vectorizer works on: integer
// cells, neighbourhood queries, ordered cell sets, visited masks and the
// bordered grey level grid produced by quantization.
package grid

import (
	"fmt"
	"image"

	"github.com/esimov/vectrace/utils"
)

// Cell is a pixel coordinate. X is the column and Y the row.
type Cell struct {
	X, Y int
}

// Pt is a shorthand for Cell{X: x, Y: y}.
func Pt(x, y int) Cell {
	return Cell{X: x, Y: y}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the cell translated by dx, dy.
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// In reports whether the cell lies inside r.
func (c Cell) In(r image.Rectangle) bool {
	return image.Pt(c.X, c.Y).In(r)
}

// Less orders cells row by row, then column by column.
func (c Cell) Less(o Cell) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// IsNeighbour4 reports whether o shares an edge with c.
func (c Cell) IsNeighbour4(o Cell) bool {
	return utils.Abs(c.X-o.X)+utils.Abs(c.Y-o.Y) == 1
}

// IsNeighbour8 reports whether o shares an edge or a corner with c.
func (c Cell) IsNeighbour8(o Cell) bool {
	return c != o && utils.Abs(c.X-o.X) <= 1 && utils.Abs(c.Y-o.Y) <= 1
}

// The closest neighbours come first in offsets8, so that slicing it gives
// the 4-neighbourhood. Both halves run clockwise starting east.
var offsets8 = [8]Cell{
	{1, 0}, {0, 1}, {-1, 0}, {0, -1},
	{1, 1}, {-1, 1}, {-1, -1}, {1, -1},
}

// Neighbours8 returns the cells sharing an edge or a corner with c that lie
// inside bounds. Edge neighbours are listed before diagonal ones.
func Neighbours8(c Cell, bounds image.Rectangle) []Cell {
	return neighbours(c, bounds, offsets8[:])
}

// Neighbours4 returns the closest neighbours of c: the cells that differ by
// exactly one in a single coordinate and lie inside bounds.
func Neighbours4(c Cell, bounds image.Rectangle) []Cell {
	return neighbours(c, bounds, offsets8[:4])
}

// Diagonals returns the corner neighbours of c that lie inside bounds.
func Diagonals(c Cell, bounds image.Rectangle) []Cell {
	return neighbours(c, bounds, offsets8[4:])
}

func neighbours(c Cell, bounds image.Rectangle, offsets []Cell) []Cell {
	out := make([]Cell, 0, len(offsets))
	for _, o := range offsets {
		n := c.Add(o.X, o.Y)
		if n.X < 0 || n.Y < 0 || !n.In(bounds) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Unvisited keeps the cells whose flag in the visited mask is not set.
func Unvisited(cells []Cell, visited *Mask) []Cell {
	out := cells[:0:0]
	for _, c := range cells {
		if !visited.Get(c) {
			out = append(out, c)
		}
	}
	return out
}

// RestrictTo keeps the cells that are members of s.
func RestrictTo(cells []Cell, s *Set) []Cell {
	out := cells[:0:0]
	for _, c := range cells {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}
