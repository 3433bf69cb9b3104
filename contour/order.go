package contour

import (
	"errors"
	"fmt"
	"image"

	"github.com/esimov/vectrace/grid"
	"golang.org/x/exp/slices"
)

// minLoopCells is the smallest number of cells a walk needs to close.
const minLoopCells = 3

// SeparateLoop walks one ordered loop out of the cells of s, removing the
// walked cells from it. The walk starts at the top-left cell, which is a
// corner of the boundary, and keeps moving to an unwalked edge neighbour,
// or to a corner neighbour when no edge neighbour is left, until it is
// stuck. The walked cells are returned in walk order.
//
// If the walk gets stuck away from its start cell the boundary is
// malformed: the cells are still returned, with an error wrapping
// ErrMalformedContour. Cells left in s belong to other loops.
func SeparateLoop(s *grid.Set) ([]grid.Cell, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("empty cell set: %w", ErrMalformedContour)
	}
	bounds := s.Bounds()
	start := s.Sorted()[0]
	s.Remove(start)

	loop := []grid.Cell{start}
	for cur := start; ; {
		next, ok := nextCell(s, cur, bounds)
		if !ok {
			break
		}
		s.Remove(next)
		loop = append(loop, next)
		cur = next
	}

	last := loop[len(loop)-1]
	if len(loop) < minLoopCells || !last.IsNeighbour8(start) {
		return loop, fmt.Errorf("walk from %v stuck at %v after %d cells, %d left: %w",
			start, last, len(loop), s.Len(), ErrMalformedContour)
	}
	return loop, nil
}

func nextCell(s *grid.Set, cur grid.Cell, bounds image.Rectangle) (grid.Cell, bool) {
	if n := grid.RestrictTo(grid.Neighbours4(cur, bounds), s); len(n) > 0 {
		return n[0], true
	}
	if n := grid.RestrictTo(grid.Diagonals(cur, bounds), s); len(n) > 0 {
		return n[0], true
	}
	return grid.Cell{}, false
}

// SeparateAll splits a boundary into its closed loops. A boundary may hold
// more than one loop, the rim of a region with a hole for instance. The
// cell set of c is consumed. Walks that do not close are dropped and their
// errors joined in the returned error.
func SeparateAll(c *Contour) ([]*Loop, error) {
	var (
		loops []*Loop
		errs  []error
	)
	for c.Cells.Len() > 0 {
		cells, err := SeparateLoop(c.Cells)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		loops = append(loops, &Loop{
			Cells: cells,
			Grey:  c.Grey,
			Color: c.Color,
		})
	}
	return loops, errors.Join(errs...)
}

// PaintOrder sorts loops so that the ones with the largest bounding box
// come first. Painting in this order puts enclosing shapes under the
// shapes they surround. Ties are broken by the top-left corner of the box.
func PaintOrder(loops []*Loop) {
	type key struct {
		area int
		min  image.Point
	}
	keys := make(map[*Loop]key, len(loops))
	for _, l := range loops {
		b := l.Bounds()
		keys[l] = key{area: b.Dx() * b.Dy(), min: b.Min}
	}
	slices.SortStableFunc(loops, func(x, y *Loop) bool {
		a, b := keys[x], keys[y]
		if a.area != b.area {
			return a.area > b.area
		}
		if a.min.X != b.min.X {
			return a.min.X < b.min.X
		}
		return a.min.Y < b.min.Y
	})
}
