package contour

import (
	"errors"
	"fmt"

	"github.com/esimov/vectrace/grid"
	"github.com/esimov/vectrace/utils"
)

// Region is the outcome of a single boundary trace.
type Region struct {
	// Boundary holds the cells of the neighbouring regions that touch this one.
	Boundary *grid.Set
	// Visited holds the cells of the region reached by the trace.
	Visited *grid.Set
	// Seed is the first visited cell in row-major order.
	Seed grid.Cell
	Grey float64
}

// Segment traces the boundary of the region holding seed. The region is
// grown through 4-neighbours whose grey level differs by at most tol from
// the cell they were reached from. Neighbours differing by more are
// boundary cells: they are collected but never expanded.
//
// The walk pops at most maxIter cells (the grid area when maxIter is not
// positive). When the bound is hit the partial region is returned along
// with an error wrapping ErrIterationCapExceeded.
func Segment(g *grid.Grid, seed grid.Cell, tol float64, maxIter int) (*Region, error) {
	if g.IsBorder(seed) {
		return nil, fmt.Errorf("seed %v lies on the border", seed)
	}
	if maxIter <= 0 {
		maxIter = g.Bounds().Dx() * g.Bounds().Dy()
	}
	bounds := g.Bounds()
	r := &Region{
		Boundary: grid.NewSet(),
		Visited:  grid.NewSet(seed),
		Seed:     seed,
		Grey:     g.At(seed),
	}
	// The seed itself starts the frontier, so an isolated cell still
	// produces its boundary.
	frontier := grid.NewSet(seed)

	for iter := 0; frontier.Len() > 0; iter++ {
		if iter >= maxIter {
			return r, fmt.Errorf("segment from %v after %d cells: %w", seed, iter, ErrIterationCapExceeded)
		}
		cell, _ := frontier.Pop()
		grey := g.At(cell)
		for _, n := range grid.Neighbours4(cell, bounds) {
			if r.Visited.Has(n) {
				continue
			}
			if utils.Abs(g.At(n)-grey) > tol {
				r.Boundary.Add(n)
				continue
			}
			r.Visited.Add(n)
			frontier.Add(n)
			if n.Less(r.Seed) {
				r.Seed = n
			}
		}
	}
	return r, nil
}

// SegmentAll splits the interior of g into regions and returns the
// boundary of each one. Seeds are picked in row-major order among the
// cells no previous trace has visited, until the whole interior is
// covered. Empty boundaries are dropped. Regions cut short by the
// iteration bound are kept, and their errors are joined in the returned
// error.
func SegmentAll(g *grid.Grid, tol float64, maxIter int) ([]*Contour, error) {
	var (
		contours []*Contour
		errs     []error
	)
	interior := g.Interior()
	visited := grid.NewMask(g.Bounds())
	cursor := grid.Pt(interior.Min.X, interior.Min.Y)

	for {
		seed, ok := visited.NextUnset(interior, cursor)
		if !ok {
			break
		}
		cursor = seed

		r, err := Segment(g, seed, tol, maxIter)
		if err != nil {
			if !errors.Is(err, ErrIterationCapExceeded) {
				return nil, err
			}
			errs = append(errs, err)
		}
		visited.SetAll(r.Visited.Cells())
		if r.Boundary.Len() == 0 {
			continue
		}
		contours = append(contours, &Contour{
			Cells: r.Boundary,
			Grey:  r.Grey,
			Seed:  r.Seed,
		})
	}
	return contours, errors.Join(errs...)
}
