package contour

import (
	"github.com/esimov/vectrace/grid"
	"github.com/esimov/vectrace/utils"
)

// DefaultOverlapRatio is the share of common cells above which two
// boundaries are considered the same one.
const DefaultOverlapRatio = 0.75

// RemoveDouble drops the near duplicate boundaries of a contour list. Two
// contours are duplicates when the cells they share make up more than
// ratio of the smaller one; only the larger is kept, the earlier on ties.
// Disjoint contours are never merged. The relative order of the kept
// contours is preserved.
func RemoveDouble(contours []*Contour, ratio float64) []*Contour {
	if ratio <= 0 {
		ratio = DefaultOverlapRatio
	}
	dropped := make([]bool, len(contours))
	for i, a := range contours {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(contours); j++ {
			if dropped[j] {
				continue
			}
			b := contours[j]
			if !a.Bounds().Overlaps(b.Bounds()) {
				continue
			}
			smaller := min(a.Len(), b.Len())
			if smaller == 0 {
				continue
			}
			if float64(a.Cells.Overlap(b.Cells))/float64(smaller) <= ratio {
				continue
			}
			if b.Len() > a.Len() {
				dropped[i] = true
				break
			}
			dropped[j] = true
		}
	}
	kept := contours[:0:0]
	for i, c := range contours {
		if !dropped[i] {
			kept = append(kept, c)
		}
	}
	return kept
}

// HasEquivIn reports whether inner is nested in outer: the region inner
// encloses is surrounded by the region of outer alone. Every cell of inner
// must lie in the outer region, away from the border ring, and touch a
// cell of outer through an edge. The outer contour of a region wrapped
// around another one then holds a second, inner ring standing for the
// boundary the two regions share.
func HasEquivIn(inner, outer *Contour, g *grid.Grid, tol float64) bool {
	if inner.Len() == 0 || outer.Len() == 0 {
		return false
	}
	ib, ob := inner.Bounds(), outer.Bounds()
	if ib == ob || !ib.In(ob) {
		return false
	}
	for _, c := range inner.Cells.Cells() {
		if g.IsBorder(c) || utils.Abs(g.At(c)-outer.Grey) > tol {
			return false
		}
		if len(grid.RestrictTo(grid.Neighbours4(c, ob), outer.Cells)) == 0 {
			return false
		}
	}
	return true
}

// Disinclude removes from outer the cells it shares with the region inner
// encloses: the outer cells touching a cell of inner whose grey level
// matches that region within tol. It returns the number of cells removed.
func Disinclude(inner, outer *Contour, g *grid.Grid, tol float64) int {
	var doubles []grid.Cell
	for _, c := range outer.Cells.Cells() {
		if utils.Abs(g.At(c)-inner.Grey) > tol {
			continue
		}
		if len(grid.RestrictTo(grid.Neighbours4(c, g.Bounds()), inner.Cells)) > 0 {
			doubles = append(doubles, c)
		}
	}
	for _, c := range doubles {
		outer.Cells.Remove(c)
	}
	return len(doubles)
}

// ResolveNesting runs Disinclude over every nested pair of contours.
func ResolveNesting(contours []*Contour, g *grid.Grid, tol float64) int {
	removed := 0
	for i, inner := range contours {
		for j, outer := range contours {
			if i == j {
				continue
			}
			if HasEquivIn(inner, outer, g, tol) {
				removed += Disinclude(inner, outer, g, tol)
			}
		}
	}
	return removed
}
