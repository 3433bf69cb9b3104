package contour

import (
	"image"

	"github.com/esimov/vectrace/grid"
	"github.com/esimov/vectrace/utils"
)

// Thin removes the redundant cells of a boundary in place and returns how
// many were removed. Every round runs three filters over the cells in
// row-major order:
//
//   - crowded: a cell with three or more edge neighbours in the set is
//     removed when its remaining neighbours stay connected to each other.
//   - staircase: a cell whose only two edge neighbours are perpendicular
//     is a redundant step, the two neighbours touching by a corner.
//   - tip: a cell whose only two neighbours share an edge is a detour
//     off the path they already form.
//
// The filters leave every neighbour of a removed cell with at least two
// neighbours. Rounds are repeated until none removes anything, so a second
// call never changes the set. The filters are order sensitive: running
// them in another order gives another, equally valid, result.
func Thin(s *grid.Set) int {
	removed := 0
	for {
		n := thinPass(s, isCrowded)
		n += thinPass(s, isStaircase)
		n += thinPass(s, isTip)
		if n == 0 {
			return removed
		}
		removed += n
	}
}

type filterFn func(s *grid.Set, c grid.Cell, bounds image.Rectangle) bool

func thinPass(s *grid.Set, filter filterFn) int {
	bounds := s.Bounds()
	removed := 0
	for _, c := range s.Sorted() {
		if filter(s, c, bounds) {
			s.Remove(c)
			removed++
		}
	}
	return removed
}

func isCrowded(s *grid.Set, c grid.Cell, bounds image.Rectangle) bool {
	if len(grid.RestrictTo(grid.Neighbours4(c, bounds), s)) < 3 {
		return false
	}
	around := grid.RestrictTo(grid.Neighbours8(c, bounds), s)
	return keepsNeighbours(s, around, bounds) && connected(around)
}

func isStaircase(s *grid.Set, c grid.Cell, bounds image.Rectangle) bool {
	n4 := grid.RestrictTo(grid.Neighbours4(c, bounds), s)
	if len(n4) != 2 {
		return false
	}
	a, b := n4[0], n4[1]
	if utils.Abs(a.X-b.X) != 1 || utils.Abs(a.Y-b.Y) != 1 {
		return false
	}
	around := grid.RestrictTo(grid.Diagonals(c, bounds), s)
	for _, n := range around {
		if !n.IsNeighbour8(a) && !n.IsNeighbour8(b) {
			return false
		}
	}
	return keepsNeighbours(s, append(around, a, b), bounds)
}

func isTip(s *grid.Set, c grid.Cell, bounds image.Rectangle) bool {
	around := grid.RestrictTo(grid.Neighbours8(c, bounds), s)
	if len(around) != 2 || !around[0].IsNeighbour4(around[1]) {
		return false
	}
	return keepsNeighbours(s, around, bounds)
}

// keepsNeighbours reports whether each of the given cells would still have
// two neighbours in s once their common neighbour is removed.
func keepsNeighbours(s *grid.Set, cells []grid.Cell, bounds image.Rectangle) bool {
	for _, n := range cells {
		if len(grid.RestrictTo(grid.Neighbours8(n, bounds), s))-1 < 2 {
			return false
		}
	}
	return true
}

// connected reports whether cells form a single 8-connected group.
func connected(cells []grid.Cell) bool {
	if len(cells) < 2 {
		return true
	}
	reached := make([]bool, len(cells))
	reached[0] = true
	stack := []int{0}
	count := 1
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for j, c := range cells {
			if !reached[j] && c.IsNeighbour8(cells[i]) {
				reached[j] = true
				count++
				stack = append(stack, j)
			}
		}
	}
	return count == len(cells)
}
