package waypoint

import (
	"github.com/esimov/vectrace/contour"
	"github.com/esimov/vectrace/grid"
)

// Straight runs shorter than this many cells, or than this share of the
// loop length, are not line edges.
const (
	minRunCells = 3
	minRunShare = 0.03
)

// DetectStraightRuns flags the line edges of a loop: the cells where a
// long straight run of axis-aligned steps ends, plus the cell where it
// starts unless the run follows another one right away. A run is long
// when it holds at least max(3, 3% of the loop length) cells.
func DetectStraightRuns(l *contour.Loop) *grid.Set {
	edges := grid.NewSet()
	n := l.Len()
	if n < 2 {
		return edges
	}
	minLen := max(float64(minRunCells), minRunShare*float64(n))

	prevEnd := -2
	flush := func(start, end int) {
		if float64(end-start+1) < minLen {
			return
		}
		if start != prevEnd+1 && start != prevEnd {
			edges.Add(l.Cells[start])
		}
		edges.Add(l.Cells[end])
		prevEnd = end
	}

	for s := 0; s < n-1; {
		d := step(l.Cells[s], l.Cells[s+1])
		if d.X != 0 && d.Y != 0 {
			s++
			continue
		}
		e := s + 1
		for e+1 < n && step(l.Cells[e], l.Cells[e+1]) == d {
			e++
		}
		flush(s, e)
		s = e
	}
	return edges
}

func step(a, b grid.Cell) grid.Cell {
	return grid.Pt(b.X-a.X, b.Y-a.Y)
}
