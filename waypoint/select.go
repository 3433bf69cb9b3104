package waypoint

import (
	"fmt"

	"github.com/esimov/vectrace/contour"
	"github.com/esimov/vectrace/grid"
	"github.com/esimov/vectrace/utils"
	"honnef.co/go/curve"
)

// State tells why the walk stopped on a waypoint.
type State int

// The states of the waypoint walk.
const (
	Scanning State = iota
	FoundInflection
	FoundLineEdge
	HitEnd
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case FoundInflection:
		return "inflection"
	case FoundLineEdge:
		return "line edge"
	case HitEnd:
		return "end"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Waypoint is a loop cell the Bezier chain goes through, with the unit
// tangent of the loop at that cell.
type Waypoint struct {
	Cell    grid.Cell
	Index   int
	Tangent curve.Vec2
	Slope   Slope
	State   State
	// Midpoint marks the waypoints inserted halfway between two others.
	Midpoint bool
}

// Point returns the waypoint position.
func (w Waypoint) Point() curve.Point {
	return curve.Pt(float64(w.Cell.X), float64(w.Cell.Y))
}

// Options tune the waypoint walk.
type Options struct {
	// NoMidpoints disables the waypoints inserted halfway between two
	// waypoints found by the walk.
	NoMidpoints bool
	// MaxIterations bounds the number of cells the walk may step over. Zero
	// means eight times the loop length.
	MaxIterations int
}

// Clockwise reports whether the cross product of p1p2 and p1p3 is
// negative, that is whether p1, p2, p3 turn clockwise in a y-up frame.
func Clockwise(p1, p2, p3 grid.Cell) bool {
	return orientation(p1, p2, p3) < 0
}

// orientation returns the sign of the cross product of p1p2 and p1p3.
func orientation(p1, p2, p3 grid.Cell) int {
	a := curve.Vec(float64(p2.X-p1.X), float64(p2.Y-p1.Y))
	b := curve.Vec(float64(p3.X-p1.X), float64(p3.Y-p1.Y))
	return utils.Sign(a.Cross(b))
}

// VerticalExtremum reports whether the x distance from p[0] reaches a
// maximum at p[2]: it must exceed the distance to p[1] and be no less than
// the distance to p[3]. The loop tangent then passes through the vertical.
func VerticalExtremum(p [4]grid.Cell) bool {
	var projx [3]int
	for i := range projx {
		projx[i] = utils.Abs(p[i+1].X - p[0].X)
	}
	return projx[1] > projx[0] && projx[1] >= projx[2]
}

// Stride returns the distance between the cells compared by the
// orientation test on a loop of n cells.
func Stride(n int) int {
	return max(2, n/150)
}

// walker holds what stays constant while the waypoints of a loop are
// looked for.
type walker struct {
	loop   *contour.Loop
	edges  *grid.Set
	stride int
	last   int
}

// Next walks the loop forward from the waypoint at index start and
// returns the index of the following waypoint and the reason the walk
// stopped there. The returned index is always greater than start, unless
// start is the last index of the loop.
func Next(l *contour.Loop, start int, edges *grid.Set) (int, State) {
	w := &walker{
		loop:   l,
		edges:  edges,
		stride: Stride(l.Len()),
		last:   l.Len() - 1,
	}
	return w.next(start)
}

func (w *walker) next(start int) (int, State) {
	if start+2 > w.last {
		return w.last, HitEnd
	}
	at := w.loop.At
	if VerticalExtremum([4]grid.Cell{at(start), at(start + 1), at(start + 2), at(start + 3)}) {
		return start + 2, FoundInflection
	}
	sens := orientation(at(start), at(start+1), at(start+2))

	for i := start; ; {
		if i != start && w.edges.Has(at(i)) {
			return i, FoundLineEdge
		}
		if i+3 > w.last {
			return w.last, HitEnd
		}
		i++

		turn := orientation(at(i), at(i+w.stride), at(i+2*w.stride))
		if turn != 0 {
			if sens != 0 && turn != sens {
				return min(i+w.stride, w.last), FoundInflection
			}
			sens = turn
		}
		if VerticalExtremum([4]grid.Cell{at(start), at(i + 1), at(i + 2), at(i + 3)}) {
			// A line edge just before the extremum takes precedence.
			for j := max(i-1, start+1); j <= i+1; j++ {
				if w.edges.Has(at(j)) {
					return j, FoundLineEdge
				}
			}
			return min(i+2, w.last), FoundInflection
		}
	}
}

// Select reduces a loop to its waypoints. The first waypoint is the first
// cell of the loop and the walk goes on with Next until it reaches the
// last cell, which is replaced by the first one so the chain closes. When
// enabled, a midpoint waypoint is inserted between two waypoints more than
// one cell apart. Tangents are estimated once all waypoints are known.
//
// Loops of fewer than four cells keep all their cells as waypoints. When
// the walk exceeds its iteration bound the waypoints found so far are
// closed and returned along with an error wrapping
// contour.ErrIterationCapExceeded.
func Select(l *contour.Loop, opts Options) ([]Waypoint, error) {
	n := l.Len()
	if n == 0 {
		return nil, fmt.Errorf("empty loop: %w", contour.ErrMalformedContour)
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 8 * n
	}

	wps := []Waypoint{{Cell: l.Cells[0], Index: 0, State: Scanning}}
	var err error
	if n < 4 {
		for i := 1; i < n; i++ {
			wps = append(wps, Waypoint{Cell: l.Cells[i], Index: i, State: Scanning})
		}
	} else {
		w := &walker{
			loop:   l,
			edges:  DetectStraightRuns(l),
			stride: Stride(n),
			last:   n - 1,
		}
		for cur, iter := 0, 0; cur != w.last; iter++ {
			if iter >= maxIter {
				err = fmt.Errorf("waypoint walk stopped at index %d of %d: %w", cur, n, contour.ErrIterationCapExceeded)
				break
			}
			next, state := w.next(cur)
			if next <= cur {
				err = fmt.Errorf("waypoint walk stuck at index %d of %d: %w", cur, n, contour.ErrIterationCapExceeded)
				break
			}
			if !opts.NoMidpoints && next-cur >= 2 {
				mid := (cur + next) / 2
				wps = append(wps, Waypoint{Cell: l.Cells[mid], Index: mid, State: Scanning, Midpoint: true})
			}
			wps = append(wps, Waypoint{Cell: l.Cells[next], Index: next, State: state})
			cur = next
		}
		// The last cell gives way to the first one.
		if wps[len(wps)-1].Index == w.last {
			wps = wps[:len(wps)-1]
		}
		if len(wps) == 1 {
			mid := n / 2
			wps = append(wps, Waypoint{Cell: l.Cells[mid], Index: mid, State: Scanning, Midpoint: true})
		}
	}
	wps = append(wps, Waypoint{Cell: l.Cells[0], Index: 0, State: HitEnd})
	setTangents(l, wps)
	return wps, err
}

// setTangents estimates the tangent of every waypoint. The precision used
// for a waypoint depends on its loop distance to its neighbours. The
// closing waypoint shares the tangent of the first one.
func setTangents(l *contour.Loop, wps []Waypoint) {
	n := l.Len()
	m := len(wps) - 1 // the closing waypoint repeats the first one
	for i := 0; i < m; i++ {
		prev := wps[(i-1+m)%m]
		next := wps[(i+1)%m]
		p := Precision(
			Distance(prev.Index, wps[i].Index, n),
			Distance(wps[i].Index, next.Index, n),
		)
		t := UnitTangent(l, wps[i].Index, p)
		wps[i].Tangent = t
		wps[i].Slope = SlopeOf(t)
	}
	wps[m].Tangent = wps[0].Tangent
	wps[m].Slope = wps[0].Slope
}
