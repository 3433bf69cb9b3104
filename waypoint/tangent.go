package waypoint

import (
	"math"

	"github.com/esimov/vectrace/contour"
	"github.com/esimov/vectrace/grid"
	"github.com/esimov/vectrace/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"honnef.co/go/curve"
)

// Bounds of the number of loop cells used on each side of a waypoint to
// estimate its tangent.
const (
	MinPrecision = 3
	MaxPrecision = 5
)

// EstimateTangent returns the direction of travel of the loop at index i.
// It is the weighted mean of the displacements from the before previous
// cells to the cell at i, and from it to the after next cells. The weight
// of a displacement spanning d cells is 2^-d. Indexes wrap around the
// loop. The returned vector is not normalized.
func EstimateTangent(l *contour.Loop, i, before, after int) curve.Vec2 {
	if before+after == 0 {
		before, after = 1, 1
	}
	var (
		cur = l.At(i)
		xs  = make([]float64, 0, before+after)
		ys  = make([]float64, 0, before+after)
		ws  = make([]float64, 0, before+after)
	)
	add := func(from, to grid.Cell, d int) {
		xs = append(xs, float64(to.X-from.X))
		ys = append(ys, float64(to.Y-from.Y))
		ws = append(ws, math.Pow(2, -float64(d)))
	}
	for d := 1; d <= before; d++ {
		add(l.At(i-d), cur, d)
	}
	for d := 1; d <= after; d++ {
		add(cur, l.At(i+d), d)
	}
	return curve.Vec(stat.Mean(xs, ws), stat.Mean(ys, ws))
}

// UnitTangent returns the normalized tangent of the loop at index i. When
// the weighted mean cancels out, the chord between the two cells around i
// is used instead.
func UnitTangent(l *contour.Loop, i, precision int) curve.Vec2 {
	v := EstimateTangent(l, i, precision, precision)
	if norm := floats.Norm([]float64{v.X, v.Y}, 2); norm >= Eps {
		return v.Div(norm)
	}
	prev, next := l.At(i-1), l.At(i+1)
	chord := curve.Vec(float64(next.X-prev.X), float64(next.Y-prev.Y))
	if chord.Hypot() < Eps {
		return curve.Vec(1, 0)
	}
	return chord.Normalize()
}

// Precision returns the number of cells used on each side of a waypoint,
// given the loop distances to the waypoints before and after it.
func Precision(before, after int) int {
	return utils.Clamp(min(before, after), MinPrecision, MaxPrecision)
}

// Distance returns the number of steps between the indexes i and j of a
// loop of n cells, going whichever way round is shorter.
func Distance(i, j, n int) int {
	d := utils.Wrap(i-j, n)
	return min(d, n-d)
}
