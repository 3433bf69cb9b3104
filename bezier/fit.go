package bezier

import (
	"errors"

	"github.com/esimov/vectrace/grid"
	"github.com/esimov/vectrace/utils"
	"github.com/esimov/vectrace/waypoint"
	"honnef.co/go/curve"
)

// ErrDegenerateTangent is returned by Intersect when the two tangents are
// parallel and have no single intersection.
var ErrDegenerateTangent = errors.New("degenerate tangent pair")

const (
	// flybyEps widens the waypoint box to absorb rounding errors.
	flybyEps = 1e-9
	// reach bounds the distance of a fallback control point to its
	// endpoint, as a share of the segment chord.
	reach = 0.4
	// pull brings a fallback control point back toward its endpoint.
	pull = 1.0 / 3
)

// Intersect returns the intersection of the tangent lines of a and b.
// Vertical and horizontal slopes are solved directly. Parallel tangents
// have no intersection: the midpoint of a and b is returned along with
// ErrDegenerateTangent.
func Intersect(a, b waypoint.Waypoint) (curve.Point, error) {
	pa, pb := a.Point(), b.Point()
	sa, sb := a.Slope, b.Slope

	switch {
	case sa.Equal(sb):
		return pa.Midpoint(pb), ErrDegenerateTangent
	case sa.IsVertical():
		return curve.Pt(pa.X, pb.Y+sb.Value()*(pa.X-pb.X)), nil
	case sb.IsVertical():
		return curve.Pt(pb.X, pa.Y+sa.Value()*(pb.X-pa.X)), nil
	case sa.IsZero():
		return curve.Pt(pb.X+(pa.Y-pb.Y)/sb.Value(), pa.Y), nil
	case sb.IsZero():
		return curve.Pt(pa.X+(pb.Y-pa.Y)/sa.Value(), pb.Y), nil
	}
	coef := 1 / (sa.Value() - sb.Value())
	x := coef * (pb.Y - pa.Y + sa.Value()*pa.X - sb.Value()*pb.X)
	return curve.Pt(x, pa.Y+sa.Value()*(x-pa.X)), nil
}

// ValidateFlyby reports whether p lies in the axis aligned box spanned by
// a and b, borders included.
func ValidateFlyby(p, a, b curve.Point) bool {
	box := curve.NewRectFromPoints(a, b)
	return p.X >= box.MinX()-flybyEps && p.X <= box.MaxX()+flybyEps &&
		p.Y >= box.MinY()-flybyEps && p.Y <= box.MaxY()+flybyEps
}

// FitSegment fits a quadratic segment from a to b whose control point is
// the intersection of their tangents. When that point falls outside the
// box of a and b, the middle of the two fallback control points of
// FitSegmentCubic is used instead.
func FitSegment(a, b waypoint.Waypoint) Segment {
	pa, pb := a.Point(), b.Point()
	ctrl, _ := Intersect(a, b)
	if ValidateFlyby(ctrl, pa, pb) {
		return Segment{Points: []curve.Point{pa, ctrl, pb}}
	}
	c1, c2 := fallback(a, b)
	return Segment{Points: []curve.Point{pa, c1.Midpoint(c2), pb}, Fallback: true}
}

// FitSegmentCubic fits a cubic segment from a to b. When the tangents of a
// and b cross inside the box of a and b, the segment is the degree
// elevation of the quadratic through that intersection: both control
// points lie two thirds of the way from their endpoint to it. Otherwise
// the control points come from the fallback construction.
func FitSegmentCubic(a, b waypoint.Waypoint) Segment {
	pa, pb := a.Point(), b.Point()
	ctrl, err := Intersect(a, b)
	if err == nil && ValidateFlyby(ctrl, pa, pb) {
		c := curve.QuadBez{P0: pa, P1: ctrl, P2: pb}.Raise()
		return Segment{Points: []curve.Point{c.P0, c.P1, c.P2, c.P3}}
	}
	c1, c2 := fallback(a, b)
	return Segment{Points: []curve.Point{pa, c1, c2, pb}, Fallback: true}
}

// fallback derives one control point per endpoint without intersecting
// the tangents. The tangent line of each endpoint is projected on the
// vertical and the horizontal line through the middle of the segment; the
// projection closer to the other endpoint is pulled back toward its own
// endpoint and kept within a share of the chord length.
func fallback(a, b waypoint.Waypoint) (curve.Point, curve.Point) {
	pa, pb := a.Point(), b.Point()
	mid := pa.Midpoint(pb)
	maxLen := reach * pa.Distance(pb)
	return projectTangent(pa, a.Tangent, mid, pb, maxLen),
		projectTangent(pb, b.Tangent, mid, pa, maxLen)
}

func projectTangent(p curve.Point, t curve.Vec2, mid, other curve.Point, maxLen float64) curve.Point {
	if maxLen == 0 {
		return p
	}
	var candidates []curve.Point
	if utils.Abs(t.X) >= waypoint.Eps {
		candidates = append(candidates, p.Translate(t.Mul((mid.X-p.X)/t.X)))
	}
	if utils.Abs(t.Y) >= waypoint.Eps {
		candidates = append(candidates, p.Translate(t.Mul((mid.Y-p.Y)/t.Y)))
	}
	// A projection landing on p itself gives no direction.
	best, found := p, false
	for _, c := range candidates {
		if c.Distance(p) < waypoint.Eps {
			continue
		}
		if !found || c.Distance(other) < best.Distance(other) {
			best, found = c, true
		}
	}
	if !found {
		// The tangent runs through the middle of the segment: move along it
		// toward the other endpoint.
		v := t.Mul(maxLen)
		best = p.Translate(v)
		if alt := p.Translate(v.Negate()); alt.Distance(other) < best.Distance(other) {
			best = alt
		}
		return best
	}
	v := best.Sub(p).Mul(pull)
	if l := v.Hypot(); l > maxLen {
		v = v.Mul(maxLen / l)
	}
	return p.Translate(v)
}

// FitLoop fits one segment per pair of consecutive waypoints. The
// waypoints of a loop start and end on the same cell, so the chain of
// the n-1 segments is closed.
func FitLoop(wps []waypoint.Waypoint, cubic bool) Chain {
	var c Chain
	for i := 0; i+1 < len(wps); i++ {
		if cubic {
			c.Segments = append(c.Segments, FitSegmentCubic(wps[i], wps[i+1]))
		} else {
			c.Segments = append(c.Segments, FitSegment(wps[i], wps[i+1]))
		}
	}
	return c
}

// Polyline joins the cells of a loop with straight segments, the last
// cell being joined back to the first one. Control points lie on the
// joining lines, at their middle for quadratic segments and at one and two
// thirds for cubic ones.
func Polyline(cells []grid.Cell, cubic bool) Chain {
	var c Chain
	n := len(cells)
	if n < 2 {
		return c
	}
	pt := func(cell grid.Cell) curve.Point {
		return curve.Pt(float64(cell.X), float64(cell.Y))
	}
	for i := 0; i < n; i++ {
		a, b := pt(cells[i]), pt(cells[(i+1)%n])
		if cubic {
			c.Segments = append(c.Segments, Segment{Points: []curve.Point{a, a.Lerp(b, 1.0/3), a.Lerp(b, 2.0/3), b}})
		} else {
			c.Segments = append(c.Segments, Segment{Points: []curve.Point{a, a.Midpoint(b), b}})
		}
	}
	return c
}
