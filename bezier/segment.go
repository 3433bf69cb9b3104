// Package bezier fits a chain of quadratic or cubic Bezier segments through
// the waypoints of a contour loop.
package bezier

import (
	"honnef.co/go/curve"
)

// Segment holds the control points of one Bezier segment: start, one or
// two control points, end.
type Segment struct {
	Points []curve.Point
	// Fallback marks the segments whose control points do not come from
	// the intersection of the waypoint tangents.
	Fallback bool
}

// Start returns the first point of the segment.
func (s Segment) Start() curve.Point { return s.Points[0] }

// End returns the last point of the segment.
func (s Segment) End() curve.Point { return s.Points[len(s.Points)-1] }

// IsCubic reports whether the segment has two control points.
func (s Segment) IsCubic() bool { return len(s.Points) == 4 }

// Eval returns the point of the segment at parameter t in [0,1].
func (s Segment) Eval(t float64) curve.Point {
	if s.IsCubic() {
		return curve.CubicBez{P0: s.Points[0], P1: s.Points[1], P2: s.Points[2], P3: s.Points[3]}.Eval(t)
	}
	return curve.QuadBez{P0: s.Points[0], P1: s.Points[1], P2: s.Points[2]}.Eval(t)
}

// Chain is the sequence of segments fitted through a loop. The end of
// each segment is the start of the next one, and the last segment ends
// where the first one starts.
type Chain struct {
	Segments []Segment
}

// Len returns the number of segments.
func (c Chain) Len() int {
	return len(c.Segments)
}

// Closed reports whether every segment starts where the previous one ends,
// the first one included.
func (c Chain) Closed() bool {
	n := len(c.Segments)
	if n == 0 {
		return false
	}
	for i, s := range c.Segments {
		if s.End() != c.Segments[(i+1)%n].Start() {
			return false
		}
	}
	return true
}

// Points flattens the chain into a single list of points: all the points
// of the first segment, then for each following segment its control
// points and end point, its start being the end of the previous one.
func (c Chain) Points() []curve.Point {
	if len(c.Segments) == 0 {
		return nil
	}
	out := append([]curve.Point(nil), c.Segments[0].Points...)
	for _, s := range c.Segments[1:] {
		out = append(out, s.Points[1:]...)
	}
	return out
}

// Path returns the chain as a closed curve path.
func (c Chain) Path() curve.BezPath {
	var p curve.BezPath
	if len(c.Segments) == 0 {
		return p
	}
	p.MoveTo(c.Segments[0].Start())
	for _, s := range c.Segments {
		if s.IsCubic() {
			p.CubicTo(s.Points[1], s.Points[2], s.Points[3])
		} else {
			p.QuadTo(s.Points[1], s.Points[2])
		}
	}
	p.ClosePath()
	return p
}

// Sample returns n+1 evenly spaced points on every segment of the chain,
// the shared ends listed once.
func (c Chain) Sample(n int) []curve.Point {
	if n < 1 {
		n = 1
	}
	var out []curve.Point
	for i, s := range c.Segments {
		from := 1
		if i == 0 {
			from = 0
		}
		for k := from; k <= n; k++ {
			out = append(out, s.Eval(float64(k)/float64(n)))
		}
	}
	return out
}
