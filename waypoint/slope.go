// Package waypoint reduces an ordered contour loop to the few cells a
// Bezier chain has to go through, and estimates the tangent of the loop
// at each of them.
package waypoint

import (
	"strconv"

	"github.com/esimov/vectrace/utils"
	"honnef.co/go/curve"
)

// Eps is the magnitude under which a tangent component counts as zero.
const Eps = 1e-10

// Slope is the dy/dx ratio of a tangent. A vertical tangent has no finite
// ratio and is a value of its own.
type Slope struct {
	value    float64
	vertical bool
}

// Vertical is the slope of a tangent parallel to the y axis.
var Vertical = Slope{vertical: true}

// Finite returns the slope of value v.
func Finite(v float64) Slope {
	return Slope{value: v}
}

// SlopeOf derives the slope of the direction v.
func SlopeOf(v curve.Vec2) Slope {
	switch {
	case utils.Abs(v.X) < Eps:
		return Vertical
	case utils.Abs(v.Y) < Eps:
		return Finite(0)
	default:
		return Finite(v.Y / v.X)
	}
}

// IsVertical reports whether the slope is Vertical.
func (s Slope) IsVertical() bool {
	return s.vertical
}

// IsZero reports whether the slope is a horizontal one.
func (s Slope) IsZero() bool {
	return !s.vertical && s.value == 0
}

// Value returns the finite slope value. It is zero for Vertical.
func (s Slope) Value() float64 {
	return s.value
}

// Equal reports whether both slopes are vertical or share the same value.
func (s Slope) Equal(o Slope) bool {
	if s.vertical || o.vertical {
		return s.vertical == o.vertical
	}
	return s.value == o.value
}

func (s Slope) String() string {
	if s.vertical {
		return "vertical"
	}
	return strconv.FormatFloat(s.value, 'g', -1, 64)
}
