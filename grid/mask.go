package grid

import "image"

// Mask is a boolean flag per cell of a rectangle, used to record which
// cells a segmentation pass has already accounted for.
type Mask struct {
	rect image.Rectangle
	bits []bool
}

// NewMask returns a mask covering r with every flag cleared.
func NewMask(r image.Rectangle) *Mask {
	return &Mask{
		rect: r,
		bits: make([]bool, r.Dx()*r.Dy()),
	}
}

// Bounds returns the rectangle covered by the mask.
func (m *Mask) Bounds() image.Rectangle {
	return m.rect
}

func (m *Mask) offset(c Cell) int {
	return (c.Y-m.rect.Min.Y)*m.rect.Dx() + (c.X - m.rect.Min.X)
}

// Get returns the flag of c. Cells outside the mask are reported unset.
func (m *Mask) Get(c Cell) bool {
	if m == nil || !c.In(m.rect) {
		return false
	}
	return m.bits[m.offset(c)]
}

// Set raises the flag of c. Cells outside the mask are ignored.
func (m *Mask) Set(c Cell) {
	if !c.In(m.rect) {
		return
	}
	m.bits[m.offset(c)] = true
}

// SetAll raises the flag of every given cell.
func (m *Mask) SetAll(cells []Cell) {
	for _, c := range cells {
		m.Set(c)
	}
}

// Count returns the number of raised flags.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// NextUnset scans r in row-major order starting at from and returns the
// first cell whose flag is cleared.
func (m *Mask) NextUnset(r image.Rectangle, from Cell) (Cell, bool) {
	r = r.Intersect(m.rect)
	if r.Empty() {
		return Cell{}, false
	}
	y, x := from.Y, from.X
	if y < r.Min.Y {
		y, x = r.Min.Y, r.Min.X
	}
	for ; y < r.Max.Y; y++ {
		if x < r.Min.X {
			x = r.Min.X
		}
		for ; x < r.Max.X; x++ {
			c := Cell{x, y}
			if !m.Get(c) {
				return c, true
			}
		}
		x = r.Min.X
	}
	return Cell{}, false
}
