package grid

import (
	"image"

	"golang.org/x/exp/slices"
)

// Set is an ordered set of cells. Membership tests, insertion and removal
// are constant time; iteration follows insertion order, except that a
// removal moves the last cell into the freed slot. The zero value is an
// empty set ready to use.
type Set struct {
	cells []Cell
	index map[Cell]int
}

// NewSet returns a set holding the given cells.
func NewSet(cells ...Cell) *Set {
	s := &Set{
		cells: make([]Cell, 0, len(cells)),
		index: make(map[Cell]int, len(cells)),
	}
	for _, c := range cells {
		s.Add(c)
	}
	return s
}

// Len returns the number of cells in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cells)
}

// Has reports whether c is a member of the set.
func (s *Set) Has(c Cell) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[c]
	return ok
}

// Add inserts c and reports whether it was not already present.
func (s *Set) Add(c Cell) bool {
	if s.index == nil {
		s.index = make(map[Cell]int)
	}
	if _, ok := s.index[c]; ok {
		return false
	}
	s.index[c] = len(s.cells)
	s.cells = append(s.cells, c)
	return true
}

// Remove deletes c and reports whether it was present.
func (s *Set) Remove(c Cell) bool {
	i, ok := s.index[c]
	if !ok {
		return false
	}
	last := len(s.cells) - 1
	if i != last {
		moved := s.cells[last]
		s.cells[i] = moved
		s.index[moved] = i
	}
	s.cells = s.cells[:last]
	delete(s.index, c)
	return true
}

// Pop removes and returns the most recently added cell still in the set.
func (s *Set) Pop() (Cell, bool) {
	if s.Len() == 0 {
		return Cell{}, false
	}
	c := s.cells[len(s.cells)-1]
	s.Remove(c)
	return c, true
}

// Cells returns a copy of the members in iteration order.
func (s *Set) Cells() []Cell {
	if s == nil {
		return nil
	}
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// Sorted returns a copy of the members in row-major order.
func (s *Set) Sorted() []Cell {
	out := s.Cells()
	slices.SortFunc(out, Cell.Less)
	return out
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	return NewSet(s.Cells()...)
}

// Union adds every member of o to s.
func (s *Set) Union(o *Set) {
	if o == nil {
		return
	}
	for _, c := range o.cells {
		s.Add(c)
	}
}

// Overlap returns the number of cells present in both sets.
func (s *Set) Overlap(o *Set) int {
	small, large := s, o
	if small.Len() > large.Len() {
		small, large = large, small
	}
	if small == nil {
		return 0
	}
	n := 0
	for _, c := range small.cells {
		if large.Has(c) {
			n++
		}
	}
	return n
}

// Bounds returns the smallest rectangle containing every member. The
// rectangle is empty for an empty set.
func (s *Set) Bounds() image.Rectangle {
	if s.Len() == 0 {
		return image.Rectangle{}
	}
	first := s.cells[0]
	r := image.Rect(first.X, first.Y, first.X+1, first.Y+1)
	for _, c := range s.cells[1:] {
		r = r.Union(image.Rect(c.X, c.Y, c.X+1, c.Y+1))
	}
	return r
}

// Count returns how many of the given cells are members of s.
func (s *Set) Count(cells []Cell) int {
	n := 0
	for _, c := range cells {
		if s.Has(c) {
			n++
		}
	}
	return n
}
