package contour

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/esimov/vectrace/grid"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square returns the perimeter of the n x n square whose top-left cell is
// (x0, y0), corners included.
func square(x0, y0, n int) []grid.Cell {
	var cells []grid.Cell
	for i := 0; i < n; i++ {
		cells = append(cells, grid.Pt(x0+i, y0), grid.Pt(x0+i, y0+n-1))
	}
	for j := 1; j < n-1; j++ {
		cells = append(cells, grid.Pt(x0, y0+j), grid.Pt(x0+n-1, y0+j))
	}
	return cells
}

func assertClosedWalk(t *testing.T, loop []grid.Cell) {
	t.Helper()
	for i, c := range loop {
		next := loop[(i+1)%len(loop)]
		assert.Truef(t, c.IsNeighbour8(next), "%v and %v are not neighbours", c, next)
	}
}

func mustGrid(t *testing.T, rows [][]float64) *grid.Grid {
	t.Helper()
	g, err := grid.FromRows(rows)
	require.NoError(t, err)
	return g
}

func TestSegment_DisjointSingleCells(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{0.2, 0.5, 0.5},
		{0.5, 0.5, 0.5},
		{0.5, 0.5, 0.8},
	})
	contours, err := SegmentAll(g, 0, 0)
	require.NoError(t, err)
	require.Len(t, contours, 3)

	first, last := contours[0], contours[2]
	assert.Equal(t, grid.Pt(1, 1), first.Seed)
	assert.Equal(t, 0.2, first.Grey)
	assert.ElementsMatch(t, []grid.Cell{{X: 2, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 1}, {X: 1, Y: 0}}, first.Cells.Cells())
	assert.Equal(t, grid.Pt(3, 3), last.Seed)
	assert.ElementsMatch(t, []grid.Cell{{X: 4, Y: 3}, {X: 3, Y: 4}, {X: 2, Y: 3}, {X: 3, Y: 2}}, last.Cells.Cells())
	assert.Zero(t, first.Cells.Overlap(last.Cells))

	// The surrounding region sees both single cells as its boundary.
	assert.True(t, contours[1].Cells.Has(grid.Pt(1, 1)))
	assert.True(t, contours[1].Cells.Has(grid.Pt(3, 3)))

	kept := RemoveDouble(contours, DefaultOverlapRatio)
	assert.Len(t, kept, 3)
}

func TestSegment_BorderSeed(t *testing.T) {
	g := mustGrid(t, [][]float64{{0, 0}, {0, 0}})
	_, err := Segment(g, grid.Pt(0, 0), 0, 0)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrIterationCapExceeded))
}

func TestSegment_IterationCap(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{0, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
	})
	r, err := Segment(g, grid.Pt(2, 2), 0, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIterationCapExceeded))
	require.NotNil(t, r)
	assert.Less(t, r.Visited.Len(), 9)

	contours, err := SegmentAll(g, 0, 2)
	assert.True(t, errors.Is(err, ErrIterationCapExceeded))
	assert.NotEmpty(t, contours)

	contours, err = SegmentAll(g, 0, 0)
	require.NoError(t, err)
	require.Len(t, contours, 1)
	// A region covering the whole image is bounded by the border ring,
	// without its four corners.
	assert.Equal(t, 12, contours[0].Len())
}

func TestSegment_Tolerance(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{0.5, 0.55, 0.5},
		{0.5, 0.5, 0.5},
	})
	contours, err := SegmentAll(g, 0.1, 0)
	require.NoError(t, err)
	assert.Len(t, contours, 1)

	contours, err = SegmentAll(g, 0, 0)
	require.NoError(t, err)
	assert.Len(t, contours, 2)
}

func TestNesting_InnerRegion(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
	})
	contours, err := SegmentAll(g, 0, 0)
	require.NoError(t, err)
	require.Len(t, contours, 2)

	outer, inner := contours[0], contours[1]
	assert.Equal(t, 21, outer.Len())
	assert.Equal(t, 4, inner.Len())
	assert.True(t, HasEquivIn(inner, outer, g, 0))
	assert.False(t, HasEquivIn(outer, inner, g, 0))

	assert.Equal(t, 1, Disinclude(inner, outer, g, 0))
	assert.False(t, outer.Cells.Has(grid.Pt(3, 3)))
	assert.Equal(t, 20, outer.Len())
	assert.Zero(t, Disinclude(inner, outer, g, 0))

	loops, err := SeparateAll(outer)
	require.NoError(t, err)
	require.Len(t, loops, 1)
	assert.Equal(t, 20, loops[0].Len())
	assertClosedWalk(t, loops[0].Cells)

	loops, err = SeparateAll(inner)
	require.NoError(t, err)
	require.Len(t, loops, 1)
	want := []grid.Cell{{X: 3, Y: 2}, {X: 4, Y: 3}, {X: 3, Y: 4}, {X: 2, Y: 3}}
	if diff := cmp.Diff(want, loops[0].Cells); diff != "" {
		t.Errorf("inner loop mismatch (-want +got):\n%s", diff)
	}
}

func TestNesting_ResolveNesting(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	contours, err := SegmentAll(g, 0, 0)
	require.NoError(t, err)
	require.Len(t, contours, 2)
	assert.Equal(t, 1, ResolveNesting(contours, g, 0))
	assert.Equal(t, 12, contours[0].Len())
}

func TestNesting_SideBySideRegionsAreNotNested(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{0, 0, 1, 1},
		{0, 0, 1, 1},
	})
	contours, err := SegmentAll(g, 0, 0)
	require.NoError(t, err)
	require.Len(t, contours, 2)
	assert.False(t, HasEquivIn(contours[0], contours[1], g, 0))
	assert.False(t, HasEquivIn(contours[1], contours[0], g, 0))
	assert.Zero(t, ResolveNesting(contours, g, 0))
}

func TestNesting_RegionsOnTheImageEdge(t *testing.T) {
	for _, tc := range []struct {
		name      string
		rows      [][]float64
		blockSeed grid.Cell
		loopLen   int
	}{
		{
			name: "top edge",
			rows: [][]float64{
				{0, 0, 1, 1, 0, 0},
				{0, 0, 1, 1, 0, 0},
				{0, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0, 0},
			},
			blockSeed: grid.Pt(3, 1),
			loopLen:   22,
		},
		{
			name: "corner",
			rows: [][]float64{
				{1, 1, 0, 0, 0},
				{1, 1, 0, 0, 0},
				{0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0},
			},
			blockSeed: grid.Pt(1, 1),
			loopLen:   18,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := mustGrid(t, tc.rows)
			contours, err := SegmentAll(g, 0, 0)
			require.NoError(t, err)
			require.Len(t, contours, 2)

			var block, background *Contour
			for _, c := range contours {
				if c.Seed == tc.blockSeed {
					block = c
				} else {
					background = c
				}
			}
			require.NotNil(t, block)
			require.NotNil(t, background)

			assert.False(t, HasEquivIn(block, background, g, 0))
			assert.False(t, HasEquivIn(background, block, g, 0))
			size := background.Len()
			assert.Zero(t, ResolveNesting(contours, g, 0))
			assert.Equal(t, size, background.Len())

			for _, c := range contours {
				Thin(c.Cells)
				loops, err := SeparateAll(c)
				require.NoError(t, err)
				require.Len(t, loops, 1)
				assertClosedWalk(t, loops[0].Cells)
				if c == background {
					assert.Equal(t, tc.loopLen, loops[0].Len())
				}
			}
		})
	}
}

func TestThin_TriangleTip(t *testing.T) {
	// A path bending round a cell that only touches two adjacent path cells.
	s := grid.NewSet(
		grid.Pt(0, 0), grid.Pt(1, 0), grid.Pt(2, 1),
		grid.Pt(3, 1), grid.Pt(3, 2), grid.Pt(4, 0), grid.Pt(5, 0),
	)
	assert.Equal(t, 1, Thin(s))
	assert.False(t, s.Has(grid.Pt(3, 2)))
	assert.Equal(t, 6, s.Len())
}

func TestRemoveDouble(t *testing.T) {
	a := &Contour{Cells: grid.NewSet(square(0, 0, 4)...)}
	b := &Contour{Cells: grid.NewSet(square(0, 0, 4)[:10]...)}
	c := &Contour{Cells: grid.NewSet(square(10, 10, 3)...)}
	kept := RemoveDouble([]*Contour{b, c, a}, DefaultOverlapRatio)
	assert.Equal(t, []*Contour{c, a}, kept)

	// Below the ratio both are kept.
	d := &Contour{Cells: grid.NewSet(square(0, 0, 4)[:6]...)}
	d.Cells.Add(grid.Pt(20, 20))
	d.Cells.Add(grid.Pt(21, 20))
	d.Cells.Add(grid.Pt(22, 20))
	kept = RemoveDouble([]*Contour{a, d}, DefaultOverlapRatio)
	assert.Len(t, kept, 2)
}

func TestThin_SquareCorners(t *testing.T) {
	s := grid.NewSet(square(0, 0, 5)...)
	assert.Equal(t, 4, Thin(s))
	assert.Equal(t, 12, s.Len())
	for _, corner := range []grid.Cell{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}} {
		assert.False(t, s.Has(corner))
	}
	loop, err := SeparateLoop(s)
	require.NoError(t, err)
	assert.Len(t, loop, 12)
	assertClosedWalk(t, loop)
}

func TestThin_Idempotent(t *testing.T) {
	// A two cells thick ring with a spur and a filled corner.
	var cells []grid.Cell
	cells = append(cells, square(0, 0, 8)...)
	cells = append(cells, square(1, 1, 6)...)
	cells = append(cells, grid.Pt(8, 3), grid.Pt(2, 2))
	s := grid.NewSet(cells...)

	Thin(s)
	once := s.Sorted()
	assert.Zero(t, Thin(s))
	if diff := cmp.Diff(once, s.Sorted()); diff != "" {
		t.Errorf("second thinning changed the set (-once +twice):\n%s", diff)
	}
}

func TestThin_CornerlessRingIsKept(t *testing.T) {
	var cells []grid.Cell
	for i := 1; i <= 10; i++ {
		cells = append(cells, grid.Pt(i, 0), grid.Pt(i, 11), grid.Pt(0, i), grid.Pt(11, i))
	}
	s := grid.NewSet(cells...)
	assert.Zero(t, Thin(s))
	assert.Equal(t, 40, s.Len())
}

func TestSeparateLoop_RoundTrip(t *testing.T) {
	for _, n := range []int{2, 3, 5, 10} {
		cells := square(3, 2, n)
		loop, err := SeparateLoop(grid.NewSet(cells...))
		require.NoError(t, err)
		assert.ElementsMatch(t, cells, loop)
		assertClosedWalk(t, loop)
		assert.Equal(t, grid.Pt(3, 2), loop[0])
	}
}

func TestSeparateLoop_Malformed(t *testing.T) {
	line := grid.NewSet(grid.Pt(0, 0), grid.Pt(1, 0), grid.Pt(2, 0), grid.Pt(3, 0))
	loop, err := SeparateLoop(line)
	assert.True(t, errors.Is(err, ErrMalformedContour))
	assert.Len(t, loop, 4)
	assert.Zero(t, line.Len())

	_, err = SeparateLoop(grid.NewSet())
	assert.True(t, errors.Is(err, ErrMalformedContour))
}

func TestSeparateAll_DisjointLoops(t *testing.T) {
	cells := append(square(0, 0, 4), square(10, 0, 3)...)
	c := &Contour{Cells: grid.NewSet(cells...), Color: color.NRGBA{R: 255, A: 255}}
	loops, err := SeparateAll(c)
	require.NoError(t, err)
	require.Len(t, loops, 2)
	assert.Len(t, loops[0].Cells, 12)
	assert.Len(t, loops[1].Cells, 8)
	assert.Equal(t, "#ff0000", loops[1].Hex())

	cells = append(square(0, 0, 4), grid.Pt(20, 20))
	c = &Contour{Cells: grid.NewSet(cells...)}
	loops, err = SeparateAll(c)
	assert.True(t, errors.Is(err, ErrMalformedContour))
	assert.Len(t, loops, 1)
}

func TestPaintOrder(t *testing.T) {
	small := &Loop{Cells: square(5, 5, 3)}
	large := &Loop{Cells: square(0, 0, 10)}
	tie := &Loop{Cells: square(1, 5, 3)}
	twin := &Loop{Cells: square(5, 5, 3)}
	loops := []*Loop{small, large, twin, tie}
	PaintOrder(loops)
	// Equal keys keep their order.
	for i, want := range []*Loop{large, tie, small, twin} {
		assert.Samef(t, want, loops[i], "loop %d", i)
	}
}

func TestLoop_At(t *testing.T) {
	l := &Loop{Cells: []grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}
	assert.Equal(t, grid.Pt(1, 1), l.At(-1))
	assert.Equal(t, grid.Pt(1, 0), l.At(4))
	assert.Equal(t, 2, l.Index(grid.Pt(1, 1)))
	assert.Equal(t, -1, l.Index(grid.Pt(5, 5)))
	assert.Equal(t, image.Rect(0, 0, 2, 2), l.Bounds())
}

func TestContour_Sample(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 0, color.NRGBA{R: 255, G: 128, A: 255})

	c := &Contour{Seed: grid.Pt(2, 1)}
	c.Sample(img)
	assert.Equal(t, "#ff8000", c.Hex())

	c = &Contour{Seed: grid.Pt(1, 1), Grey: 0.5}
	c.Sample(nil)
	assert.Equal(t, "#7f7f7f", c.Hex())
}
