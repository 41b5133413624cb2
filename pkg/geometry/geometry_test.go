package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingAreaAndCentroid(t *testing.T) {
	sq := Rect(Point{1, 2}, 4, 2)
	assert.InDelta(t, 8.0, sq.Area(), 1e-12)
	assert.Greater(t, sq.SignedArea(), 0.0, "Rect should be counter-clockwise")

	c := sq.Centroid()
	assert.InDelta(t, 3.0, c.X, 1e-12)
	assert.InDelta(t, 3.0, c.Y, 1e-12)

	cw := sq.CCW()
	for i, j := 0, len(cw)-1; i < j; i, j = i+1, j-1 {
		cw[i], cw[j] = cw[j], cw[i]
	}
	assert.InDelta(t, -8.0, cw.SignedArea(), 1e-12)
	assert.InDelta(t, 8.0, cw.CCW().SignedArea(), 1e-12)
	assert.InDelta(t, 12.0, sq.Perimeter(), 1e-12)
}

func TestRingClean(t *testing.T) {
	r := Ring{{0, 0}, {0, 0}, {1, 0}, {1, 1}, {0, 0}}
	assert.Equal(t, Ring{{0, 0}, {1, 0}, {1, 1}}, r.Clean())
}

func TestRotate(t *testing.T) {
	sq := Rect(Point{0, 0}, 4, 2)
	c := sq.Centroid()

	same := sq.Rotate(c, 360)
	assert.Equal(t, sq, same, "whole turns keep exact coordinates")

	quarter := sq.Rotate(c, 90)
	b := quarter.Bounds()
	assert.InDelta(t, 2.0, b.Width(), 1e-9)
	assert.InDelta(t, 4.0, b.Height(), 1e-9)
	assert.InDelta(t, 8.0, quarter.Area(), 1e-9)
	assert.Greater(t, quarter.SignedArea(), 0.0, "rotation keeps orientation")

	// (4,0) relative to centre (2,1) is (2,-1); rotated 90 CCW it is (1,2).
	assert.InDelta(t, 3.0, quarter[1].X, 1e-9)
	assert.InDelta(t, 3.0, quarter[1].Y, 1e-9)
}

func TestShapeAreaCentroidWithHole(t *testing.T) {
	s := Polygon{
		Shell: Rect(Point{0, 0}, 10, 10),
		Holes: []Ring{Rect(Point{0, 0}, 5, 10)},
	}
	assert.InDelta(t, 50.0, s.Area(), 1e-9)
	c := s.Centroid()
	assert.InDelta(t, 7.5, c.X, 1e-9)
	assert.InDelta(t, 5.0, c.Y, 1e-9)
}

func TestShapeContains(t *testing.T) {
	s := Polygon{
		Shell: Rect(Point{0, 0}, 10, 10),
		Holes: []Ring{Rect(Point{4, 4}, 2, 2)},
	}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"interior", Point{1, 1}, true},
		{"on shell edge", Point{10, 5}, true},
		{"outside", Point{11, 5}, false},
		{"in hole", Point{5, 5}, false},
		{"on hole edge", Point{4, 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Contains(tt.p))
		})
	}
}

func TestNearestOnBoundary(t *testing.T) {
	s := Polygon{Shell: Rect(Point{0, 0}, 10, 10)}
	assert.Equal(t, Point{10, 10}, s.NearestOnBoundary(Point{11, 11}))
	assert.Equal(t, Point{10, 4}, s.NearestOnBoundary(Point{12, 4}))
	assert.Equal(t, Point{0, 0}, NearestOnSegment(Point{0, 0}, Point{0, 0}, Point{3, 3}))
}

func TestBufferRingSquare(t *testing.T) {
	got := BufferRing(Rect(Point{0, 0}, 2, 2), 0.5)
	require.Len(t, got, 4)
	b := got.Bounds()
	assert.Equal(t, BBox{-0.5, -0.5, 2.5, 2.5}, b)
	assert.InDelta(t, 9.0, got.Area(), 1e-9)
}

func TestBufferRingConcave(t *testing.T) {
	// L-shape: the reflex corner at (1,1) moves inward along the bisector.
	l := Ring{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}
	got := BufferRing(l, 0.25)
	require.Len(t, got, 6)
	assert.InDelta(t, 1.25, got[3].X, 1e-9)
	assert.InDelta(t, 1.25, got[3].Y, 1e-9)
	assert.Equal(t, BBox{-0.25, -0.25, 2.25, 2.25}, got.Bounds())
}

func TestBufferRingDegenerate(t *testing.T) {
	// A gate whose moves retrace the start collapses to a line.
	got := BufferRing(Ring{{0, 0}, {4, 0}, {0, 0}}, 0.5)
	require.NotEmpty(t, got)
	assert.InDelta(t, 4.0, got.Area(), 1e-9)
}

func TestBufferLine(t *testing.T) {
	t.Run("straight", func(t *testing.T) {
		got := BufferLine([]Point{{-10, 5}, {10, 5}}, 0.1)
		b := got.Bounds()
		assert.InDelta(t, -10.0, b.MinX, 1e-12, "flat caps do not extend past the ends")
		assert.InDelta(t, 10.0, b.MaxX, 1e-12)
		assert.InDelta(t, 4.9, b.MinY, 1e-12)
		assert.InDelta(t, 5.1, b.MaxY, 1e-12)
		assert.Greater(t, got.SignedArea(), 0.0)
	})

	t.Run("elbow", func(t *testing.T) {
		got := BufferLine([]Point{{0, 0}, {4, 0}, {4, 4}}, 0.5)
		b := got.Bounds()
		assert.Equal(t, BBox{0, -0.5, 4.5, 4}, b)
		// two 4x1 arms sharing a 1x1 corner overlap, mitred out to the corner
		assert.InDelta(t, 8.0, got.Area(), 1e-9)
	})

	t.Run("too short", func(t *testing.T) {
		assert.Nil(t, BufferLine([]Point{{1, 1}, {1, 1}}, 0.5))
		assert.Nil(t, BufferLine(nil, 0.5))
	})
}

func TestClipConvex(t *testing.T) {
	a := Rect(Point{0, 0}, 2, 2)
	b := Rect(Point{1, 1}, 2, 2)
	assert.InDelta(t, 1.0, ClipConvex(a, b).Area(), 1e-12)

	assert.InDelta(t, 4.0, ClipConvex(a, a).Area(), 1e-12, "identical squares")
	assert.Empty(t, ClipConvex(a, Rect(Point{5, 5}, 1, 1)))

	// Concave subject against a convex window.
	l := Ring{{0, 0}, {4, 0}, {4, 2}, {2, 2}, {2, 4}, {0, 4}}
	assert.InDelta(t, 5.0, ClipConvex(l, Rect(Point{1, 1}, 3, 3)).Area(), 1e-9)
}

func TestIntersectionAreaWithHole(t *testing.T) {
	s := Polygon{
		Shell: Rect(Point{0, 0}, 10, 10),
		Holes: []Ring{Rect(Point{4, 4}, 2, 2)},
	}
	assert.InDelta(t, 12.0, IntersectionArea(s, Rect(Point{3, 3}, 4, 4)), 1e-9)
	assert.InDelta(t, 0.0, IntersectionArea(s, Rect(Point{4.5, 4.5}, 1, 1)), 1e-9)
}

func TestRegionSplitByCut(t *testing.T) {
	base := RegionOf(Rect(Point{0, 0}, 10, 10))
	cut := RegionOf(BufferLine([]Point{{-1000, 5}, {1000, 5}}, 0.1))

	shapes := base.Difference(cut).Polygons()
	require.Len(t, shapes, 2)
	SortByCentroid(shapes)
	assert.Less(t, shapes[0].Centroid().Y, shapes[1].Centroid().Y)
	for _, s := range shapes {
		assert.InDelta(t, 49.0, s.Area(), 1e-6)
		assert.Empty(t, s.Holes)
	}
}

func TestRegionHole(t *testing.T) {
	base := RegionOf(Rect(Point{0, 0}, 10, 10))
	slot := RegionOf(Rect(Point{4, 4}, 2, 2))

	shapes := base.Difference(slot).Polygons()
	require.Len(t, shapes, 1)
	require.Len(t, shapes[0].Holes, 1)
	assert.InDelta(t, 96.0, shapes[0].Area(), 1e-6)
	assert.InDelta(t, 4.0, shapes[0].Holes[0].Area(), 1e-6)
}

func TestRegionUnionAndEmpty(t *testing.T) {
	u := Union(Rect(Point{0, 0}, 2, 2), Rect(Point{1, 0}, 2, 2))
	assert.InDelta(t, 6.0, u.Area(), 1e-6)

	var empty Region
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.Polygons())

	swallowed := RegionOf(Rect(Point{0, 0}, 1, 1)).Difference(RegionOf(Rect(Point{-1, -1}, 3, 3)))
	assert.Empty(t, swallowed.Polygons())
}

func TestSortByCentroid(t *testing.T) {
	shapes := []Polygon{
		{Shell: Rect(Point{6, 0}, 2, 2)},
		{Shell: Rect(Point{0, 5}, 2, 2)},
		{Shell: Rect(Point{0, 0}, 2, 2)},
	}
	SortByCentroid(shapes)
	assert.Equal(t, Point{0, 0}, shapes[0].Shell[0])
	assert.Equal(t, Point{0, 5}, shapes[1].Shell[0])
	assert.Equal(t, Point{6, 0}, shapes[2].Shell[0])
}

func TestSortByCentroidColumnTies(t *testing.T) {
	// centroid x: 1, 1+6e-10, 1+1.2e-9; the last two share a 1e-9 cell
	a := Polygon{Shell: Rect(Point{0, 10}, 2, 2)}
	b := Polygon{Shell: Rect(Point{6e-10, 5}, 2, 2)}
	c := Polygon{Shell: Rect(Point{1.2e-9, 0}, 2, 2)}

	orders := [][]Polygon{{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a}}
	for _, shapes := range orders {
		SortByCentroid(shapes)
		assert.Equal(t, []Polygon{a, c, b}, shapes)
	}
}

func TestRegionBooleanOps(t *testing.T) {
	u := RegionOf(Rect(Point{0, 0}, 2, 2)).Union(RegionOf(Rect(Point{1, 0}, 2, 2)))
	assert.InDelta(t, 6.0, u.Area(), 1e-9)

	d := u.Difference(RegionOf(Rect(Point{0, 0}, 1, 2)))
	require.Len(t, d.Polygons(), 1)
	assert.InDelta(t, 4.0, d.Area(), 1e-9)
}
