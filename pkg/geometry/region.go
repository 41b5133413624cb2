package geometry

import (
	"cmp"
	"math"
	"slices"

	"github.com/ctessum/geom"
)

// Region is an arbitrary polygonal area, possibly disconnected and with
// holes, stored as the flat contour list of the boolean engine.
type Region struct {
	poly geom.Polygon
}

// RegionOf returns the region covered by r.
func RegionOf(r Ring) Region {
	r = r.Clean()
	if len(r) < 3 {
		return Region{}
	}
	return Region{poly: geom.Polygon{toPath(r)}}
}

// Union returns the area covered by any of the rings.
func Union(rings ...Ring) Region {
	var acc Region
	for _, r := range rings {
		acc = acc.Union(RegionOf(r))
	}
	return acc
}

// IsEmpty reports whether the region has no contours.
func (g Region) IsEmpty() bool { return len(g.poly) == 0 }

// Union returns g ∪ o.
func (g Region) Union(o Region) Region {
	switch {
	case o.IsEmpty():
		return g
	case g.IsEmpty():
		return o
	}
	return Region{poly: g.poly.Union(o.poly).(geom.Polygon)}
}

// Difference returns g minus o.
func (g Region) Difference(o Region) Region {
	if g.IsEmpty() || o.IsEmpty() {
		return g
	}
	return Region{poly: g.poly.Difference(o.poly).(geom.Polygon)}
}

// Area returns the total area of the region.
func (g Region) Area() float64 {
	return g.Polygons().Area()
}

// Polygons decomposes the region into simple polygons. Contours nested at an
// even depth are shells; odd-depth contours are holes of the smallest shell
// enclosing them. Contours with no area are dropped. The result keeps the
// contour order of the boolean engine.
func (g Region) Polygons() MultiPolygon {
	type contour struct {
		ring  Ring
		area  float64
		depth int
	}
	var cs []contour
	for _, path := range g.poly {
		r := fromPath(path).Clean()
		if a := r.Area(); len(r) >= 3 && a > Epsilon {
			cs = append(cs, contour{ring: r, area: a})
		}
	}

	// nested decides by the first vertex of inner that is not on the
	// boundary of outer.
	nested := func(inner, outer Ring) bool {
		for _, p := range inner {
			switch locate(outer, p) {
			case inside:
				return true
			case outside:
				return false
			}
		}
		return false
	}

	for i := range cs {
		for j := range cs {
			if i != j && cs[j].area > cs[i].area && nested(cs[i].ring, cs[j].ring) {
				cs[i].depth++
			}
		}
	}

	var shapes MultiPolygon
	shellIdx := make(map[int]int)
	for i, c := range cs {
		if c.depth%2 == 0 {
			shellIdx[i] = len(shapes)
			shapes = append(shapes, Polygon{Shell: c.ring.CCW()})
		}
	}
	for _, c := range cs {
		if c.depth%2 == 0 {
			continue
		}
		owner := -1
		for j, s := range cs {
			if s.depth != c.depth-1 || !nested(c.ring, s.ring) {
				continue
			}
			if owner < 0 || s.area < cs[owner].area {
				owner = j
			}
		}
		if owner < 0 {
			continue
		}
		hole := slices.Clone(c.ring.CCW())
		slices.Reverse(hole)
		k := shellIdx[owner]
		shapes[k].Holes = append(shapes[k].Holes, hole)
	}

	out := shapes[:0]
	for _, s := range shapes {
		if s.Area() > Epsilon {
			out = append(out, s)
		}
	}
	return out
}

// SortByCentroid orders shapes by ascending centroid x, then centroid y.
// Centroid x is snapped to a 1e-9 grid first so that boolean-engine noise
// does not decide the order of shapes stacked in the same column.
func SortByCentroid(shapes []Polygon) {
	slices.SortStableFunc(shapes, func(a, b Polygon) int {
		ca, cb := a.Centroid(), b.Centroid()
		if c := cmp.Compare(snap(ca.X), snap(cb.X)); c != 0 {
			return c
		}
		return cmp.Compare(ca.Y, cb.Y)
	})
}

// snap rounds v to the nearest multiple of 1e-9.
func snap(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}

func toPath(r Ring) geom.Path {
	path := make(geom.Path, len(r))
	for i, p := range r {
		path[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return path
}

func fromPath(path geom.Path) Ring {
	r := make(Ring, len(path))
	for i, p := range path {
		r[i] = Point{X: p.X, Y: p.Y}
	}
	return r
}
