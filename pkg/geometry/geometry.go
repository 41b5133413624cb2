package geometry

import (
	"math"
	"slices"
)

// Epsilon is the coordinate tolerance used to merge points and to treat
// areas as empty.
const Epsilon = 1e-9

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p*s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Len returns the Euclidean norm of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Near reports whether p and q are within Epsilon on both axes.
func (p Point) Near(q Point) bool {
	return math.Abs(p.X-q.X) <= Epsilon && math.Abs(p.Y-q.Y) <= Epsilon
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Ring is a closed polygon boundary. The edge from the last point back to
// the first is implied.
type Ring []Point

// Rect returns the counter-clockwise ring of an axis-aligned rectangle with
// its lower-left corner at origin.
func Rect(origin Point, w, h float64) Ring {
	return Ring{
		origin,
		{origin.X + w, origin.Y},
		{origin.X + w, origin.Y + h},
		{origin.X, origin.Y + h},
	}
}

// Clean returns r without consecutive duplicate points and without an
// explicit closing point.
func (r Ring) Clean() Ring {
	out := make(Ring, 0, len(r))
	for _, p := range r {
		if len(out) > 0 && out[len(out)-1].Near(p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Near(out[0]) {
		out = out[:len(out)-1]
	}
	return out
}

// SignedArea returns the shoelace area: positive for counter-clockwise rings.
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	var a float64
	for i, p := range r {
		q := r[(i+1)%len(r)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// Area returns the unsigned area of r.
func (r Ring) Area() float64 { return math.Abs(r.SignedArea()) }

// Perimeter returns the total edge length of r.
func (r Ring) Perimeter() float64 {
	var l float64
	for i, p := range r {
		l += r[(i+1)%len(r)].Sub(p).Len()
	}
	return l
}

// Centroid returns the area centroid of r, or the vertex mean when r has no
// area.
func (r Ring) Centroid() Point {
	a := r.SignedArea()
	if math.Abs(a) <= Epsilon {
		var c Point
		for _, p := range r {
			c = c.Add(p)
		}
		if len(r) > 0 {
			c = c.Scale(1 / float64(len(r)))
		}
		return c
	}
	var cx, cy float64
	for i, p := range r {
		q := r[(i+1)%len(r)]
		f := p.X*q.Y - q.X*p.Y
		cx += (p.X + q.X) * f
		cy += (p.Y + q.Y) * f
	}
	return Point{cx / (6 * a), cy / (6 * a)}
}

// Bounds returns the bounding box of r.
func (r Ring) Bounds() BBox {
	if len(r) == 0 {
		return BBox{}
	}
	b := BBox{MinX: r[0].X, MinY: r[0].Y, MaxX: r[0].X, MaxY: r[0].Y}
	for _, p := range r[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// Rotate returns r rotated about c by deg degrees, counter-clockwise for
// positive angles. Whole turns return an unmodified copy so axis-aligned
// coordinates stay exact.
func (r Ring) Rotate(c Point, deg float64) Ring {
	out := slices.Clone(r)
	if math.Mod(deg, 360) == 0 {
		return out
	}
	sin, cos := math.Sincos(deg * math.Pi / 180)
	for i, p := range r {
		d := p.Sub(c)
		out[i] = Point{c.X + d.X*cos - d.Y*sin, c.Y + d.X*sin + d.Y*cos}
	}
	return out
}

// Translate returns r moved by v.
func (r Ring) Translate(v Point) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[i] = p.Add(v)
	}
	return out
}

// CCW returns r in counter-clockwise order.
func (r Ring) CCW() Ring {
	if r.SignedArea() < 0 {
		out := slices.Clone(r)
		slices.Reverse(out)
		return out
	}
	return r
}

// BBox is an axis-aligned bounding box.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the x extent.
func (b BBox) Width() float64 { return b.MaxX - b.MinX }

// Height returns the y extent.
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Array returns [minx, miny, maxx, maxy].
func (b BBox) Array() [4]float64 { return [4]float64{b.MinX, b.MinY, b.MaxX, b.MaxY} }

// Polygon is a simple region: one outer shell and zero or more holes.
type Polygon struct {
	Shell Ring
	Holes []Ring
}

// Area returns the shell area minus the hole areas.
func (s Polygon) Area() float64 {
	a := s.Shell.Area()
	for _, h := range s.Holes {
		a -= h.Area()
	}
	return a
}

// Centroid returns the area centroid of s, accounting for holes.
func (s Polygon) Centroid() Point {
	total := s.Shell.Area()
	c := s.Shell.Centroid().Scale(total)
	for _, h := range s.Holes {
		ha := h.Area()
		c = c.Sub(h.Centroid().Scale(ha))
		total -= ha
	}
	if total <= Epsilon {
		return s.Shell.Centroid()
	}
	return c.Scale(1 / total)
}

// Bounds returns the bounding box of the shell.
func (s Polygon) Bounds() BBox { return s.Shell.Bounds() }

// Rings returns the shell followed by the holes.
func (s Polygon) Rings() []Ring {
	return append([]Ring{s.Shell}, s.Holes...)
}

// Contains reports whether p lies inside s or on its boundary.
func (s Polygon) Contains(p Point) bool {
	switch locate(s.Shell, p) {
	case outside:
		return false
	case boundary:
		return true
	}
	for _, h := range s.Holes {
		if locate(h, p) == inside {
			return false
		}
	}
	return true
}

// MultiPolygon is an ordered list of disjoint polygons.
type MultiPolygon []Polygon

// Area returns the summed area of all polygons.
func (m MultiPolygon) Area() float64 {
	var a float64
	for _, p := range m {
		a += p.Area()
	}
	return a
}

type location int

const (
	outside location = iota
	inside
	boundary
)

// locate classifies p against r using the crossing rule, with points on an
// edge reported as boundary.
func locate(r Ring, p Point) location {
	in := false
	for i, a := range r {
		b := r[(i+1)%len(r)]
		if onSegment(a, b, p) {
			return boundary
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				in = !in
			}
		}
	}
	if in {
		return inside
	}
	return outside
}

func onSegment(a, b, p Point) bool {
	return NearestOnSegment(a, b, p).Sub(p).Len() <= Epsilon
}

// NearestOnSegment returns the point of segment ab closest to p.
func NearestOnSegment(a, b, p Point) Point {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return a
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t))
}

// NearestOnBoundary returns the point on any ring of s closest to p.
func (s Polygon) NearestOnBoundary(p Point) Point {
	best := p
	bestDist := math.Inf(1)
	for _, r := range s.Rings() {
		for i, a := range r {
			q := NearestOnSegment(a, r[(i+1)%len(r)], p)
			if d := q.Sub(p).Len(); d < bestDist {
				best, bestDist = q, d
			}
		}
	}
	return best
}
