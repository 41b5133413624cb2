package geometry

import "math"

// MitreLimit bounds the mitre length at sharp corners as a multiple of the
// offset distance. Corners beyond it are bevelled.
const MitreLimit = 5.0

// BufferRing dilates the polygon r by d with mitred joins. A ring without
// area (a gate that doubles back on itself) is buffered as the segment
// spanning its points instead.
func BufferRing(r Ring, d float64) Ring {
	r = r.Clean()
	if len(r) < 3 || r.Area() <= Epsilon {
		if len(r) < 2 {
			return nil
		}
		return BufferLine(span(r), d)
	}
	if d <= 0 {
		return r.CCW()
	}

	r = r.CCW()
	n := len(r)
	out := make(Ring, 0, n+4)
	for i, p := range r {
		prev := r[(i-1+n)%n]
		next := r[(i+1)%n]
		out = appendJoin(out, p, rightNormal(prev, p), rightNormal(p, next), d)
	}
	return out
}

// BufferLine dilates the polyline pts by d on both sides with flat end caps
// and mitred joins. It returns nil when pts has no length.
func BufferLine(pts []Point, d float64) Ring {
	line := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(line) > 0 && line[len(line)-1].Near(p) {
			continue
		}
		line = append(line, p)
	}
	if len(line) < 2 || d <= 0 {
		return nil
	}

	side := func(pts []Point) []Point {
		out := make([]Point, 0, len(pts)+2)
		out = append(out, pts[0].Add(rightNormal(pts[0], pts[1]).Scale(d)))
		for i := 1; i < len(pts)-1; i++ {
			out = appendJoin(out, pts[i], rightNormal(pts[i-1], pts[i]), rightNormal(pts[i], pts[i+1]), d)
		}
		last := len(pts) - 1
		return append(out, pts[last].Add(rightNormal(pts[last-1], pts[last]).Scale(d)))
	}

	reversed := make([]Point, len(line))
	for i, p := range line {
		reversed[len(line)-1-i] = p
	}
	ring := append(Ring(side(line)), side(reversed)...)
	return ring.CCW()
}

// span returns the segment covering nearly collinear points.
func span(pts []Point) []Point {
	far := pts[0]
	for _, p := range pts[1:] {
		if p.Sub(pts[0]).Len() > far.Sub(pts[0]).Len() {
			far = p
		}
	}
	dir := far.Sub(pts[0])
	dir = dir.Scale(1 / dir.Len())
	lo, hi := 0.0, 0.0
	for _, p := range pts {
		t := p.Sub(pts[0]).X*dir.X + p.Sub(pts[0]).Y*dir.Y
		lo, hi = math.Min(lo, t), math.Max(hi, t)
	}
	return []Point{pts[0].Add(dir.Scale(lo)), pts[0].Add(dir.Scale(hi))}
}

// rightNormal returns the unit normal on the right of the direction a->b,
// which is the outward side of a counter-clockwise ring.
func rightNormal(a, b Point) Point {
	e := b.Sub(a)
	l := e.Len()
	if l == 0 {
		return Point{}
	}
	return Point{e.Y / l, -e.X / l}
}

// appendJoin appends the offset of vertex p joining edges with unit normals
// n1 and n2. The mitre point is where both offset edges meet; a mitre longer
// than MitreLimit*d is replaced by the two edge end points.
func appendJoin(out []Point, p, n1, n2 Point, d float64) []Point {
	dot := n1.X*n2.X + n1.Y*n2.Y
	if 1+dot > Epsilon && math.Sqrt(2/(1+dot)) <= MitreLimit {
		return append(out, p.Add(n1.Add(n2).Scale(d/(1+dot))))
	}
	return append(out, p.Add(n1.Scale(d)), p.Add(n2.Scale(d)))
}
