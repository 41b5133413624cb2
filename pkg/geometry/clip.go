package geometry

// ClipConvex returns the part of subject inside the convex ring clip
// (Sutherland-Hodgman). The subject may be concave; its signed area is
// preserved, so the area of the result equals the area of the intersection
// even when the output contains zero-width bridges.
func ClipConvex(subject, clip Ring) Ring {
	clip = clip.Clean().CCW()
	out := subject.Clean()
	for i, a := range clip {
		if len(out) == 0 {
			break
		}
		b := clip[(i+1)%len(clip)]
		in := out
		out = make(Ring, 0, len(in)+2)
		for j, cur := range in {
			prev := in[(j-1+len(in))%len(in)]
			curIn := cross(a, b, cur) >= 0
			prevIn := cross(a, b, prev) >= 0
			if curIn {
				if !prevIn {
					out = append(out, lineIntersection(prev, cur, a, b))
				}
				out = append(out, cur)
			} else if prevIn {
				out = append(out, lineIntersection(prev, cur, a, b))
			}
		}
	}
	return out
}

// lineIntersection returns where segment pq crosses the infinite line ab.
func lineIntersection(p, q, a, b Point) Point {
	cp := cross(a, b, p)
	cq := cross(a, b, q)
	t := cp / (cp - cq)
	return p.Add(q.Sub(p).Scale(t))
}

// IntersectionArea returns the area of s intersected with the convex ring c.
func IntersectionArea(s Polygon, c Ring) float64 {
	a := ClipConvex(s.Shell, c).Area()
	for _, h := range s.Holes {
		a -= ClipConvex(h, c).Area()
	}
	if a < 0 {
		return 0
	}
	return a
}
