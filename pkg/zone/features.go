package zone

import (
	"github.com/matzehuels/dbccheck/pkg/design"
	"github.com/matzehuels/dbccheck/pkg/geometry"
)

// GatePaths returns the closed gate outlines in absolute coordinates, in
// declared gate-type and slot order. Outlines with fewer than four points
// (start, two moves, closing point) are skipped.
func GatePaths(d *design.Design) []geometry.Ring {
	w, l := d.Geometry.Ceramics.Width, d.Geometry.Ceramics.Length
	m := d.Margins.Cu2Ceramics

	var out []geometry.Ring
	for _, gt := range d.GateDesign.Types.All() {
		for i, start := range gt.StartPoints {
			if i >= len(gt.MovesList) {
				break
			}
			cur := geometry.Point{X: start.X*w + m, Y: start.Y*l + m}
			path := geometry.Ring{cur}
			for _, mv := range gt.MovesList[i] {
				cur = cur.Add(geometry.Point{X: mv.X * w, Y: mv.Y * l})
				path = append(path, cur)
			}
			path = append(path, path[0])
			if len(path) < 4 {
				continue
			}
			out = append(out, path)
		}
	}
	return out
}

// GateFootprints returns the gate outlines dilated by half the
// copper-to-copper margin.
func GateFootprints(d *design.Design) []geometry.Ring {
	half := d.Margins.Cu2Cu / 2
	var out []geometry.Ring
	for _, path := range GatePaths(d) {
		if fp := geometry.BufferRing(path, half); len(fp) >= 3 {
			out = append(out, fp)
		}
	}
	return out
}

// CutPaths returns the cut polylines in absolute coordinates. Sentinel
// coordinates become +extreme or -extreme. Paths with fewer than two points
// are skipped.
func CutPaths(d *design.Design, extreme float64) [][]geometry.Point {
	w, l := d.Geometry.Ceramics.Width, d.Geometry.Ceramics.Length
	m := d.Margins.Cu2Ceramics

	coord := func(v, span float64) float64 {
		switch v {
		case design.SentinelMax:
			return extreme
		case design.SentinelMin:
			return -extreme
		}
		return v*span + m
	}

	var out [][]geometry.Point
	for _, cut := range d.CuttingDesign.Paths {
		if len(cut.Points) < 2 {
			continue
		}
		pts := make([]geometry.Point, len(cut.Points))
		for i, p := range cut.Points {
			pts[i] = geometry.Point{X: coord(p.X, w), Y: coord(p.Y, l)}
		}
		out = append(out, pts)
	}
	return out
}

// CutFootprints returns the cut polylines dilated by half the
// copper-to-copper margin with flat end caps.
func CutFootprints(d *design.Design, extreme float64) []geometry.Ring {
	half := d.Margins.Cu2Cu / 2
	var out []geometry.Ring
	for _, pts := range CutPaths(d, extreme) {
		if fp := geometry.BufferLine(pts, half); fp != nil {
			out = append(out, fp)
		}
	}
	return out
}
