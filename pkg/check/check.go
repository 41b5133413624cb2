// Package check detects containment and overlap defects between placed dies
// and copper zones.
//
// Defects are data, never errors: [Detect] always returns the complete list
// so the caller can fix everything in one iteration. Containment violations
// come first in chip order, followed by overlaps in (i, j) pair order.
package check

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dbccheck/pkg/chip"
	"github.com/matzehuels/dbccheck/pkg/geometry"
	"github.com/matzehuels/dbccheck/pkg/report"
	"github.com/matzehuels/dbccheck/pkg/topology"
	"github.com/matzehuels/dbccheck/pkg/zone"
)

// Default thresholds.
const (
	DefaultTolerance         = 1e-6
	DefaultOverlapEpsilon    = 1e-6
	DefaultShiftMargin       = 1e-3
	DefaultParallelThreshold = 64
)

// Options tunes the detector. Zero values select the defaults.
type Options struct {
	// Tolerance is the buffer around a zone that absorbs floating point
	// noise in the containment test.
	Tolerance float64
	// OverlapEpsilon is the smallest intersection area reported as overlap.
	OverlapEpsilon float64
	// ShiftMargin is added to the separation suggested for overlaps.
	ShiftMargin float64
	// ParallelThreshold is the chip count above which the overlap pass fans
	// out over Workers goroutines.
	ParallelThreshold int
	// Workers bounds the overlap fan-out. Defaults to GOMAXPROCS.
	Workers int
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.OverlapEpsilon <= 0 {
		o.OverlapEpsilon = DefaultOverlapEpsilon
	}
	if o.ShiftMargin <= 0 {
		o.ShiftMargin = DefaultShiftMargin
	}
	if o.ParallelThreshold <= 0 {
		o.ParallelThreshold = DefaultParallelThreshold
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Key identifies the thresholds that change detection results, with defaults
// applied. Workers and ParallelThreshold do not affect output and are left
// out.
func (o Options) Key() string {
	o = o.withDefaults()
	return fmt.Sprintf("tol=%g,eps=%g,shift=%g", o.Tolerance, o.OverlapEpsilon, o.ShiftMargin)
}

// Detect runs the containment pass and the overlap pass.
func Detect(zones []zone.Zone, chips []chip.Instance, b topology.Binding, opts Options) []report.Violation {
	opts = opts.withDefaults()
	out := Containment(zones, chips, b, opts)
	return append(out, Overlaps(chips, opts)...)
}

// Containment checks every chip against its bound zone, in chip order.
func Containment(zones []zone.Zone, chips []chip.Instance, b topology.Binding, opts Options) []report.Violation {
	opts = opts.withDefaults()
	byID := zone.Index(zones)

	var out []report.Violation
	for _, c := range chips {
		zoneID, ok := b.ZoneOf(c.ID)
		if !ok {
			out = append(out, report.Violation{
				Type:   report.MissingZoneBinding,
				Chip:   c.ID,
				Detail: "no Zone->chip binding found in dbc_connections",
			})
			continue
		}
		z, ok := byID[zoneID]
		if !ok {
			out = append(out, report.Violation{
				Type:   report.MissingZoneGeometry,
				Chip:   c.ID,
				Zone:   zoneID,
				Detail: fmt.Sprintf("%s was not produced by zone carving; containment cannot be checked", zoneID),
			})
			continue
		}
		if v, bad := outOfZone(c, z, opts); bad {
			out = append(out, v)
		}
	}
	return out
}

func outOfZone(c chip.Instance, z zone.Zone, opts Options) (report.Violation, bool) {
	chipArea := c.Area()
	inside := geometry.IntersectionArea(z.Polygon, c.Ring)
	outside := math.Max(chipArea-inside, 0)
	if outside <= opts.Tolerance*c.Ring.Perimeter() {
		return report.Violation{}, false
	}

	ratio := outside / math.Max(chipArea, 1e-9)
	move := SuggestInward(c.Ring, z.Polygon)
	if inside <= geometry.Epsilon {
		move = NearestGap(c.Ring, z.Polygon)
	}
	chipBox, zoneBox := report.BBox(c.Bounds().Array()), report.BBox(z.Bounds().Array())
	return report.Violation{
		Type: report.ChipOutOfZone,
		Chip: c.ID,
		Zone: z.ID,
		Detail: fmt.Sprintf("chip extends past the zone boundary by about %.3f%% of its area; "+
			"chip bbox %v, zone bbox %v; try moving by (%.3f, %.3f) towards the zone",
			ratio*100, fmtBBox(chipBox), fmtBBox(zoneBox), move[0], move[1]),
		Metrics: &report.OutOfZoneMetrics{
			OutsideArea:  outside,
			OutsideRatio: ratio,
			ChipBBox:     chipBox,
			ZoneBBox:     zoneBox,
		},
		SuggestMove: &move,
	}, true
}

// SuggestInward returns the translation that moves the chip vertex lying
// farthest outside p onto its nearest point of p's boundary. It is a local
// heuristic: for a non-convex zone the moved chip may still not fit. When no
// vertex is outside (the zone boundary cuts through the chip between
// vertices) the zero vector is returned.
func SuggestInward(chipRing geometry.Ring, p geometry.Polygon) report.Vector {
	var best report.Vector
	bestDist := 0.0
	for _, v := range chipRing {
		if p.Contains(v) {
			continue
		}
		q := p.NearestOnBoundary(v)
		if d := q.Sub(v).Len(); d > bestDist {
			bestDist = d
			best = report.Vector{q.X - v.X, q.Y - v.Y}
		}
	}
	return best
}

// NearestGap returns the shortest translation that brings a chip lying
// entirely outside p into contact with p's boundary. Both directions are
// searched: chip vertices against zone edges and zone vertices against chip
// edges.
func NearestGap(chipRing geometry.Ring, p geometry.Polygon) report.Vector {
	var best geometry.Point
	bestDist := math.Inf(1)
	consider := func(v geometry.Point) {
		if d := v.Len(); d < bestDist {
			best, bestDist = v, d
		}
	}

	for _, v := range chipRing {
		consider(p.NearestOnBoundary(v).Sub(v))
	}
	for _, r := range p.Rings() {
		for _, q := range r {
			for i, a := range chipRing {
				w := geometry.NearestOnSegment(a, chipRing[(i+1)%len(chipRing)], q)
				consider(q.Sub(w))
			}
		}
	}
	if math.IsInf(bestDist, 1) {
		return report.Vector{}
	}
	return report.Vector{best.X, best.Y}
}

// Overlaps checks every unordered chip pair. For more than
// ParallelThreshold chips the rows are checked concurrently; the output
// order does not depend on scheduling.
func Overlaps(chips []chip.Instance, opts Options) []report.Violation {
	opts = opts.withDefaults()
	rows := make([][]report.Violation, len(chips))
	row := func(i int) {
		for j := i + 1; j < len(chips); j++ {
			if v, ok := overlap(chips[i], chips[j], opts); ok {
				rows[i] = append(rows[i], v)
			}
		}
	}

	if len(chips) > opts.ParallelThreshold {
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for i := range chips {
			g.Go(func() error {
				row(i)
				return nil
			})
		}
		g.Wait()
	} else {
		for i := range chips {
			row(i)
		}
	}

	var out []report.Violation
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

func overlap(ci, cj chip.Instance, opts Options) (report.Violation, bool) {
	bi, bj := ci.Bounds(), cj.Bounds()
	if bi.MaxX < bj.MinX || bj.MaxX < bi.MinX || bi.MaxY < bj.MinY || bj.MaxY < bi.MinY {
		return report.Violation{}, false
	}
	inter := geometry.ClipConvex(ci.Ring, cj.Ring)
	area := inter.Area()
	if area <= opts.OverlapEpsilon {
		return report.Violation{}, false
	}

	ratio := area / math.Max(math.Min(ci.Area(), cj.Area()), 1e-9)
	ob := inter.Bounds()
	move := Separation(ci.Centroid(), cj.Centroid(), math.Max(ob.Width(), ob.Height())+opts.ShiftMargin)
	overlapBox := report.BBox(ob.Array())
	return report.Violation{
		Type:  report.ChipOverlap,
		Chips: []string{ci.ID, cj.ID},
		Detail: fmt.Sprintf("chips overlap by %.4f, about %.3f%% of the smaller chip; "+
			"overlap bbox %v; move the smaller chip by (%.3f, %.3f) to separate them",
			area, ratio*100, fmtBBox(overlapBox), move[0], move[1]),
		Metrics: &report.OverlapMetrics{
			OverlapArea:     area,
			OverlapRatioMin: ratio,
			ChipIBBox:       report.BBox(bi.Array()),
			ChipJBBox:       report.BBox(bj.Array()),
			OverlapBBox:     overlapBox,
		},
		SuggestMove: &move,
	}, true
}

// Separation returns the vector of length shift pointing from cj to ci, or
// (shift, 0) when the centroids coincide.
func Separation(ci, cj geometry.Point, shift float64) report.Vector {
	d := ci.Sub(cj)
	norm := d.Len()
	if norm < 1e-9 {
		return report.Vector{shift, 0}
	}
	return report.Vector{d.X / norm * shift, d.Y / norm * shift}
}

func fmtBBox(b report.BBox) string {
	return fmt.Sprintf("[%.3f, %.3f, %.3f, %.3f]", b[0], b[1], b[2], b[3])
}
