// Package zone carves the copper zones of a DBC substrate.
//
// The base rectangle is the ceramic inset by the copper-to-ceramic margin.
// Gate slots and cut paths are dilated by half the copper-to-copper margin and
// subtracted from it; what remains decomposes into the zones, labelled
// Zone_0..Zone_{k-1} by ascending centroid x.
package zone

import (
	"fmt"

	"github.com/matzehuels/dbccheck/pkg/design"
	"github.com/matzehuels/dbccheck/pkg/errors"
	"github.com/matzehuels/dbccheck/pkg/geometry"
)

// DefaultExtreme is the coordinate cut sentinels extend to.
const DefaultExtreme = 1000.0

// Zone is one labelled copper region.
type Zone struct {
	ID      string
	Polygon geometry.Polygon
}

// Area returns the copper area of the zone.
func (z Zone) Area() float64 { return z.Polygon.Area() }

// Centroid returns the area centroid of the zone.
func (z Zone) Centroid() geometry.Point { return z.Polygon.Centroid() }

// Bounds returns the bounding box of the zone.
func (z Zone) Bounds() geometry.BBox { return z.Polygon.Bounds() }

// Build derives the zones of d. extreme is the finite stand-in for the cut
// sentinels and must be positive.
func Build(d *design.Design, extreme float64) ([]Zone, error) {
	if err := errors.ValidateExtreme(extreme); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidDesign, "design is nil")
	}

	region := geometry.RegionOf(Base(d))
	region = region.Difference(geometry.Union(GateFootprints(d)...))
	for _, cut := range CutFootprints(d, extreme) {
		region = region.Difference(geometry.RegionOf(cut))
	}

	polys := region.Polygons()
	geometry.SortByCentroid(polys)

	zones := make([]Zone, len(polys))
	for i, p := range polys {
		zones[i] = Zone{ID: ID(i), Polygon: p}
	}
	return zones, nil
}

// ID returns the label of the i-th zone.
func ID(i int) string {
	return fmt.Sprintf("%s%d", design.PrefixZone, i)
}

// Index maps zone ids to zones.
func Index(zones []Zone) map[string]Zone {
	m := make(map[string]Zone, len(zones))
	for _, z := range zones {
		m[z.ID] = z
	}
	return m
}

// Base returns the ceramic rectangle inset by the copper-to-ceramic margin,
// or nil when the margins consume it.
func Base(d *design.Design) geometry.Ring {
	m := d.Margins.Cu2Ceramics
	w := d.Geometry.Ceramics.Width - 2*m
	l := d.Geometry.Ceramics.Length - 2*m
	if w <= 0 || l <= 0 {
		return nil
	}
	return geometry.Rect(geometry.Point{X: m, Y: m}, w, l)
}
