// Package chip places the die footprints of a DBC design.
package chip

import (
	"fmt"

	"github.com/matzehuels/dbccheck/pkg/design"
	"github.com/matzehuels/dbccheck/pkg/errors"
	"github.com/matzehuels/dbccheck/pkg/geometry"
)

// Category is a die category.
type Category string

// Die categories, in placement order.
const (
	IGBT Category = "IGBT"
	FWD  Category = "FWD"
)

// Instance is one placed die.
type Instance struct {
	ID       string
	Category Category
	Index    int            // global index within the category
	Group    string         // IGBT type group; empty for FWD
	Origin   geometry.Point // lower-left corner before rotation
	Rotation float64        // degrees, counter-clockwise
	Ring     geometry.Ring
}

// Area returns the footprint area.
func (c Instance) Area() float64 { return c.Ring.Area() }

// Centroid returns the footprint centroid.
func (c Instance) Centroid() geometry.Point { return c.Ring.Centroid() }

// Bounds returns the footprint bounding box.
func (c Instance) Bounds() geometry.BBox { return c.Ring.Bounds() }

// ID returns the identity of the i-th die of a category.
func ID(cat Category, i int) string {
	return fmt.Sprintf("%s_%d", cat, i)
}

// Place returns the die footprints of d: IGBTs first, group by group in
// declared order with one running index, then FWDs in list order. A
// placement without a matching rotation is an INCONSISTENT_PLACEMENT error.
func Place(d *design.Design) ([]Instance, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidDesign, "design is nil")
	}
	out := make([]Instance, 0, d.IGBTCount()+d.FWDCount())

	igbt := d.Dies.IGBT.Size
	for group, positions := range d.IGBTPositions.All() {
		rots, _ := d.IGBTRotations.Get(group)
		if len(rots) != len(positions) {
			return nil, errors.New(errors.ErrCodeInconsistentPlacement,
				"igbt group %q: %d positions but %d rotations", group, len(positions), len(rots))
		}
		for i, pos := range positions {
			inst := place(d, IGBT, len(out), pos, rots[i], igbt)
			inst.Group = group
			out = append(out, inst)
		}
	}

	if len(d.FWDRotations) != len(d.FWDPositions) {
		return nil, errors.New(errors.ErrCodeInconsistentPlacement,
			"fwd_positions has %d entries but fwd_rotations has %d", len(d.FWDPositions), len(d.FWDRotations))
	}
	fwd := d.Dies.FWD.Size
	for i, pos := range d.FWDPositions {
		out = append(out, place(d, FWD, i, pos, d.FWDRotations[i], fwd))
	}
	return out, nil
}

func place(d *design.Design, cat Category, idx int, pos design.Ratio, rot float64, size design.Size) Instance {
	origin := geometry.Point{
		X: pos.X * d.Geometry.Ceramics.Width,
		Y: pos.Y * d.Geometry.Ceramics.Length,
	}
	rect := geometry.Rect(origin, size.Width, size.Length)
	return Instance{
		ID:       ID(cat, idx),
		Category: cat,
		Index:    idx,
		Origin:   origin,
		Rotation: rot,
		Ring:     rect.Rotate(rect.Centroid(), rot),
	}
}
