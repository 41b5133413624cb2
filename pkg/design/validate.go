package design

import (
	"fmt"

	"github.com/matzehuels/dbccheck/pkg/errors"
)

// Validate checks the structural contract the geometry stages rely on:
// positive substrate and die sizes, non-negative margins, one move list per
// gate start point, and matching placement/rotation cardinalities.
//
// A design that passes Validate may still contain any number of geometric
// defects; those are reported by the precheck, not here.
func Validate(d *Design) error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidDesign, "design is nil")
	}

	checks := []struct {
		field    string
		value    float64
		positive bool
	}{
		{"ceramics_width", d.Geometry.Ceramics.Width, true},
		{"ceramics_length", d.Geometry.Ceramics.Length, true},
		{"igbt_width", d.Dies.IGBT.Size.Width, true},
		{"igbt_length", d.Dies.IGBT.Size.Length, true},
		{"fwd_width", d.Dies.FWD.Size.Width, true},
		{"fwd_length", d.Dies.FWD.Size.Length, true},
		{"cu2cu_margin", d.Margins.Cu2Cu, false},
		{"cu2ceramics_margin", d.Margins.Cu2Ceramics, false},
	}
	for _, c := range checks {
		var err error
		if c.positive {
			err = errors.ValidatePositive(c.field, c.value)
		} else {
			err = errors.ValidateNonNegative(c.field, c.value)
		}
		if err != nil {
			return err
		}
	}

	for typeID, gt := range d.GateDesign.Types.All() {
		if len(gt.StartPoints) != len(gt.MovesList) {
			return errors.New(errors.ErrCodeMalformedFeature,
				"gate type %q: %d start points but %d move lists", typeID, len(gt.StartPoints), len(gt.MovesList))
		}
	}

	if err := validateIGBTPlacement(d); err != nil {
		return err
	}
	if len(d.FWDPositions) != len(d.FWDRotations) {
		return errors.New(errors.ErrCodeInconsistentPlacement,
			"fwd_positions has %d entries but fwd_rotations has %d", len(d.FWDPositions), len(d.FWDRotations))
	}
	return nil
}

func validateIGBTPlacement(d *Design) error {
	for key, pos := range d.IGBTPositions.All() {
		rots, ok := d.IGBTRotations.Get(key)
		if !ok {
			return errors.New(errors.ErrCodeInconsistentPlacement, "igbt_rotations has no entry for group %q", key)
		}
		if len(rots) != len(pos) {
			return errors.New(errors.ErrCodeInconsistentPlacement,
				"igbt group %q: %d positions but %d rotations", key, len(pos), len(rots))
		}
	}
	for key := range d.IGBTRotations.All() {
		if !d.IGBTPositions.Has(key) {
			return errors.New(errors.ErrCodeInconsistentPlacement, "igbt_rotations group %q has no positions", key)
		}
	}
	return nil
}

// Summary returns a one-line description of the design for logs.
func (d *Design) Summary() string {
	return fmt.Sprintf("%gx%g base, %d gate types, %d cuts, %d IGBT, %d FWD, %d connections",
		d.Geometry.Ceramics.Width, d.Geometry.Ceramics.Length,
		d.GateDesign.Types.Len(), len(d.CuttingDesign.Paths),
		d.IGBTCount(), d.FWDCount(), len(d.Topology.DBCConnections))
}
