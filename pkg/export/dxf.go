// Package export writes precheck geometry for review outside dbccheck.
//
// [WriteDXF] draws zones and die footprints into a DXF drawing that CAD
// tools open directly; [Zones] lists zone metrics for machine consumers.
package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/matzehuels/dbccheck/pkg/chip"
	"github.com/matzehuels/dbccheck/pkg/geometry"
	"github.com/matzehuels/dbccheck/pkg/zone"
)

// DXF layer names.
const (
	LayerCeramic = "CERAMIC"
	LayerZones   = "ZONES"
	LayerIGBT    = "IGBT"
	LayerFWD     = "FWD"
	LayerLabels  = "LABELS"
)

// DXFOptions configures WriteDXF.
type DXFOptions struct {
	// Outline is drawn on the CERAMIC layer when set.
	Outline geometry.Ring
	// Labels writes zone and chip ids at their centroids.
	Labels bool
	// TextHeight is the label height (default 1).
	TextHeight float64
}

var layers = []struct {
	name  string
	color color.ColorNumber
}{
	{LayerCeramic, color.White},
	{LayerZones, color.Green},
	{LayerIGBT, color.Red},
	{LayerFWD, color.Cyan},
	{LayerLabels, color.Yellow},
}

// WriteDXF writes zones (shells and holes) and chip footprints to path.
func WriteDXF(path string, zones []zone.Zone, chips []chip.Instance, opts DXFOptions) error {
	if opts.TextHeight <= 0 {
		opts.TextHeight = 1
	}
	d := dxf.NewDrawing()
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", l.name, err)
		}
	}

	if len(opts.Outline) >= 3 {
		if err := polyline(d, LayerCeramic, opts.Outline); err != nil {
			return err
		}
	}
	for _, z := range zones {
		for _, r := range z.Polygon.Rings() {
			if err := polyline(d, LayerZones, r); err != nil {
				return fmt.Errorf("zone %s: %w", z.ID, err)
			}
		}
		if opts.Labels {
			if err := label(d, z.ID, z.Centroid(), opts.TextHeight); err != nil {
				return err
			}
		}
	}
	for _, c := range chips {
		layer := LayerIGBT
		if c.Category == chip.FWD {
			layer = LayerFWD
		}
		if err := polyline(d, layer, c.Ring); err != nil {
			return fmt.Errorf("chip %s: %w", c.ID, err)
		}
		if opts.Labels {
			if err := label(d, c.ID, c.Centroid(), opts.TextHeight/2); err != nil {
				return err
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("save dxf: %w", err)
	}
	return nil
}

func polyline(d *drawing.Drawing, layer string, r geometry.Ring) error {
	if err := d.ChangeLayer(layer); err != nil {
		return err
	}
	r = r.Clean()
	verts := make([][]float64, len(r))
	for i, p := range r {
		verts[i] = []float64{p.X, p.Y}
	}
	_, err := d.LwPolyline(true, verts...)
	return err
}

func label(d *drawing.Drawing, text string, at geometry.Point, height float64) error {
	if err := d.ChangeLayer(LayerLabels); err != nil {
		return err
	}
	_, err := d.Text(text, at.X, at.Y, 0, height)
	return err
}
