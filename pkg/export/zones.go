package export

import (
	"github.com/matzehuels/dbccheck/pkg/report"
	"github.com/matzehuels/dbccheck/pkg/zone"
)

// ZoneSummary describes one zone for listings.
type ZoneSummary struct {
	ID       string        `json:"id"`
	Area     float64       `json:"area"`
	Centroid report.Vector `json:"centroid"`
	BBox     report.BBox   `json:"bbox"`
	Holes    int           `json:"holes"`
	Chips    []string      `json:"chips,omitempty"`
}

// Zones summarizes zones in label order. bound maps zone ids to the chips
// bound to them; it may be nil.
func Zones(zones []zone.Zone, bound map[string][]string) []ZoneSummary {
	out := make([]ZoneSummary, len(zones))
	for i, z := range zones {
		c := z.Centroid()
		out[i] = ZoneSummary{
			ID:       z.ID,
			Area:     z.Area(),
			Centroid: report.Vector{c.X, c.Y},
			BBox:     report.BBox(z.Bounds().Array()),
			Holes:    len(z.Polygon.Holes),
			Chips:    bound[z.ID],
		}
	}
	return out
}
