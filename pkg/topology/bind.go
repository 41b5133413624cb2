package topology

import (
	"sort"
	"strings"

	"github.com/matzehuels/dbccheck/pkg/design"
)

// Binding maps chip ids to the zone id that owns them. Chips absent from the
// map are unbound.
type Binding map[string]string

// ZoneOf returns the zone bound to chipID.
func (b Binding) ZoneOf(chipID string) (string, bool) {
	z, ok := b[chipID]
	return z, ok
}

// ByZone inverts the binding: zone id to its chips, sorted by id.
func (b Binding) ByZone() map[string][]string {
	out := make(map[string][]string)
	for c, z := range b {
		out[z] = append(out[z], c)
	}
	for _, chips := range out {
		sort.Strings(chips)
	}
	return out
}

// Bind resolves chip ownership from the dbc-level connections. The first
// qualifying connection for a chip wins.
func Bind(t design.Topology) Binding {
	b := make(Binding)
	for _, c := range t.DBCConnections {
		if c.Value != 1 || !IsZone(c.Source) || !IsChip(c.Target) {
			continue
		}
		if _, ok := b[c.Target]; !ok {
			b[c.Target] = c.Source
		}
	}
	return b
}

// IsZone reports whether id names a zone.
func IsZone(id string) bool {
	return strings.HasPrefix(id, design.PrefixZone)
}

// IsChip reports whether id names an IGBT or FWD instance.
func IsChip(id string) bool {
	return strings.HasPrefix(id, design.PrefixIGBT) || strings.HasPrefix(id, design.PrefixFWD)
}
