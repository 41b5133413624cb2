// Package topology resolves die-to-zone ownership from the connection list
// and renders the connection graph.
//
// # Binding
//
// [Bind] scans the dbc_connections of a design in order. A connection of
// weight exactly 1 from a Zone_* entity to an IGBT_* or FWD_* entity binds that
// chip to that zone unless the chip is already bound; every other connection
// is ignored.
//
//	b := topology.Bind(d.Topology)
//	zoneID, ok := b.ZoneOf("IGBT_0")
//
// # Rendering
//
// [ToDOT] writes the connection graph in Graphviz DOT format, with bound
// zone-to-chip edges drawn bold. [RenderSVG] lays it out with the embedded
// Graphviz of github.com/goccy/go-graphviz.
//
// [Matrix] builds the entity-by-entity weight matrix the CAD renderer
// consumes.
package topology
