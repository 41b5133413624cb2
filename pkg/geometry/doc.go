// Package geometry provides the planar primitives the precheck is built on.
//
// Coordinates are absolute substrate units with x to the right and y up.
// A [Ring] is a closed sequence of points with the closing edge implied; a
// [Polygon] is one simple region with optional holes.
//
// # Boolean Operations
//
// Union and difference of arbitrary polygons are delegated to
// github.com/ctessum/geom (backed by polyclip-go) through [Region]. The
// contours it returns are flat, so [Region.Polygons] rebuilds shell/hole
// structure from ring nesting.
//
// # Local Operations
//
// Mitred offsets ([BufferRing], [BufferLine]) and clipping against a convex
// ring ([ClipConvex]) are computed directly. Every die footprint is a
// rectangle, so intersection with a zone only ever needs a convex clipper.
package geometry
