// Package design loads and normalizes DBC module descriptions.
//
// Design tools and optimizers emit a flat document (JSON, or YAML as a
// fallback) with scalar keys such as ceramics_width next to structured
// sections for gate slots, cut paths, die placements and topology. [Normalize]
// turns that document into a nested [Design], the form shared with the CAD
// renderer and consumed by the precheck stages.
//
// # Flat Format
//
//	{
//	  "ceramics_width": 50, "ceramics_length": 40,
//	  "cu2cu_margin": 1, "cu2ceramics_margin": 1.5,
//	  "igbt_width": 10, "igbt_length": 8, "fwd_width": 6, "fwd_length": 5,
//	  "gate_design": {"type_1": {"start": [0.1, 0.2], "moves": [[0.2, 0], [0, 0.1]]}},
//	  "cutting_design": {"path_1": [["MIN", 0.5], ["MAX", 0.5]]},
//	  "igbt_positions": {"type_1": [[0.1, 0.1], [0.6, 0.1]]},
//	  "igbt_rotations": {"type_1": [0, 90]},
//	  "fwd_positions": [[0.1, 0.6]], "fwd_rotations": [0],
//	  "dbc_connections": [["zone0", "igbt0"], ["zone1", "igbt1"], ["zone0", "fwd0"]]
//	}
//
// # Ordering
//
// Chip identities and gate processing depend on declared order, so objects
// are decoded into [OrderedMap] values that keep the order of the source
// document instead of Go's randomized map iteration.
//
// # Errors
//
// Everything returned by this package is a structural error from
// [github.com/matzehuels/dbccheck/pkg/errors]: the input contract was violated
// and no report can be produced.
package design
