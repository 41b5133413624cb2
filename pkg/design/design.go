package design

// Sentinel ratio values in cut paths. A coordinate carrying one of them is
// not ratio-scaled; it extends to +extreme or -extreme instead.
const (
	SentinelMax = 999.0
	SentinelMin = -999.0
)

// Entity name prefixes used by the topology section.
const (
	PrefixZone = "Zone_"
	PrefixIGBT = "IGBT_"
	PrefixFWD  = "FWD_"
)

// Design is the normalized, nested form of a DBC module description.
// It is produced once by [Normalize] and treated as immutable afterwards.
type Design struct {
	TemplateID    string                `json:"template_id,omitempty"`
	Geometry      Geometry              `json:"geometry"`
	Margins       Margins               `json:"margins"`
	Dies          Dies                  `json:"dies"`
	Process       Process               `json:"process"`
	Counts        Counts                `json:"counts"`
	DBCLayout     DBCLayout             `json:"dbc_layout"`
	GateDesign    GateDesign            `json:"gate_design"`
	CuttingDesign CuttingDesign         `json:"cutting_design"`
	IGBTPositions OrderedMap[[]Ratio]   `json:"igbt_positions"`
	IGBTRotations OrderedMap[[]float64] `json:"igbt_rotations"`
	FWDPositions  []Ratio               `json:"fwd_positions"`
	FWDRotations  []float64             `json:"fwd_rotations"`
	DBCRotations  []float64             `json:"dbc_rotations,omitempty"`
	Topology      Topology              `json:"topology"`
}

// Geometry holds the ceramic substrate and copper layer dimensions.
type Geometry struct {
	Ceramics     Ceramics `json:"ceramics"`
	Copper       Copper   `json:"copper"`
	FilletRadius float64  `json:"fillet_radius"`
}

// Ceramics is the ceramic base. Width runs along x, Length along y.
type Ceramics struct {
	Width     float64 `json:"width"`
	Length    float64 `json:"length"`
	Thickness float64 `json:"thickness"`
}

// Copper holds the copper layer thicknesses (renderer only).
type Copper struct {
	UpperThickness float64 `json:"upper_thickness"`
	LowerThickness float64 `json:"lower_thickness"`
}

// Margins are clearances in absolute units.
type Margins struct {
	Cu2Cu         float64 `json:"cu2cu"`       // copper to copper
	Cu2Ceramics   float64 `json:"cu2ceramics"` // copper to ceramic edge
	DBC2DBC       float64 `json:"dbc2dbc"`
	SubstrateEdge float64 `json:"substrate_edge"`
}

// Dies is the die-size catalog per category.
type Dies struct {
	IGBT Die `json:"igbt"`
	FWD  Die `json:"fwd"`
}

// Die describes one die category.
type Die struct {
	Size Size `json:"size"`
}

// Size is an absolute width/length pair.
type Size struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
}

// Process holds solder and die thicknesses (renderer only).
type Process struct {
	Solder       Solder  `json:"solder"`
	DieThickness float64 `json:"die_thickness"`
}

// Solder thicknesses.
type Solder struct {
	Substrate float64 `json:"substrate"`
	Die       float64 `json:"die"`
}

// Counts holds bond wire counts (renderer only).
type Counts struct {
	Bondwires Bondwires `json:"bondwires"`
}

// Bondwires per die category.
type Bondwires struct {
	IGBT int `json:"igbt"`
	FWD  int `json:"fwd"`
}

// DBCLayout describes how many substrates the module carries.
type DBCLayout struct {
	Count int `json:"count"`
}

// Ratio is a point or move expressed as fractions of the ceramic width (X)
// and length (Y).
type Ratio struct {
	X float64 `json:"x_ratio"`
	Y float64 `json:"y_ratio"`
}

// GateDesign maps a gate type id to its routing slots, in declared order.
type GateDesign struct {
	Types OrderedMap[GateType] `json:"types"`
}

// GateType holds one or more gate slots. StartPoints[i] pairs with
// MovesList[i].
type GateType struct {
	StartPoints []Ratio   `json:"start_points"`
	MovesList   [][]Ratio `json:"moves_list"`
}

// CuttingDesign lists the cut paths in declared order.
type CuttingDesign struct {
	Paths []CutPath `json:"paths"`
}

// CutPath is a named polyline. Coordinates equal to SentinelMax or
// SentinelMin extend past the base region.
type CutPath struct {
	Name   string  `json:"name"`
	Points []Ratio `json:"points"`
}

// Topology lists the directed weighted connections between named entities.
type Topology struct {
	DBCConnections    []Connection `json:"dbc_connections"`
	DBCEntities       []string     `json:"dbc_entities"`
	ModuleConnections []Connection `json:"module_connections,omitempty"`
	ModuleEntities    []string     `json:"module_entities,omitempty"`
}

// Connection is one directed edge of the topology.
type Connection struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// IGBTCount returns the number of IGBT instances across all type groups.
func (d *Design) IGBTCount() int {
	n := 0
	for _, pos := range d.IGBTPositions.All() {
		n += len(pos)
	}
	return n
}

// FWDCount returns the number of FWD instances.
func (d *Design) FWDCount() int {
	return len(d.FWDPositions)
}

// IsSentinel reports whether a cut coordinate is one of the extend markers.
func IsSentinel(v float64) bool {
	return v == SentinelMax || v == SentinelMin
}
