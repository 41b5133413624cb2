package topology

import (
	"slices"

	"github.com/matzehuels/dbccheck/pkg/design"
)

// Matrix is a square connection weight matrix. Weights[i][j] is the weight
// of the connection from Entities[i] to Entities[j], zero when absent.
type Matrix struct {
	Entities []string    `json:"entities"`
	Weights  [][]float64 `json:"weights"`
}

// NewMatrix builds the weight matrix of conns over entities. When entities
// is empty the sorted set of connection endpoints is used. Connections to
// unknown entities are ignored; a repeated pair keeps the last weight.
func NewMatrix(conns []design.Connection, entities []string) Matrix {
	if len(entities) == 0 {
		seen := make(map[string]bool)
		for _, c := range conns {
			seen[c.Source] = true
			seen[c.Target] = true
		}
		for e := range seen {
			entities = append(entities, e)
		}
		slices.Sort(entities)
	}

	index := make(map[string]int, len(entities))
	for i, e := range entities {
		index[e] = i
	}
	w := make([][]float64, len(entities))
	for i := range w {
		w[i] = make([]float64, len(entities))
	}
	for _, c := range conns {
		i, ok1 := index[c.Source]
		j, ok2 := index[c.Target]
		if ok1 && ok2 {
			w[i][j] = c.Value
		}
	}
	return Matrix{Entities: slices.Clone(entities), Weights: w}
}

// Weight returns the weight from src to dst.
func (m Matrix) Weight(src, dst string) float64 {
	i := slices.Index(m.Entities, src)
	j := slices.Index(m.Entities, dst)
	if i < 0 || j < 0 {
		return 0
	}
	return m.Weights[i][j]
}
