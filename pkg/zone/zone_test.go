package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dbccheck/pkg/design"
	"github.com/matzehuels/dbccheck/pkg/errors"
)

func square(size, cu2cu, cu2ceramics float64) *design.Design {
	d := &design.Design{}
	d.Geometry.Ceramics.Width = size
	d.Geometry.Ceramics.Length = size
	d.Margins.Cu2Cu = cu2cu
	d.Margins.Cu2Ceramics = cu2ceramics
	return d
}

func TestBuildPlainBase(t *testing.T) {
	zones, err := Build(square(10, 0, 0), DefaultExtreme)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Zone_0", zones[0].ID)
	assert.InDelta(t, 100.0, zones[0].Area(), 1e-9)
}

func TestBuildCeramicMargin(t *testing.T) {
	zones, err := Build(square(10, 0, 1), DefaultExtreme)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, [4]float64{1, 1, 9, 9}, zones[0].Bounds().Array())
}

func TestBuildHorizontalCut(t *testing.T) {
	d := square(10, 0.2, 0)
	d.CuttingDesign.Paths = []design.CutPath{{
		Name:   "cut_1",
		Points: []design.Ratio{{X: design.SentinelMin, Y: 0.5}, {X: design.SentinelMax, Y: 0.5}},
	}}

	zones, err := Build(d, DefaultExtreme)
	require.NoError(t, err)
	require.Len(t, zones, 2)

	assert.Equal(t, "Zone_0", zones[0].ID)
	assert.Equal(t, "Zone_1", zones[1].ID)
	c0, c1 := zones[0].Centroid(), zones[1].Centroid()
	assert.LessOrEqual(t, c0.X, c1.X+1e-9)
	assert.Less(t, c0.Y, c1.Y, "equal centroid x is broken by centroid y")

	for _, z := range zones {
		b := z.Bounds()
		assert.InDelta(t, 10.0, b.Width(), 1e-6)
		assert.InDelta(t, 4.9, b.Height(), 1e-6)
		assert.InDelta(t, 49.0, z.Area(), 1e-6)
	}
}

func TestBuildVerticalGateSplitsByX(t *testing.T) {
	d := square(10, 0.2, 0)
	gates := design.NewOrderedMap[design.GateType]()
	gates.Set("1", design.GateType{
		StartPoints: []design.Ratio{{X: 0.6, Y: -0.1}},
		MovesList:   [][]design.Ratio{{{X: 0.02, Y: 0}, {X: 0, Y: 1.2}, {X: -0.02, Y: 0}}},
	})
	d.GateDesign.Types = *gates

	zones, err := Build(d, DefaultExtreme)
	require.NoError(t, err)
	require.Len(t, zones, 2)

	// slot spans x in [6, 6.2], dilated by 0.1 on each side
	assert.InDelta(t, 5.9, zones[0].Bounds().MaxX, 1e-6)
	assert.InDelta(t, 6.3, zones[1].Bounds().MinX, 1e-6)
	assert.Less(t, zones[0].Centroid().X, zones[1].Centroid().X)
}

func TestBuildGateHole(t *testing.T) {
	d := square(10, 0.2, 0)
	gates := design.NewOrderedMap[design.GateType]()
	gates.Set("1", design.GateType{
		StartPoints: []design.Ratio{{X: 0.4, Y: 0.4}},
		MovesList:   [][]design.Ratio{{{X: 0.2, Y: 0}, {X: 0, Y: 0.2}, {X: -0.2, Y: 0}}},
	})
	d.GateDesign.Types = *gates

	zones, err := Build(d, DefaultExtreme)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	require.Len(t, zones[0].Polygon.Holes, 1)
	assert.InDelta(t, 100-2.2*2.2, zones[0].Area(), 1e-6)
}

func TestGatePathsSkipsShortOutlines(t *testing.T) {
	d := square(10, 0.2, 0)
	gates := design.NewOrderedMap[design.GateType]()
	gates.Set("short", design.GateType{
		StartPoints: []design.Ratio{{X: 0.1, Y: 0.1}},
		MovesList:   [][]design.Ratio{{{X: 0.1, Y: 0}}},
	})
	gates.Set("ok", design.GateType{
		StartPoints: []design.Ratio{{X: 0.5, Y: 0.5}},
		MovesList:   [][]design.Ratio{{{X: 0.1, Y: 0}, {X: 0, Y: 0.1}}},
	})
	d.GateDesign.Types = *gates

	paths := GatePaths(d)
	require.Len(t, paths, 1)
	assert.Len(t, paths[0], 4)
	assert.Equal(t, paths[0][0], paths[0][3], "outline is closed")
}

func TestCutPathsSentinels(t *testing.T) {
	d := square(10, 0.2, 1)
	d.CuttingDesign.Paths = []design.CutPath{
		{Name: "cut_1", Points: []design.Ratio{{X: 0.5, Y: design.SentinelMax}, {X: 0.5, Y: design.SentinelMin}}},
		{Name: "cut_2", Points: []design.Ratio{{X: 0.5, Y: 0.5}}},
	}

	paths := CutPaths(d, 500)
	require.Len(t, paths, 1, "single-point cuts are skipped")
	assert.InDelta(t, 6.0, paths[0][0].X, 1e-12, "ratio coordinates carry the ceramic margin")
	assert.Equal(t, 500.0, paths[0][0].Y)
	assert.Equal(t, -500.0, paths[0][1].Y)
}

func TestBuildEmptyRegion(t *testing.T) {
	zones, err := Build(square(10, 0, 5), DefaultExtreme)
	require.NoError(t, err)
	assert.Empty(t, zones)
}

func TestBuildInvalidExtreme(t *testing.T) {
	for _, extreme := range []float64{0, -1} {
		_, err := Build(square(10, 0, 0), extreme)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidExtreme), "extreme %v: %v", extreme, err)
	}
}

func TestBuildDeterministicLabels(t *testing.T) {
	d := square(20, 0.4, 0.5)
	d.CuttingDesign.Paths = []design.CutPath{
		{Name: "cut_1", Points: []design.Ratio{{X: 0.3, Y: design.SentinelMin}, {X: 0.3, Y: design.SentinelMax}}},
		{Name: "cut_2", Points: []design.Ratio{{X: 0.7, Y: design.SentinelMin}, {X: 0.7, Y: design.SentinelMax}}},
	}

	first, err := Build(d, DefaultExtreme)
	require.NoError(t, err)
	require.Len(t, first, 3)
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].Centroid().X, first[i].Centroid().X)
		assert.Equal(t, ID(i), first[i].ID)
	}

	for range 5 {
		again, err := Build(d, DefaultExtreme)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Len(t, Index(first), 3)
}
