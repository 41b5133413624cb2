package topology

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/dbccheck/pkg/design"
)

func TestBind(t *testing.T) {
	topo := design.Topology{DBCConnections: []design.Connection{
		{Source: "Zone_0", Target: "IGBT_0", Value: 1},
		{Source: "Zone_1", Target: "IGBT_0", Value: 1}, // ignored: already bound
		{Source: "Zone_1", Target: "FWD_0", Value: 2},  // ignored: weight
		{Source: "IGBT_1", Target: "Zone_1", Value: 1}, // ignored: direction
		{Source: "Zone_2", Target: "dc+", Value: 1},    // ignored: not a chip
		{Source: "Zone_1", Target: "FWD_0", Value: 1},
	}}

	b := Bind(topo)
	tests := []struct {
		chip   string
		want   string
		wantOK bool
	}{
		{"IGBT_0", "Zone_0", true},
		{"FWD_0", "Zone_1", true},
		{"IGBT_1", "", false},
		{"dc+", "", false},
	}
	for _, tt := range tests {
		got, ok := b.ZoneOf(tt.chip)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ZoneOf(%q) = %q, %v; want %q, %v", tt.chip, got, ok, tt.want, tt.wantOK)
		}
	}
	if len(b) != 2 {
		t.Errorf("len(binding) = %d, want 2", len(b))
	}
}

func TestBindEmpty(t *testing.T) {
	if b := Bind(design.Topology{}); len(b) != 0 {
		t.Errorf("Bind(empty) = %v", b)
	}
}

func TestBindingByZone(t *testing.T) {
	b := Binding{"IGBT_1": "Zone_0", "FWD_0": "Zone_0", "IGBT_0": "Zone_1"}
	got := b.ByZone()
	if fmt.Sprint(got["Zone_0"]) != "[FWD_0 IGBT_1]" {
		t.Errorf("Zone_0 chips = %v", got["Zone_0"])
	}
	if fmt.Sprint(got["Zone_1"]) != "[IGBT_0]" {
		t.Errorf("Zone_1 chips = %v", got["Zone_1"])
	}
}

func TestMatrix(t *testing.T) {
	conns := []design.Connection{
		{Source: "Zone_0", Target: "IGBT_0", Value: 1},
		{Source: "IGBT_0", Target: "FWD_0", Value: 0.5},
		{Source: "IGBT_0", Target: "ghost", Value: 3},
	}

	m := NewMatrix(conns, []string{"FWD_0", "IGBT_0", "Zone_0"})
	if got := m.Weight("Zone_0", "IGBT_0"); got != 1 {
		t.Errorf("Weight(Zone_0, IGBT_0) = %v, want 1", got)
	}
	if got := m.Weight("IGBT_0", "FWD_0"); got != 0.5 {
		t.Errorf("Weight(IGBT_0, FWD_0) = %v, want 0.5", got)
	}
	if got := m.Weight("FWD_0", "IGBT_0"); got != 0 {
		t.Errorf("Weight(FWD_0, IGBT_0) = %v, want 0", got)
	}
	if got := m.Weight("IGBT_0", "ghost"); got != 0 {
		t.Errorf("unknown entity weight = %v, want 0", got)
	}

	derived := NewMatrix(conns, nil)
	want := []string{"FWD_0", "IGBT_0", "Zone_0", "ghost"}
	if strings.Join(derived.Entities, ",") != strings.Join(want, ",") {
		t.Errorf("derived entities = %v, want %v", derived.Entities, want)
	}
	if derived.Weight("IGBT_0", "ghost") != 3 {
		t.Error("derived matrix should include every endpoint")
	}
}

func TestToDOT(t *testing.T) {
	topo := design.Topology{
		DBCConnections: []design.Connection{
			{Source: "Zone_0", Target: "IGBT_0", Value: 1},
			{Source: "IGBT_0", Target: "FWD_0", Value: 2},
		},
		DBCEntities: []string{"FWD_0", "IGBT_0", "Zone_0"},
	}
	dot := ToDOT(topo, Options{Binding: Bind(topo)})

	for _, want := range []string{
		"digraph G {",
		`"Zone_0" [label="Zone_0", fillcolor="#fde68a"];`,
		`"Zone_0" -> "IGBT_0" [penwidth=2.5, color="#1f6feb"];`,
		`"IGBT_0" -> "FWD_0" [label="2"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTModule(t *testing.T) {
	topo := design.Topology{
		ModuleConnections: []design.Connection{{Source: "DBC_0", Target: "DBC_1", Value: 1}},
		ModuleEntities:    []string{"DBC_0", "DBC_1"},
	}
	dot := ToDOT(topo, Options{Module: true})
	if !strings.Contains(dot, `"DBC_0" -> "DBC_1";`) {
		t.Errorf("module edge missing:\n%s", dot)
	}
	if !strings.Contains(dot, "shape=ellipse") {
		t.Errorf("module entities should use the generic node style:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	topo := design.Topology{
		DBCConnections: []design.Connection{{Source: "Zone_0", Target: "IGBT_0", Value: 1}},
		DBCEntities:    []string{"IGBT_0", "Zone_0"},
	}
	svg, err := RenderSVG(context.Background(), ToDOT(topo, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(svg)), "<") || !strings.Contains(string(svg), "<svg") {
		t.Errorf("RenderSVG did not return SVG: %.80s", svg)
	}
	if !strings.Contains(string(svg), `viewBox="0 0 `) {
		t.Errorf("viewBox not normalized")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
}
