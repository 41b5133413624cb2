package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewEmpty(t *testing.T) {
	r := New(nil)
	if !r.OK {
		t.Error("OK = false, want true")
	}
	if r.Summary != "precheck passed" {
		t.Errorf("Summary = %q", r.Summary)
	}

	data, err := r.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"ok":true,"errors":[],"warnings":[],"summary":"precheck passed"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestViolationFieldOrder(t *testing.T) {
	tests := []struct {
		name string
		v    Violation
		want string
	}{
		{
			name: "out of zone",
			v: Violation{
				Type: ChipOutOfZone, Chip: "IGBT_0", Zone: "Zone_0", Detail: "d",
				Metrics:     &OutOfZoneMetrics{OutsideArea: 3, OutsideRatio: 0.75, ChipBBox: BBox{9, 9, 11, 11}, ZoneBBox: BBox{0, 0, 10, 10}},
				SuggestMove: &Vector{-1, -1},
			},
			want: `{"type":"chip_out_of_zone","chip":"IGBT_0","zone":"Zone_0","detail":"d",` +
				`"metrics":{"outside_area":3,"outside_ratio":0.75,"chip_bbox":[9,9,11,11],"zone_bbox":[0,0,10,10]},` +
				`"suggest_move":[-1,-1]}`,
		},
		{
			name: "overlap",
			v: Violation{
				Type: ChipOverlap, Chips: []string{"IGBT_0", "IGBT_1"}, Detail: "d",
				Metrics:     &OverlapMetrics{OverlapArea: 4, OverlapRatioMin: 1},
				SuggestMove: &Vector{2.001, 0},
			},
			want: `{"type":"chip_overlap","chips":["IGBT_0","IGBT_1"],"detail":"d",` +
				`"metrics":{"overlap_area":4,"overlap_ratio_min":1,"chip_i_bbox":[0,0,0,0],"chip_j_bbox":[0,0,0,0],"overlap_bbox":[0,0,0,0]},` +
				`"suggest_move":[2.001,0]}`,
		},
		{
			name: "missing binding",
			v:    Violation{Type: MissingZoneBinding, Chip: "FWD_0", Detail: "d"},
			want: `{"type":"missing_zone_binding","chip":"FWD_0","detail":"d"}`,
		},
		{
			name: "missing geometry",
			v:    Violation{Type: MissingZoneGeometry, Chip: "FWD_0", Zone: "Zone_3", Detail: "d"},
			want: `{"type":"missing_zone_geometry","chip":"FWD_0","zone":"Zone_3","detail":"d"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.v)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() =\n%s\nwant\n%s", data, tt.want)
			}
		})
	}
}

func TestUnmarshalRestoresMetrics(t *testing.T) {
	r := New([]Violation{
		{Type: ChipOutOfZone, Chip: "IGBT_0", Zone: "Zone_0", Detail: "a",
			Metrics: &OutOfZoneMetrics{OutsideArea: 1.5}, SuggestMove: &Vector{0, -1}},
		{Type: ChipOverlap, Chips: []string{"IGBT_0", "FWD_0"}, Detail: "b",
			Metrics: &OverlapMetrics{OverlapArea: 2}},
		{Type: MissingZoneBinding, Chip: "FWD_1", Detail: "c"},
	})

	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(buf.Bytes())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.OK || got.Summary != "found 3 issue(s)" || len(got.Errors) != 3 {
		t.Fatalf("decoded report = %+v", got)
	}
	if m, ok := got.Errors[0].Metrics.(*OutOfZoneMetrics); !ok || m.OutsideArea != 1.5 {
		t.Errorf("out-of-zone metrics = %#v", got.Errors[0].Metrics)
	}
	if got.Errors[0].SuggestMove == nil || *got.Errors[0].SuggestMove != (Vector{0, -1}) {
		t.Errorf("suggest_move = %v", got.Errors[0].SuggestMove)
	}
	if m, ok := got.Errors[1].Metrics.(*OverlapMetrics); !ok || m.OverlapArea != 2 {
		t.Errorf("overlap metrics = %#v", got.Errors[1].Metrics)
	}
	if got.Errors[2].Metrics != nil || got.Errors[2].SuggestMove != nil {
		t.Errorf("missing binding carries extras: %+v", got.Errors[2])
	}

	var again bytes.Buffer
	if err := got.Write(&again); err != nil {
		t.Fatal(err)
	}
	if again.String() != buf.String() {
		t.Errorf("re-encoded report differs:\n%s\nvs\n%s", again.String(), buf.String())
	}
}

func TestWriteIndent(t *testing.T) {
	var buf bytes.Buffer
	if err := New(nil).Write(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"ok\": true,") || !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("Write() = %q", buf.String())
	}
}

func TestCountAndSubject(t *testing.T) {
	r := New([]Violation{
		{Type: ChipOverlap, Chips: []string{"IGBT_0", "IGBT_1"}},
		{Type: ChipOverlap, Chips: []string{"IGBT_0", "FWD_0"}},
		{Type: MissingZoneBinding, Chip: "FWD_0"},
	})
	counts := r.Count()
	if counts[ChipOverlap] != 2 || counts[MissingZoneBinding] != 1 {
		t.Errorf("Count() = %v", counts)
	}
	if got := r.Errors[0].Subject(); got != "IGBT_0 / IGBT_1" {
		t.Errorf("Subject() = %q", got)
	}
	if got := r.Errors[2].Subject(); got != "FWD_0" {
		t.Errorf("Subject() = %q", got)
	}
}
