package design

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dbccheck/pkg/errors"
)

const fullJSON = `{
  "ceramics_width": 50, "ceramics_length": 40,
  "cu2cu_margin": 1, "cu2ceramics_margin": 1.5,
  "igbt_width": 10, "igbt_length": 8, "fwd_width": 6, "fwd_length": 5,
  "gate_design": {"type_1": {"start": [0.1, 0.2], "moves": [[0.2, 0], [0, 0.1]]}},
  "cutting_design": {"path_1": [["MIN", 0.5], ["MAX", 0.5]]},
  "igbt_positions": {"type_1": [[0.1, 0.1], [0.6, 0.1]]},
  "igbt_rotations": {"type_1": [0, 90]},
  "fwd_positions": [[0.1, 0.6]], "fwd_rotations": [0],
  "dbc_connections": [["zone0", "igbt0"], ["zone1", "igbt1"], ["zone0", "fwd0"]]
}`

const fullYAML = `
ceramics_width: 50
ceramics_length: 40
cu2cu_margin: 1
cu2ceramics_margin: 1.5
igbt_width: 10
igbt_length: 8
fwd_width: 6
fwd_length: 5
gate_design:
  type_1:
    start: [0.1, 0.2]
    moves: [[0.2, 0], [0, 0.1]]
cutting_design:
  path_1: [[MIN, 0.5], [MAX, 0.5]]
igbt_positions:
  type_1: [[0.1, 0.1], [0.6, 0.1]]
igbt_rotations:
  type_1: [0, 90]
fwd_positions: [[0.1, 0.6]]
fwd_rotations: [0]
dbc_connections:
  - [zone0, igbt0]
  - [zone1, igbt1]
  - [zone0, fwd0]
`

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Format
	}{
		{"json", fullJSON, FormatJSON},
		{"yaml", fullYAML, FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, format, err := Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if format != tt.want {
				t.Errorf("format = %s, want %s", format, tt.want)
			}
			if keys := obj.Keys(); keys[0] != "ceramics_width" || keys[len(keys)-1] != "dbc_connections" {
				t.Errorf("keys out of order: %v", keys)
			}
		})
	}
}

func TestJSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := FromBytes([]byte(fullJSON))
	if err != nil {
		t.Fatalf("FromBytes(json): %v", err)
	}
	fromYAML, err := FromBytes([]byte(fullYAML))
	if err != nil {
		t.Fatalf("FromBytes(yaml): %v", err)
	}
	if fromJSON.Summary() != fromYAML.Summary() {
		t.Errorf("summaries differ:\n json: %s\n yaml: %s", fromJSON.Summary(), fromYAML.Summary())
	}
	if fromYAML.CuttingDesign.Paths[0].Points[1].X != SentinelMax {
		t.Errorf("yaml MAX marker = %v", fromYAML.CuttingDesign.Paths[0].Points[1])
	}
	if len(fromYAML.Topology.DBCConnections) != 3 || fromYAML.Topology.DBCConnections[2].Target != "FWD_0" {
		t.Errorf("yaml connections = %v", fromYAML.Topology.DBCConnections)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", "   \n"},
		{"top-level list", "[1, 2, 3]"},
		{"top-level scalar", "42"},
		{"garbage", "{ceramics_width: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.src))
			if !errors.Is(err, errors.ErrCodeInvalidDesign) {
				t.Errorf("Parse() error = %v, want INVALID_DESIGN", err)
			}
		})
	}
}

func TestFromBytesValidation(t *testing.T) {
	tests := []struct {
		name string
		edit func(string) string
		code errors.Code
	}{
		{
			name: "rotation count mismatch",
			edit: func(s string) string { return strings.Replace(s, `"igbt_rotations": {"type_1": [0, 90]}`, `"igbt_rotations": {"type_1": [0]}`, 1) },
			code: errors.ErrCodeInconsistentPlacement,
		},
		{
			name: "fwd rotation missing",
			edit: func(s string) string { return strings.Replace(s, `"fwd_rotations": [0]`, `"fwd_rotations": []`, 1) },
			code: errors.ErrCodeInconsistentPlacement,
		},
		{
			name: "rotation group without positions",
			edit: func(s string) string { return strings.Replace(s, `{"type_1": [0, 90]}`, `{"type_1": [0, 90], "type_2": [0]}`, 1) },
			code: errors.ErrCodeInconsistentPlacement,
		},
		{
			name: "gate start without moves",
			edit: func(s string) string {
				return strings.Replace(s, `"start": [0.1, 0.2]`, `"start": [[0.1, 0.2], [0.3, 0.3]]`, 1)
			},
			code: errors.ErrCodeMalformedFeature,
		},
		{
			name: "zero width",
			edit: func(s string) string { return strings.Replace(s, `"ceramics_width": 50`, `"ceramics_width": 0`, 1) },
			code: errors.ErrCodeInvalidDesign,
		},
		{
			name: "negative margin",
			edit: func(s string) string { return strings.Replace(s, `"cu2cu_margin": 1`, `"cu2cu_margin": -1`, 1) },
			code: errors.ErrCodeInvalidDesign,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes([]byte(tt.edit(fullJSON)))
			if !errors.Is(err, tt.code) {
				t.Errorf("FromBytes() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "module_a.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.TemplateID != "module_a" {
		t.Errorf("TemplateID = %q, want module_a", d.TemplateID)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := Load(filepath.Join(dir, "design.txt")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Load(.txt) error = %v, want UNSUPPORTED_FORMAT", err)
	}
}

func TestReadSummary(t *testing.T) {
	d, err := Read(strings.NewReader(fullJSON))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := "50x40 base, 1 gate types, 1 cuts, 2 IGBT, 1 FWD, 3 connections"
	if got := d.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
