// Package report defines the precheck report and its JSON wire format.
//
// The JSON layout is a contract with the CAD build tooling: field names and
// order must not change.
//
//	{
//	  "ok": false,
//	  "errors": [
//	    {"type": "chip_out_of_zone", "chip": "IGBT_0", "zone": "Zone_0", "detail": "...",
//	     "metrics": {"outside_area": 1, "outside_ratio": 0.25, "chip_bbox": [...], "zone_bbox": [...]},
//	     "suggest_move": [-1, -1]}
//	  ],
//	  "warnings": [],
//	  "summary": "found 1 issue(s)"
//	}
package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// Kind is the violation type tag.
type Kind string

// Violation kinds.
const (
	ChipOutOfZone       Kind = "chip_out_of_zone"
	ChipOverlap         Kind = "chip_overlap"
	MissingZoneBinding  Kind = "missing_zone_binding"
	MissingZoneGeometry Kind = "missing_zone_geometry"
)

// Kinds lists every violation kind in report order of precedence.
var Kinds = []Kind{MissingZoneBinding, MissingZoneGeometry, ChipOutOfZone, ChipOverlap}

// BBox is [minx, miny, maxx, maxy].
type BBox [4]float64

// Vector is a suggested translation (dx, dy).
type Vector [2]float64

// OutOfZoneMetrics describe how far a chip leaves its zone.
type OutOfZoneMetrics struct {
	OutsideArea  float64 `json:"outside_area"`
	OutsideRatio float64 `json:"outside_ratio"`
	ChipBBox     BBox    `json:"chip_bbox"`
	ZoneBBox     BBox    `json:"zone_bbox"`
}

// OverlapMetrics describe the overlap of two chips.
type OverlapMetrics struct {
	OverlapArea     float64 `json:"overlap_area"`
	OverlapRatioMin float64 `json:"overlap_ratio_min"`
	ChipIBBox       BBox    `json:"chip_i_bbox"`
	ChipJBBox       BBox    `json:"chip_j_bbox"`
	OverlapBBox     BBox    `json:"overlap_bbox"`
}

// Violation is one detected defect. Which fields are set depends on Type:
// overlaps use Chips, everything else uses Chip. Metrics is an
// *OutOfZoneMetrics or *OverlapMetrics, or nil.
type Violation struct {
	Type        Kind     `json:"type"`
	Chip        string   `json:"chip,omitempty"`
	Chips       []string `json:"chips,omitempty"`
	Zone        string   `json:"zone,omitempty"`
	Detail      string   `json:"detail"`
	Metrics     any      `json:"metrics,omitempty"`
	SuggestMove *Vector  `json:"suggest_move,omitempty"`
}

// UnmarshalJSON decodes a violation, picking the metrics type from the
// violation type.
func (v *Violation) UnmarshalJSON(data []byte) error {
	type plain Violation
	var raw struct {
		plain
		Metrics json.RawMessage `json:"metrics,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Violation(raw.plain)
	v.Metrics = nil
	if len(raw.Metrics) == 0 || string(raw.Metrics) == "null" {
		return nil
	}

	switch v.Type {
	case ChipOutOfZone:
		var m OutOfZoneMetrics
		if err := json.Unmarshal(raw.Metrics, &m); err != nil {
			return fmt.Errorf("%s metrics: %w", v.Type, err)
		}
		v.Metrics = &m
	case ChipOverlap:
		var m OverlapMetrics
		if err := json.Unmarshal(raw.Metrics, &m); err != nil {
			return fmt.Errorf("%s metrics: %w", v.Type, err)
		}
		v.Metrics = &m
	default:
		var m map[string]any
		if err := json.Unmarshal(raw.Metrics, &m); err != nil {
			return fmt.Errorf("%s metrics: %w", v.Type, err)
		}
		v.Metrics = m
	}
	return nil
}

// Subject returns the chip or chip pair the violation is about.
func (v Violation) Subject() string {
	if len(v.Chips) > 0 {
		s := v.Chips[0]
		for _, c := range v.Chips[1:] {
			s += " / " + c
		}
		return s
	}
	return v.Chip
}

// Report is the result of one precheck.
type Report struct {
	OK       bool        `json:"ok"`
	Errors   []Violation `json:"errors"`
	Warnings []string    `json:"warnings"`
	Summary  string      `json:"summary"`
}

// New assembles a report from the ordered violations.
func New(violations []Violation) *Report {
	if violations == nil {
		violations = []Violation{}
	}
	return &Report{
		OK:       len(violations) == 0,
		Errors:   violations,
		Warnings: []string{},
		Summary:  Summarize(len(violations)),
	}
}

// Summarize returns the summary line for n violations.
func Summarize(n int) string {
	if n == 0 {
		return "precheck passed"
	}
	return fmt.Sprintf("found %d issue(s)", n)
}

// Count returns the number of violations per kind.
func (r *Report) Count() map[Kind]int {
	counts := make(map[Kind]int)
	for _, v := range r.Errors {
		counts[v.Type]++
	}
	return counts
}

// Write encodes r as indented JSON followed by a newline.
func (r *Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// Marshal encodes r as compact JSON.
func (r *Report) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal decodes a report written by Write or Marshal.
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Errors == nil {
		r.Errors = []Violation{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	return &r, nil
}
