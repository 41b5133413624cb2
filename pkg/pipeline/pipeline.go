// Package pipeline runs the DBC layout precheck end to end.
//
// The precheck has four stages:
//
//  1. Normalize: read the flat design file into a [design.Design]
//  2. Geometry: build the copper zones and place the dies (concurrently)
//  3. Bind: resolve which zone owns which die from the topology
//  4. Detect: run containment and overlap checks into a [report.Report]
//
// [Check] is the pure core: same design and extreme in, byte-identical report
// out. [Runner] wraps it with file loading, report caching, run ids,
// logging, and observability hooks, and is shared by the CLI and the HTTP
// service.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Run(ctx, pipeline.Options{Input: "module.json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Report.Write(os.Stdout)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dbccheck/pkg/check"
	"github.com/matzehuels/dbccheck/pkg/chip"
	"github.com/matzehuels/dbccheck/pkg/design"
	"github.com/matzehuels/dbccheck/pkg/errors"
	"github.com/matzehuels/dbccheck/pkg/report"
	"github.com/matzehuels/dbccheck/pkg/topology"
	"github.com/matzehuels/dbccheck/pkg/zone"
)

// DefaultExtreme is the coordinate that cut sentinels extend to.
const DefaultExtreme = zone.DefaultExtreme

// =============================================================================
// Options - Precheck Configuration
// =============================================================================

// Options configures a Runner.Run call.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is the path of the design file. Ignored when Data is set.
	Input string `json:"input,omitempty"`

	// Data is an in-memory design document (JSON or YAML).
	Data []byte `json:"-"`

	// Extreme is the coordinate cut sentinels extend to (default 1000).
	Extreme float64 `json:"extreme,omitempty"`

	// Refresh bypasses the report cache lookup. The fresh report is still
	// stored.
	Refresh bool `json:"refresh,omitempty"`

	// Detect tunes the violation detector. Zero values use its defaults.
	Detect check.Options `json:"-"`

	// Logger overrides the runner's logger for this call.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" && len(o.Data) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input path or design data is required")
	}
	if o.Extreme == 0 {
		o.Extreme = DefaultExtreme
	}
	if err := errors.ValidateExtreme(o.Extreme); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a precheck run.
type Result struct {
	// Report is the precheck verdict.
	Report *report.Report

	// Design is the normalized design that was checked.
	Design *design.Design

	// DesignHash is the content hash of the normalized design.
	DesignHash string

	// RunID identifies the run in logs and history records.
	RunID string

	// Zones, Chips and Binding are the intermediate geometry. They are nil
	// when the report came from the cache.
	Zones   []zone.Zone
	Chips   []chip.Instance
	Binding topology.Binding

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the report came from the cache.
	CacheInfo CacheInfo
}

// Stats contains precheck execution statistics.
type Stats struct {
	ZoneCount      int
	ChipCount      int
	ViolationCount int
	NormalizeTime  time.Duration
	GeometryTime   time.Duration
	DetectTime     time.Duration
	TotalTime      time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ReportHit bool // Whether the report came from cache
}
