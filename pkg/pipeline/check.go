package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dbccheck/pkg/cache"
	"github.com/matzehuels/dbccheck/pkg/check"
	"github.com/matzehuels/dbccheck/pkg/chip"
	"github.com/matzehuels/dbccheck/pkg/design"
	"github.com/matzehuels/dbccheck/pkg/errors"
	"github.com/matzehuels/dbccheck/pkg/observability"
	"github.com/matzehuels/dbccheck/pkg/report"
	"github.com/matzehuels/dbccheck/pkg/topology"
	"github.com/matzehuels/dbccheck/pkg/zone"
)

// Check runs the precheck on a normalized design. It is pure: the same
// design and extreme always produce the same report.
//
// Structural problems (a malformed feature, a placement count mismatch) are
// returned as errors. Geometric defects are violations in the report.
func Check(d *design.Design, extreme float64) (*Result, error) {
	return runCheck(context.Background(), d, extreme, check.Options{})
}

// runCheck builds zones and places chips concurrently, then binds and
// detects. The context only carries hooks; the stages do not block.
func runCheck(ctx context.Context, d *design.Design, extreme float64, opts check.Options) (*Result, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidDesign, "design is nil")
	}
	hooks := observability.Pipeline()
	res := &Result{Design: d}

	var (
		zones []zone.Zone
		chips []chip.Instance
	)
	geomStart := time.Now()
	g := new(errgroup.Group)
	g.Go(func() error {
		hooks.OnStageStart(ctx, observability.StageZones)
		start := time.Now()
		var err error
		zones, err = zone.Build(d, extreme)
		hooks.OnStageComplete(ctx, observability.StageZones, len(zones), time.Since(start), err)
		if err != nil {
			return fmt.Errorf("build zones: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		hooks.OnStageStart(ctx, observability.StagePlace)
		start := time.Now()
		var err error
		chips, err = chip.Place(d)
		hooks.OnStageComplete(ctx, observability.StagePlace, len(chips), time.Since(start), err)
		if err != nil {
			return fmt.Errorf("place chips: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res.Stats.GeometryTime = time.Since(geomStart)

	hooks.OnStageStart(ctx, observability.StageBind)
	bindStart := time.Now()
	binding := topology.Bind(d.Topology)
	hooks.OnStageComplete(ctx, observability.StageBind, len(binding), time.Since(bindStart), nil)

	hooks.OnStageStart(ctx, observability.StageDetect)
	detectStart := time.Now()
	violations := check.Detect(zones, chips, binding, opts)
	res.Stats.DetectTime = time.Since(detectStart)
	hooks.OnStageComplete(ctx, observability.StageDetect, len(violations), res.Stats.DetectTime, nil)

	res.Report = report.New(violations)
	res.Zones = zones
	res.Chips = chips
	res.Binding = binding
	res.Stats.ZoneCount = len(zones)
	res.Stats.ChipCount = len(chips)
	res.Stats.ViolationCount = len(violations)
	return res, nil
}

// DesignHash is the content hash of a normalized design. The template id
// is excluded so renamed copies of a design share cached reports.
func DesignHash(d *design.Design) (string, error) {
	c := *d
	c.TemplateID = ""
	return cache.HashJSON(&c)
}
