package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dbccheck/pkg/buildinfo"
	"github.com/matzehuels/dbccheck/pkg/cache"
	"github.com/matzehuels/dbccheck/pkg/design"
	"github.com/matzehuels/dbccheck/pkg/observability"
	"github.com/matzehuels/dbccheck/pkg/report"
)

const cacheKeyType = "report"

// Runner encapsulates precheck execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached reports (default cache.TTLReport).
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLReport,
	}
}

// Run loads the design, then serves the report from cache or computes it.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := uuid.NewString()
	logger := opts.Logger.With("run_id", runID)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageNormalize)
	d, err := r.load(opts)
	normalizeTime := time.Since(start)
	hooks.OnStageComplete(ctx, observability.StageNormalize, 1, normalizeTime, err)
	if err != nil {
		return nil, err
	}
	logger.Debug("normalized design", "template", d.TemplateID, "summary", d.Summary())

	hash, err := DesignHash(d)
	if err != nil {
		return nil, fmt.Errorf("hash design: %w", err)
	}
	key := r.Keyer.ReportKey(hash, cache.ReportKeyOpts{
		Extreme:  opts.Extreme,
		Detector: opts.Detect.Key(),
		Version:  buildinfo.Version,
	})

	result, hit := r.cached(ctx, key, opts)
	if !hit {
		result, err = runCheck(ctx, d, opts.Extreme, opts.Detect)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, result.Report, logger)
	}

	result.Design = d
	result.DesignHash = hash
	result.RunID = runID
	result.CacheInfo.ReportHit = hit
	result.Stats.NormalizeTime = normalizeTime
	result.Stats.TotalTime = time.Since(start)
	if hit {
		result.Stats.ViolationCount = len(result.Report.Errors) + len(result.Report.Warnings)
	}

	hooks.OnPrecheckComplete(ctx, result.Report.OK, len(result.Report.Errors), len(result.Report.Warnings), result.Stats.TotalTime)
	logger.Info("precheck complete",
		"ok", result.Report.OK,
		"zones", result.Stats.ZoneCount,
		"chips", result.Stats.ChipCount,
		"violations", result.Stats.ViolationCount,
		"cached", hit,
		"duration", result.Stats.TotalTime)
	return result, nil
}

func (r *Runner) load(opts Options) (*design.Design, error) {
	if len(opts.Data) > 0 {
		return design.FromBytes(opts.Data)
	}
	return design.Load(opts.Input)
}

// cached returns the stored report for key. Unreadable entries count as
// misses and are recomputed.
func (r *Runner) cached(ctx context.Context, key string, opts Options) (*Result, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	rep, err := report.Unmarshal(data)
	if err != nil {
		opts.Logger.Warn("discarding unreadable cached report", "err", err)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return &Result{Report: rep}, true
}

func (r *Runner) store(ctx context.Context, key string, rep *report.Report, logger *log.Logger) {
	data, err := rep.Marshal()
	if err != nil {
		logger.Warn("encode report for cache", "err", err)
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLReport
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}
