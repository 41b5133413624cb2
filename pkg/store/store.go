// Package store keeps a history of precheck runs.
//
// Each CLI or API precheck can be recorded as one [Record]. Two backends
// implement [Store]:
//   - [MongoStore]: MongoDB collection for shared deployments
//   - [MemoryStore]: in-process storage for tests and single runs
//
// # Usage
//
//	st, err := store.NewMongoStore(ctx, store.MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	rec := store.FromResult(result, store.SourceCLI, extreme)
//	if err := st.Record(ctx, rec); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/dbccheck/pkg/pipeline"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Record sources.
const (
	SourceCLI = "cli"
	SourceAPI = "api"
)

// DefaultLimit is the number of records List returns when no limit is given.
const DefaultLimit = 20

// Record summarizes one precheck run.
type Record struct {
	ID         string         `json:"id" bson:"_id"`
	TemplateID string         `json:"template_id,omitempty" bson:"template_id,omitempty"`
	DesignHash string         `json:"design_hash" bson:"design_hash"`
	Source     string         `json:"source" bson:"source"`
	Extreme    float64        `json:"extreme" bson:"extreme"`
	OK         bool           `json:"ok" bson:"ok"`
	Violations int            `json:"violations" bson:"violations"`
	Counts     map[string]int `json:"counts,omitempty" bson:"counts,omitempty"`
	Summary    string         `json:"summary" bson:"summary"`
	Cached     bool           `json:"cached" bson:"cached"`
	DurationMS int64          `json:"duration_ms" bson:"duration_ms"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}

// ListOptions filter and bound List.
type ListOptions struct {
	// TemplateID restricts the result to one design template.
	TemplateID string
	// OnlyFailed restricts the result to runs whose report was not ok.
	OnlyFailed bool
	// Limit caps the number of records (default DefaultLimit).
	Limit int
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// Store is the interface for history backends.
type Store interface {
	// Record stores one run. The record ID must be unique.
	Record(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records newest first.
	List(ctx context.Context, opts ListOptions) ([]*Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// FromResult builds the history record of a precheck result.
func FromResult(res *pipeline.Result, source string, extreme float64) *Record {
	rec := &Record{
		ID:         res.RunID,
		DesignHash: res.DesignHash,
		Source:     source,
		Extreme:    extreme,
		Cached:     res.CacheInfo.ReportHit,
		DurationMS: res.Stats.TotalTime.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if res.Design != nil {
		rec.TemplateID = res.Design.TemplateID
	}
	if r := res.Report; r != nil {
		rec.OK = r.OK
		rec.Violations = len(r.Errors)
		rec.Summary = r.Summary
		if counts := r.Count(); len(counts) > 0 {
			rec.Counts = make(map[string]int, len(counts))
			for k, n := range counts {
				rec.Counts[string(k)] = n
			}
		}
	}
	return rec
}
