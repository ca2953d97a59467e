// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assess orchestrates a trust assessment: entity resolution,
// cache gateway lookup, and — on a miss — a live research stream whose
// outcome is written back through the cache.
package assess

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/trust-engine/internal/cache"
	"github.com/pdiddy/trust-engine/internal/entity"
	"github.com/pdiddy/trust-engine/internal/stream"
	"github.com/pdiddy/trust-engine/pkg/types"
)

// Runner wires the assessment stages together.
type Runner struct {
	Cache     *cache.Store
	Registry  *types.Registry
	Extractor entity.Extractor
	Stream    *stream.Client

	// Warn receives stream frame warnings; io.Discard when nil.
	Warn io.Writer

	inflight group
}

// Result is the outcome of one assessment.
type Result struct {
	// Entry is the cached or freshly stored report.
	Entry *types.CacheEntry

	// Cached reports whether the entry came from the cache without a
	// research run.
	Cached bool

	// Attached reports whether this caller attached to a research run
	// already in flight for the same key.
	Attached bool

	// Resolution records how the query resolved.
	Resolution *entity.Resolution

	// Progress is the final reconstructed stream state; zero for cache
	// hits and attached callers.
	Progress types.Progress
}

// Assess resolves the query, consults the cache, and on a miss drives
// the research stream to completion before persisting the report. At
// most one research run per normalized key is in flight at a time;
// concurrent callers for the same key attach to the running
// computation. onUpdate, when non-nil, receives a progress snapshot
// after every stream event. A cancelled run persists nothing and
// returns ErrStreamAborted.
func (r *Runner) Assess(ctx context.Context, userID, query string, onUpdate func(types.Progress)) (*Result, error) {
	res, err := entity.Resolve(ctx, query, r.Registry, r.Extractor)
	if err != nil {
		return nil, err
	}

	result := &Result{Resolution: res}

	// Cache gateway: matched entities carry their own candidate keys;
	// the normalized query key is always tried.
	entry, err := r.Cache.LookupByEntity(ctx, res.Entity)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		if entry, err = r.Cache.Lookup(ctx, res.Key); err != nil {
			return nil, err
		}
	}
	if entry != nil {
		if err := r.recordAccess(ctx, userID, entry.Key); err != nil {
			return nil, err
		}
		result.Entry = entry
		result.Cached = true
		return result, nil
	}

	c, attached := r.inflight.begin(res.Key)
	if attached {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for in-flight research: %w", types.ErrStreamAborted)
		case <-c.done:
		}
		if c.err != nil {
			return nil, c.err
		}
		if err := r.recordAccess(ctx, userID, c.entry.Key); err != nil {
			return nil, err
		}
		result.Entry = c.entry
		result.Attached = true
		return result, nil
	}

	entry, progress, err := r.research(ctx, res, onUpdate)
	r.inflight.finish(res.Key, c, entry, err)
	if err != nil {
		return nil, err
	}

	if err := r.recordAccess(ctx, userID, entry.Key); err != nil {
		return nil, err
	}
	result.Entry = entry
	result.Progress = progress
	return result, nil
}

// research runs the stream for a cache miss and stores the outcome.
func (r *Runner) research(ctx context.Context, res *entity.Resolution, onUpdate func(types.Progress)) (*types.CacheEntry, types.Progress, error) {
	warn := r.Warn
	if warn == nil {
		warn = io.Discard
	}

	rec := stream.NewReconstructor(warn)
	rec.OnUpdate = onUpdate

	streamQuery := res.Query
	if res.Extracted != "" {
		streamQuery = res.Extracted
	}

	if err := r.Stream.Run(ctx, streamQuery, rec); err != nil {
		// Partial state stays visible through onUpdate snapshots; an
		// aborted or failed run persists nothing.
		return nil, rec.Snapshot(), err
	}

	progress := rec.Snapshot()
	report, err := buildReport(res, progress)
	if err != nil {
		return nil, progress, err
	}

	entry, err := r.Cache.Put(ctx, res.Key, res.Query, report)
	if err != nil {
		return nil, progress, err
	}
	return entry, progress, nil
}

func (r *Runner) recordAccess(ctx context.Context, userID, key string) error {
	if userID == "" {
		return nil
	}
	return r.Cache.RecordAccess(ctx, userID, key)
}

// buildReport turns the terminal stream payload into a structured
// report. The synthesized report text is expected to be the report
// JSON; when it is not, the text is kept verbatim as the executive
// summary and the opportunistically extracted score and sources fill
// in, marked model-inferred.
func buildReport(res *entity.Resolution, p types.Progress) (*types.Report, error) {
	if p.ResearchBrief == "" {
		return nil, fmt.Errorf("research stream ended without a final report for %q", res.Key)
	}

	var report types.Report
	if err := json.Unmarshal([]byte(p.ResearchBrief), &report); err == nil && report.ProductName != "" {
		return &report, nil
	}

	report = types.Report{
		ProductName:      displayName(res),
		ExecutiveSummary: p.ResearchBrief,
		TrustScore: types.TrustScore{
			Confidence:  types.ConfidenceLow,
			SourceCount: len(p.Sources),
			Rationale:   "model-inferred from stream extraction; structured report unavailable",
		},
	}
	if p.HasTrustScore {
		report.TrustScore.Score = p.TrustScore
	}
	for _, cve := range p.Findings {
		report.CVEs = append(report.CVEs, types.CVERecord{ID: cve})
	}
	for _, u := range p.Sources {
		report.Sources = append(report.Sources, types.SourceAttribution{
			Type: types.SourceIndependent,
			URL:  u,
		})
	}
	return &report, nil
}

// displayName picks the best human-readable name for the assessed entity.
func displayName(res *entity.Resolution) string {
	switch {
	case res.Entity != nil:
		return res.Entity.Name
	case res.Extracted != "":
		return res.Extracted
	default:
		return res.Query
	}
}
