package engine

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	"github.com/iEmiya/ruaddress/internal/indexing"
	"github.com/iEmiya/ruaddress/internal/reduction"
	"github.com/iEmiya/ruaddress/internal/source"
	"github.com/iEmiya/ruaddress/model"
	"github.com/iEmiya/ruaddress/store"
)

// Rebuild replaces the store with one built from records and reductions.
// A duplicate abbreviation aborts before anything is written. Only one
// rebuild runs at a time; a concurrent call fails with ErrRebuildInProgress.
func (e *Engine) Rebuild(ctx context.Context, records []model.AddressRecord, reductions []model.ReductionEntry) (model.BuildStats, error) {
	return e.rebuild(ctx, records, reductions, nil, nil)
}

// RebuildFromSource reads src and rebuilds the store from it. Rows dropped
// by the source are reported in the skip statistics.
func (e *Engine) RebuildFromSource(ctx context.Context, src source.Source) (model.BuildStats, error) {
	return e.rebuildFromSource(ctx, src, nil)
}

func (e *Engine) rebuildFromSource(ctx context.Context, src source.Source, progress indexing.ProgressFunc) (model.BuildStats, error) {
	if e.rebuilding.Load() {
		return model.BuildStats{}, apperrors.ErrRebuildInProgress
	}
	reductions, err := src.Reductions(ctx)
	if err != nil {
		return model.BuildStats{}, fmt.Errorf("failed to read reductions: %w", err)
	}
	records, err := src.Records(ctx)
	if err != nil {
		return model.BuildStats{}, fmt.Errorf("failed to read records: %w", err)
	}
	e.logger.Info("source read", "records", len(records), "reductions", len(reductions))

	return e.rebuild(ctx, records, reductions, src.Skipped(), progress)
}

func (e *Engine) rebuild(
	ctx context.Context,
	records []model.AddressRecord,
	reductions []model.ReductionEntry,
	skipped map[string]int,
	progress indexing.ProgressFunc,
) (model.BuildStats, error) {
	if !e.rebuilding.CompareAndSwap(false, true) {
		return model.BuildStats{}, apperrors.ErrRebuildInProgress
	}
	defer e.rebuilding.Store(false)

	start := time.Now()
	lookup, err := reduction.New(reductions)
	if err != nil {
		return model.BuildStats{}, fmt.Errorf("invalid reduction table: %w", err)
	}

	staging := indexing.NewStaging(e.logger)
	staging.Add(records...)

	table, err := reduction.Stage(e.dataDir, lookup)
	if err != nil {
		return model.BuildStats{}, fmt.Errorf("failed to save reduction table: %w", err)
	}
	defer table.Discard()

	builder := indexing.NewService(lookup, e.logger).WithProgress(progress)
	result, err := builder.Build(ctx, staging, store.NewWriter(e.dataDir, store.AddressSchema()))
	if err != nil {
		return model.BuildStats{}, fmt.Errorf("failed to build address store: %w", err)
	}

	// the segment is committed: queries move to it whatever happens next
	e.reductions.Store(reduction.Preloaded(e.dataDir, lookup, e.logger))
	e.searcher.Reset()

	stats := model.BuildStats{
		BuildID:    result.Commit.BuildID,
		Records:    staging.Total(),
		Documents:  result.Documents,
		Reductions: lookup.Len(),
		Skipped:    staging.Skipped(),
		Duration:   time.Since(start),
	}
	for reason, n := range skipped {
		stats.Skipped[reason] += n
	}
	if err := table.Publish(); err != nil {
		e.logger.Error("address store committed without its reduction table", "build_id", stats.BuildID, "error", err)
		return stats, fmt.Errorf("failed to save reduction table: %w", err)
	}
	e.metrics.ObserveBuild(stats.Duration, stats.Documents, stats.Skipped)
	e.logger.Info("rebuild completed",
		"build_id", stats.BuildID,
		"documents", stats.Documents,
		"reductions", stats.Reductions,
		"duration", stats.Duration)
	return stats, nil
}
