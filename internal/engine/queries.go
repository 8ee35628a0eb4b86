package engine

import (
	"context"
	"iter"
	"sync/atomic"
	"time"

	"github.com/iEmiya/ruaddress/internal/kladr"
	"github.com/iEmiya/ruaddress/model"
)

// Operation names used as metric labels.
const (
	OpSearch              = "search"
	OpGetByCode           = "code"
	OpGetByIndex          = "postal"
	OpGetByIndexForSearch = "postal_search"
	OpGetByLevel          = "level"
	OpGetChildren         = "children"
)

const cacheTimeout = 250 * time.Millisecond

// observe records the query and wraps seq so that a sequence consumed to
// the end without a single element counts as an empty result.
func observe[T any](e *Engine, op string, start time.Time, seq iter.Seq[T]) iter.Seq[T] {
	e.metrics.ObserveQuery(op, time.Since(start))
	var used atomic.Bool
	return func(yield func(T) bool) {
		if used.Swap(true) {
			return
		}
		n := 0
		for v := range seq {
			n++
			if !yield(v) {
				return
			}
		}
		if n == 0 {
			e.metrics.EmptyResult(op)
		}
	}
}

// Search returns stored parts matching every word of text by prefix.
func (e *Engine) Search(text string) iter.Seq[model.SearchResult] {
	start := time.Now()
	return observe(e, OpSearch, start, e.searcher.Search(text))
}

// GetByCode returns the ancestor chain of code.
func (e *Engine) GetByCode(code string) (model.ParsedAddress, bool) {
	start := time.Now()
	addr, ok := e.getByCode(code)
	e.metrics.ObserveQuery(OpGetByCode, time.Since(start))
	if !ok {
		e.metrics.EmptyResult(OpGetByCode)
	}
	return addr, ok
}

func (e *Engine) getByCode(code string) (model.ParsedAddress, bool) {
	normalized, err := kladr.Normalize(code)
	if err != nil {
		return model.ParsedAddress{}, false
	}
	buildID := e.searcher.BuildID()
	if e.cache == nil || buildID == "" {
		return e.searcher.GetByCode(normalized)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	addr, hit, err := e.cache.Get(ctx, buildID, normalized)
	switch {
	case err != nil:
		e.metrics.CacheResult("error")
		e.logger.Warn("cache read failed", "code", normalized, "error", err)
	case hit:
		e.metrics.CacheResult("hit")
		return addr, true
	default:
		e.metrics.CacheResult("miss")
	}

	addr, ok := e.searcher.GetByCode(normalized)
	if ok {
		if err := e.cache.Set(ctx, buildID, normalized, addr); err != nil {
			e.logger.Warn("cache write failed", "code", normalized, "error", err)
		}
	}
	return addr, ok
}

// GetByIndex returns the chains of every street with the postal code.
func (e *Engine) GetByIndex(postalCode string) iter.Seq[model.ParsedAddress] {
	start := time.Now()
	return observe(e, OpGetByIndex, start, e.searcher.GetByIndex(postalCode))
}

// GetByIndexForSearch returns the streets with the postal code.
func (e *Engine) GetByIndexForSearch(postalCode string) iter.Seq[model.SearchResult] {
	start := time.Now()
	return observe(e, OpGetByIndexForSearch, start, e.searcher.GetByIndexForSearch(postalCode))
}

// GetByLevel returns the parts at the same level as code under the same parent.
func (e *Engine) GetByLevel(code string) iter.Seq[model.AddressPart] {
	start := time.Now()
	return observe(e, OpGetByLevel, start, e.searcher.GetByLevel(code))
}

// GetChildren returns the nearest populated level of descendants of code.
func (e *Engine) GetChildren(code string) iter.Seq[model.AddressPart] {
	start := time.Now()
	return observe(e, OpGetChildren, start, e.searcher.GetChildren(code))
}

// GetReduction returns the canonical entry of an abbreviation at level.
func (e *Engine) GetReduction(level int, short string) (model.ReductionEntry, bool) {
	return e.reductions.Load().Get(level, short)
}

// GetLevel returns the level encoded in code. It does not consult the store.
func (e *Engine) GetLevel(code string) (int, bool) {
	normalized, err := kladr.Normalize(code)
	if err != nil {
		return 0, false
	}
	return kladr.Level(normalized)
}
