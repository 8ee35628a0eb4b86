// Package reduction maps (level, abbreviation) pairs to the canonical name of
// the administrative unit type.
package reduction

import (
	"sort"

	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	"github.com/iEmiya/ruaddress/internal/tokenizer"
	"github.com/iEmiya/ruaddress/model"
)

// Lookup is an immutable two-level table: level, then case-folded abbreviation.
type Lookup struct {
	byLevel map[int]map[string]model.ReductionEntry
	size    int
}

// New builds a Lookup. A repeated (level, abbreviation) pair or an empty
// abbreviation means corrupt reference data and fails the whole table.
func New(entries []model.ReductionEntry) (*Lookup, error) {
	l := &Lookup{byLevel: make(map[int]map[string]model.ReductionEntry)}
	for _, e := range entries {
		if e.Short == "" {
			return nil, apperrors.NewValidationError("short", "abbreviation cannot be empty")
		}
		key := tokenizer.Fold(e.Short)
		level, ok := l.byLevel[e.Level]
		if !ok {
			level = make(map[string]model.ReductionEntry)
			l.byLevel[e.Level] = level
		}
		if _, dup := level[key]; dup {
			return nil, apperrors.NewDuplicateReductionError(e.Level, e.Short)
		}
		level[key] = e
		l.size++
	}
	return l, nil
}

// Get returns the entry for an abbreviation at a level, matched case-insensitively.
func (l *Lookup) Get(level int, short string) (model.ReductionEntry, bool) {
	if l == nil {
		return model.ReductionEntry{}, false
	}
	e, ok := l.byLevel[level][tokenizer.Fold(short)]
	return e, ok
}

// Len returns the number of entries.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return l.size
}

// Entries returns every entry ordered by level, then abbreviation.
func (l *Lookup) Entries() []model.ReductionEntry {
	if l == nil {
		return nil
	}
	out := make([]model.ReductionEntry, 0, l.size)
	for _, level := range l.byLevel {
		for _, e := range level {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Short < out[j].Short
	})
	return out
}
