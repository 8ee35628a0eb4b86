package indexing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iEmiya/ruaddress/internal/kladr"
	"github.com/iEmiya/ruaddress/internal/tokenizer"
	"github.com/iEmiya/ruaddress/model"
	"github.com/iEmiya/ruaddress/store"
)

// ReductionGetter resolves an abbreviation to its canonical entry.
type ReductionGetter interface {
	Get(level int, short string) (model.ReductionEntry, bool)
}

// DocumentWriter receives the resolved documents of a rebuild.
type DocumentWriter interface {
	Clear()
	AddDocument(doc model.Document) uint32
	Commit() (store.CommitInfo, error)
}

// ProgressFunc is called while documents are written.
type ProgressFunc func(current, total int)

// Result describes a finished build.
type Result struct {
	Commit    store.CommitInfo
	Documents int
	Orphans   int
}

// Service implements the hierarchy index builder.
// It resolves derived fields of staged records by walking the code hierarchy
// and writes the result as one atomic commit.
type Service struct {
	reductions ReductionGetter
	logger     *slog.Logger
	progress   ProgressFunc
}

// NewService creates a builder that formats names with reductions.
func NewService(reductions ReductionGetter, logger *slog.Logger) *Service {
	return &Service{reductions: reductions, logger: logger}
}

// WithProgress sets a callback invoked while documents are written.
func (s *Service) WithProgress(fn ProgressFunc) *Service {
	s.progress = fn
	return s
}

// Resolve computes SearchName, display names and FullName of every staged
// record and returns the parts that can be stored, ordered by level then code.
// Orphans are logged, counted in the staging skip statistics and left out.
// Resolving the same staging again starts from scratch.
func (s *Service) Resolve(staging *Staging) []*model.IndexedAddressPart {
	staging.reset()

	for _, d := range staging.Level(kladr.MinLevel) {
		d.SearchName = tokenizer.Lower(d.Name)
		s.setDisplayNames(d)
		d.FullName = d.NameWithReduction
	}

	for level := kladr.MinLevel + 1; level <= kladr.MaxLevel; level++ {
		for _, d := range staging.Level(level) {
			parentCode := kladr.ParentCode(level, d.ID)
			p, ok := staging.Get(parentCode)
			if !ok || p.SearchName == "" {
				staging.skipped[SkipOrphan]++
				s.logger.Warn("parent not found", "code", d.ID, "parent", parentCode, "level", level)
				continue
			}
			d.SearchName = p.SearchName + " " + tokenizer.Lower(d.Name)
			s.setDisplayNames(d)
			d.FullName = d.NameWithReduction + ", " + p.FullName
		}
	}

	var resolved []*model.IndexedAddressPart
	for level := kladr.MinLevel; level <= kladr.MaxLevel; level++ {
		for _, d := range staging.Level(level) {
			if d.SearchName == "" {
				continue
			}
			if postal := nearestPostalCode(staging, d); postal != "" {
				d.SearchName = postal + " " + d.SearchName
				d.FullName = d.FullName + ", " + postal
			}
			resolved = append(resolved, d)
		}
	}
	return resolved
}

// nearestPostalCode returns the record's own postal code or that of the
// closest ancestor carrying one. Missing intermediate ancestors are skipped.
func nearestPostalCode(staging *Staging, d *model.IndexedAddressPart) string {
	postal := d.PostalCode
	for level := d.Level; postal == "" && level > kladr.MinLevel; level-- {
		if p, ok := staging.Get(kladr.ParentCode(level, d.ID)); ok {
			postal = p.PostalCode
		}
	}
	return postal
}

func (s *Service) setDisplayNames(d *model.IndexedAddressPart) {
	reduction := d.Reduction
	if e, ok := s.reductions.Get(d.Level, d.Reduction); ok {
		reduction = e.Name
	}
	d.NameWithShortReduction = displayName(d.Level, d.ID, d.Reduction, d.Name)
	d.NameWithReduction = displayName(d.Level, d.ID, reduction, d.Name)
}

// Build resolves the staged records and replaces the content of w with them.
// Nothing is committed when ctx is cancelled before the commit.
func (s *Service) Build(ctx context.Context, staging *Staging, w DocumentWriter) (Result, error) {
	parts := s.Resolve(staging)
	orphans := staging.skipped[SkipOrphan]

	w.Clear()
	for i, d := range parts {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("build cancelled: %w", err)
			}
			if s.progress != nil {
				s.progress(i, len(parts))
			}
		}
		w.AddDocument(model.NewDocument(*d))
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("build cancelled: %w", err)
	}

	info, err := w.Commit()
	if err != nil {
		return Result{}, err
	}
	if s.progress != nil {
		s.progress(len(parts), len(parts))
	}

	s.logger.Info("address store built",
		"build_id", info.BuildID,
		"documents", len(parts),
		"staged", staging.Len(),
		"orphans", orphans)

	return Result{
		Commit:    info,
		Documents: len(parts),
		Orphans:   orphans,
	}, nil
}
