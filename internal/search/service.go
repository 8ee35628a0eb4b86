package search

import (
	"errors"
	"iter"
	"log/slog"
	"sort"
	"sync"

	"github.com/iEmiya/ruaddress/index"
	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	"github.com/iEmiya/ruaddress/internal/kladr"
	"github.com/iEmiya/ruaddress/internal/tokenizer"
	"github.com/iEmiya/ruaddress/model"
	"github.com/iEmiya/ruaddress/store"
)

// ReductionGetter resolves an abbreviation to its canonical entry.
type ReductionGetter interface {
	Get(level int, short string) (model.ReductionEntry, bool)
}

// Service implements the address query engine over one store directory.
// The read handle is opened on the first query and kept until Close or Reset.
// Queries never fail: a missing store, bad input or no match produce an
// empty sequence or ok == false.
type Service struct {
	dir        string
	reductions ReductionGetter
	logger     *slog.Logger

	mu     sync.Mutex
	reader *store.Reader
}

// NewService creates a query engine for the store in dir.
func NewService(dir string, reductions ReductionGetter, logger *slog.Logger) *Service {
	return &Service{dir: dir, reductions: reductions, logger: logger}
}

// searcher returns the cached read handle, opening it on first use.
// A failed open is not cached so a store committed later is picked up.
func (s *Service) searcher() *store.Reader {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reader != nil {
		return s.reader
	}
	r, err := store.Open(s.dir)
	if err != nil {
		if errors.Is(err, apperrors.ErrStoreNotFound) {
			s.logger.Debug("address store not available", "dir", s.dir)
		} else {
			s.logger.Warn("failed to open address store", "dir", s.dir, "error", err)
		}
		return nil
	}
	s.reader = r
	s.logger.Debug("address store opened", "dir", s.dir, "build_id", r.BuildID(), "documents", r.NumDocs())
	return r
}

// BuildID returns the build id of the open store, or "" when there is none.
func (s *Service) BuildID() string {
	if r := s.searcher(); r != nil {
		return r.BuildID()
	}
	return ""
}

// Reset drops the cached read handle; the next query opens the store again.
// The old handle stays open so sequences already reading it run to the end.
func (s *Service) Reset() {
	s.mu.Lock()
	s.reader = nil
	s.mu.Unlock()
}

// Close releases the read handle. Sequences produced earlier yield nothing more.
func (s *Service) Close() error {
	s.mu.Lock()
	old := s.reader
	s.reader = nil
	s.mu.Unlock()

	if old != nil {
		return old.Close()
	}
	return nil
}

func (s *Service) run(r *store.Reader, q index.Query, op string) (store.TopDocs, bool) {
	top, err := r.Search(q)
	if err != nil {
		s.logger.Warn("query failed", "op", op, "error", err)
		return store.TopDocs{}, false
	}
	return top, true
}

// Search returns the parts whose search name has, for every word of text, a
// word starting with it. Hits are ordered by relevance.
func (s *Service) Search(text string) iter.Seq[model.SearchResult] {
	tokens := tokenizer.UniqueTokens(text)
	if len(tokens) == 0 {
		return empty[model.SearchResult]()
	}
	r := s.searcher()
	if r == nil {
		return empty[model.SearchResult]()
	}

	must := make([]index.Query, 0, len(tokens))
	for _, tok := range tokens {
		must = append(must, index.PrefixQuery{Field: model.FieldSearchName, Prefix: tok})
	}
	top, ok := s.run(r, index.BooleanQuery{Must: must}, "search")
	if !ok {
		return empty[model.SearchResult]()
	}

	return once(func(yield func(model.SearchResult) bool) {
		for no, hit := range top.ScoreDocs {
			doc, ok := r.Doc(hit.Doc)
			if !ok {
				return
			}
			res := doc.SearchResult(hit.Score)
			res.Info = &model.HitInfo{Position: no, TotalHits: top.TotalHits}
			if !yield(res) {
				return
			}
		}
	})
}

// GetByCode resolves a code to its ancestor chain, ordered by ascending level.
// The postal code is taken from the deepest part that has one.
func (s *Service) GetByCode(code string) (model.ParsedAddress, bool) {
	normalized, err := kladr.Normalize(code)
	if err != nil {
		s.logger.Warn("no classifier level for code", "code", code)
		return model.ParsedAddress{}, false
	}
	r := s.searcher()
	if r == nil {
		return model.ParsedAddress{}, false
	}
	return s.getByCode(r, normalized)
}

func (s *Service) getByCode(r *store.Reader, code string) (model.ParsedAddress, bool) {
	ancestors := kladr.Ancestors(code)
	should := make([]index.Query, 0, len(ancestors))
	for _, id := range ancestors {
		should = append(should, index.TermQuery{Field: model.FieldID, Term: id})
	}
	top, ok := s.run(r, index.BooleanQuery{Should: should}, "code")
	if !ok || top.TotalHits == 0 {
		return model.ParsedAddress{}, false
	}

	var addr model.ParsedAddress
	postalLevel := 0
	for _, hit := range top.ScoreDocs {
		doc, ok := r.Doc(hit.Doc)
		if !ok {
			return model.ParsedAddress{}, false
		}
		part := doc.AddressPart()
		addr.Parts = append(addr.Parts, part)
		if postal := doc[model.FieldPostalCode]; postal != "" && part.Level > postalLevel {
			addr.PostalCode = postal
			postalLevel = part.Level
		}
	}
	sort.SliceStable(addr.Parts, func(i, j int) bool { return addr.Parts[i].Level < addr.Parts[j].Level })
	return addr, true
}

// leafHits runs the postal code query shared by GetByIndex and GetByIndexForSearch.
func (s *Service) leafHits(postalCode string) (*store.Reader, store.TopDocs, bool) {
	if postalCode == "" {
		return nil, store.TopDocs{}, false
	}
	if !kladr.ValidPostalCode(postalCode) {
		s.logger.Warn("value is not a postal code", "value", postalCode)
		return nil, store.TopDocs{}, false
	}
	r := s.searcher()
	if r == nil {
		return nil, store.TopDocs{}, false
	}
	top, ok := s.run(r, index.TermQuery{Field: model.FieldPostalCode, Term: postalCode}, "postal")
	return r, top, ok
}

// GetByIndex yields the full address of every street carrying postalCode.
func (s *Service) GetByIndex(postalCode string) iter.Seq[model.ParsedAddress] {
	r, top, ok := s.leafHits(postalCode)
	if !ok {
		return empty[model.ParsedAddress]()
	}

	return once(func(yield func(model.ParsedAddress) bool) {
		for no, hit := range top.ScoreDocs {
			doc, ok := r.Doc(hit.Doc)
			if !ok {
				return
			}
			if doc.GetLevel() != kladr.MaxLevel {
				continue
			}
			addr, ok := s.getByCode(r, doc[model.FieldID])
			if !ok {
				continue
			}
			addr.Info = &model.HitInfo{Position: no, TotalHits: top.TotalHits}
			if !yield(addr) {
				return
			}
		}
	})
}

// GetByIndexForSearch yields every street carrying postalCode as a search hit.
func (s *Service) GetByIndexForSearch(postalCode string) iter.Seq[model.SearchResult] {
	r, top, ok := s.leafHits(postalCode)
	if !ok {
		return empty[model.SearchResult]()
	}

	return once(func(yield func(model.SearchResult) bool) {
		for no, hit := range top.ScoreDocs {
			doc, ok := r.Doc(hit.Doc)
			if !ok {
				return
			}
			if doc.GetLevel() != kladr.MaxLevel {
				continue
			}
			res := doc.SearchResult(hit.Score)
			res.Info = &model.HitInfo{Position: no, TotalHits: top.TotalHits}
			if !yield(res) {
				return
			}
		}
	})
}

// GetByLevel yields the codes sharing code's parent at code's own level.
func (s *Service) GetByLevel(code string) iter.Seq[model.AddressPart] {
	return s.walk(code, "level", kladr.LevelPattern, func(level int) int { return level - 1 })
}

// GetChildren yields the codes at the first populated level below code.
func (s *Service) GetChildren(code string) iter.Seq[model.AddressPart] {
	return s.walk(code, "children", kladr.ChildrenPattern, func(level int) int { return level })
}

// walk widens the wildcard pattern one level at a time until a query has at
// least two hits. A single hit is the anchor record itself, which matches
// its own pattern, so the level is treated as absent in this branch. The hits
// of the first populated level are filtered to the target level computed by
// target from the advanced level.
func (s *Service) walk(
	code, op string,
	pattern func(level int, code string) (string, bool),
	target func(level int) int,
) iter.Seq[model.AddressPart] {
	normalized, err := kladr.Normalize(code)
	if err != nil {
		s.logger.Warn("no classifier level for code", "code", code)
		return empty[model.AddressPart]()
	}
	level, _ := kladr.Level(normalized)
	r := s.searcher()
	if r == nil {
		return empty[model.AddressPart]()
	}

	for {
		p, ok := pattern(level, normalized)
		if !ok {
			return empty[model.AddressPart]()
		}
		level++
		q := index.WildcardQuery{
			Field:                model.FieldID,
			Pattern:              p,
			AllowLeadingWildcard: level-1 == kladr.MinLevel,
		}
		top, ok := s.run(r, q, op)
		if !ok {
			return empty[model.AddressPart]()
		}
		if top.TotalHits < 2 {
			continue
		}

		want := target(level)
		return once(func(yield func(model.AddressPart) bool) {
			for no, hit := range top.ScoreDocs {
				doc, ok := r.Doc(hit.Doc)
				if !ok {
					return
				}
				if doc.GetLevel() != want {
					continue
				}
				part := doc.AddressPart()
				part.Info = &model.HitInfo{Position: no, TotalHits: top.TotalHits}
				if !yield(part) {
					return
				}
			}
		})
	}
}

// GetReduction returns the canonical entry for the reduction of part.
func (s *Service) GetReduction(part model.AddressPart) (model.ReductionEntry, bool) {
	return s.reductions.Get(part.Level, part.Reduction)
}
