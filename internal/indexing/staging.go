package indexing

import (
	"log/slog"
	"sort"

	"github.com/iEmiya/ruaddress/internal/kladr"
	"github.com/iEmiya/ruaddress/model"
)

// Reasons a record is dropped during a rebuild.
const (
	SkipInvalidPostalCode = "invalid_postal_code"
	SkipInvalidCode       = "invalid_code"
	SkipInvalidLevel      = "invalid_level"
	SkipDuplicateID       = "duplicate_id"
	SkipOrphan            = "orphan"
)

// Staging holds the records of one rebuild, grouped by level and by id.
// It is not safe for concurrent use.
type Staging struct {
	logger  *slog.Logger
	byLevel map[int]map[string]*model.IndexedAddressPart
	byID    map[string]*model.IndexedAddressPart
	skipped map[string]int
	total   int
}

// NewStaging creates an empty staging area.
func NewStaging(logger *slog.Logger) *Staging {
	return &Staging{
		logger:  logger,
		byLevel: make(map[int]map[string]*model.IndexedAddressPart),
		byID:    make(map[string]*model.IndexedAddressPart),
		skipped: make(map[string]int),
	}
}

// Add stages records. Malformed records are logged and dropped; the rest of
// the batch is kept.
func (s *Staging) Add(records ...model.AddressRecord) {
	for _, r := range records {
		s.total++
		if reason, ok := s.validate(r); !ok {
			s.skip(reason, r)
			continue
		}

		if codeLevel, _ := kladr.Level(r.ID); codeLevel != r.Level {
			s.logger.Warn("declared level differs from code level",
				"code", r.ID, "declared_level", r.Level, "code_level", codeLevel)
		}

		part := &model.IndexedAddressPart{AddressRecord: r}
		level, ok := s.byLevel[r.Level]
		if !ok {
			level = make(map[string]*model.IndexedAddressPart)
			s.byLevel[r.Level] = level
		}
		level[r.ID] = part
		s.byID[r.ID] = part
	}
}

func (s *Staging) validate(r model.AddressRecord) (string, bool) {
	if r.PostalCode != "" && !kladr.ValidPostalCode(r.PostalCode) {
		return SkipInvalidPostalCode, false
	}
	if _, ok := kladr.Level(r.ID); !ok {
		return SkipInvalidCode, false
	}
	if r.Level < kladr.MinLevel || r.Level > kladr.MaxLevel {
		return SkipInvalidLevel, false
	}
	if _, dup := s.byID[r.ID]; dup {
		return SkipDuplicateID, false
	}
	return "", true
}

func (s *Staging) skip(reason string, r model.AddressRecord) {
	s.skipped[reason]++
	s.logger.Warn("record skipped", "reason", reason, "code", r.ID, "level", r.Level, "postal_code", r.PostalCode)
}

// reset clears the derived fields and the orphan count of a previous resolve.
func (s *Staging) reset() {
	delete(s.skipped, SkipOrphan)
	for _, p := range s.byID {
		p.SearchName = ""
		p.NameWithReduction = ""
		p.NameWithShortReduction = ""
		p.FullName = ""
	}
}

// Len returns the number of staged records.
func (s *Staging) Len() int { return len(s.byID) }

// Total returns the number of records offered to Add, including dropped ones.
func (s *Staging) Total() int { return s.total }

// Skipped returns the number of dropped records per reason.
func (s *Staging) Skipped() map[string]int {
	out := make(map[string]int, len(s.skipped))
	for k, v := range s.skipped {
		out[k] = v
	}
	return out
}

// Get returns the staged record with the given code.
func (s *Staging) Get(id string) (*model.IndexedAddressPart, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Level returns the records of one level ordered by code.
func (s *Staging) Level(level int) []*model.IndexedAddressPart {
	parts := make([]*model.IndexedAddressPart, 0, len(s.byLevel[level]))
	for _, p := range s.byLevel[level] {
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].ID < parts[j].ID })
	return parts
}
