package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/iEmiya/ruaddress/index"
	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	"github.com/iEmiya/ruaddress/internal/persistence"
	"github.com/iEmiya/ruaddress/model"
)

// ScoreDoc is one hit of a query.
type ScoreDoc struct {
	Doc   uint32
	Score float64
}

// TopDocs holds every hit of a query, best first.
type TopDocs struct {
	TotalHits int
	ScoreDocs []ScoreDoc
}

// Reader is a read handle on a committed store. It never changes after Open
// and is safe for concurrent use.
type Reader struct {
	mu     sync.RWMutex
	dir    string
	seg    *Segment
	closed bool
}

// Exists reports whether dir holds a committed store.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, SegmentFileName))
	return err == nil && !info.IsDir()
}

// Open loads the committed store in dir. A missing directory or segment
// yields a StoreNotFoundError.
func Open(dir string) (*Reader, error) {
	seg := &Segment{}
	err := persistence.LoadGob(filepath.Join(dir, SegmentFileName), seg)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NewStoreNotFoundError(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if seg.Docs == nil {
		seg.Docs = NewDocumentStore()
	}
	if seg.Index == nil {
		seg.Index = index.NewInvertedIndex()
	}
	return &Reader{dir: dir, seg: seg}, nil
}

// Dir returns the store directory.
func (r *Reader) Dir() string { return r.dir }

// BuildID returns the id stamped on the segment at commit.
func (r *Reader) BuildID() string { return r.seg.BuildID }

// CreatedAt returns the commit time of the segment.
func (r *Reader) CreatedAt() time.Time { return r.seg.CreatedAt }

// NumDocs returns the number of stored documents.
func (r *Reader) NumDocs() int { return r.seg.Docs.Len() }

// Search runs q and returns all hits ordered by score descending, then by
// insertion order.
func (r *Reader) Search(q index.Query) (TopDocs, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return TopDocs{}, nil
	}

	matches, err := q.Execute(r.seg.Index)
	if err != nil {
		return TopDocs{}, err
	}
	hits := make([]ScoreDoc, 0, len(matches))
	for doc, score := range matches {
		hits = append(hits, ScoreDoc{Doc: doc, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Doc < hits[j].Doc
	})
	return TopDocs{TotalHits: len(hits), ScoreDocs: hits}, nil
}

// Doc fetches a stored document. It reports false for unknown ids and after Close.
func (r *Reader) Doc(id uint32) (model.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, false
	}
	return r.seg.Docs.Get(id)
}

// Close releases the handle. Further queries see an empty store.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
