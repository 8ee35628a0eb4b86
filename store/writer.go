package store

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/iEmiya/ruaddress/index"
	"github.com/iEmiya/ruaddress/internal/persistence"
	"github.com/iEmiya/ruaddress/model"
)

// SegmentFileName is the file holding a committed store inside its directory.
const SegmentFileName = "segment.gob"

// Segment is the persisted form of a committed store.
type Segment struct {
	BuildID   string
	CreatedAt time.Time
	Docs      *DocumentStore
	Index     *index.InvertedIndex
}

// CommitInfo describes a successful commit.
type CommitInfo struct {
	BuildID   string
	CreatedAt time.Time
	Documents int
}

// Writer accumulates documents in memory and publishes them with a single
// Commit. A Writer is not safe for concurrent use.
type Writer struct {
	dir    string
	schema Schema
	docs   *DocumentStore
	idx    *index.InvertedIndex
	now    func() time.Time
}

// NewWriter creates a writer for the store in dir. Nothing touches the
// directory until Commit.
func NewWriter(dir string, schema Schema) *Writer {
	w := &Writer{dir: dir, schema: schema, now: time.Now}
	w.Clear()
	return w
}

// Clear drops every pending document. A rebuild always starts from an empty store.
func (w *Writer) Clear() {
	w.docs = NewDocumentStore()
	w.idx = index.NewInvertedIndex()
}

// AddDocument stores doc and indexes the fields listed in the schema.
func (w *Writer) AddDocument(doc model.Document) uint32 {
	id := w.docs.Add(doc)
	for _, field := range w.schema.indexedFields() {
		w.idx.Add(field, id, w.schema.terms(field, doc[field]))
	}
	return id
}

// Pending returns the number of documents added since the last Clear.
func (w *Writer) Pending() int {
	return w.docs.Len()
}

// Commit compacts the index and atomically replaces the segment in the
// store directory.
func (w *Writer) Commit() (CommitInfo, error) {
	w.idx.SetDocCount(w.docs.Len())
	w.idx.Compact()

	seg := Segment{
		BuildID:   uuid.NewString(),
		CreatedAt: w.now().UTC(),
		Docs:      w.docs,
		Index:     w.idx,
	}
	path := filepath.Join(w.dir, SegmentFileName)
	if err := persistence.SaveGob(path, &seg); err != nil {
		return CommitInfo{}, fmt.Errorf("failed to commit store: %w", err)
	}
	return CommitInfo{BuildID: seg.BuildID, CreatedAt: seg.CreatedAt, Documents: w.docs.Len()}, nil
}
