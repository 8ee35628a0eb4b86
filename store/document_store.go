package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/iEmiya/ruaddress/model"
)

// DocumentStore holds stored documents addressed by their insertion position.
type DocumentStore struct {
	Mu   sync.RWMutex
	Docs []model.Document
}

// gobDocumentStoreData is a helper struct for Gob encoding/decoding DocumentStore data.
// It excludes the mutex.
type gobDocumentStoreData struct {
	Docs []model.Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Add appends a document and returns its internal id.
func (ds *DocumentStore) Add(doc model.Document) uint32 {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	stored := make(model.Document, len(doc))
	for k, v := range doc {
		stored[k] = v
	}
	ds.Docs = append(ds.Docs, stored)
	return uint32(len(ds.Docs) - 1) // #nosec G115 -- document count is bounded well below 2^32
}

// Get returns a copy of the document with the given internal id.
func (ds *DocumentStore) Get(id uint32) (model.Document, bool) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	if int(id) >= len(ds.Docs) {
		return nil, false
	}
	out := make(model.Document, len(ds.Docs[id]))
	for k, v := range ds.Docs[id] {
		out[k] = v
	}
	return out, true
}

// Len returns the number of stored documents.
func (ds *DocumentStore) Len() int {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	return len(ds.Docs)
}

// GobEncode implements the gob.GobEncoder interface for DocumentStore.
func (ds *DocumentStore) GobEncode() ([]byte, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(gobDocumentStoreData{Docs: ds.Docs}); err != nil {
		return nil, fmt.Errorf("failed to gob encode document store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for DocumentStore.
func (ds *DocumentStore) GobDecode(data []byte) error {
	decodedData := gobDocumentStoreData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode document store data: %w", err)
	}

	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	ds.Docs = decodedData.Docs
	// gob drops empty maps inside slices; restore them so lookups stay safe
	for i, doc := range ds.Docs {
		if doc == nil {
			ds.Docs[i] = model.Document{}
		}
	}
	return nil
}
