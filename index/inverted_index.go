package index

import (
	"bytes"
	"encoding/gob"
	"sort"
	"sync"
)

// FieldIndex is the term dictionary of a single field.
type FieldIndex struct {
	Terms       []string               // Sorted term dictionary, valid after Compact
	Postings    map[string]PostingList // Term to documents containing it
	Lengths     map[uint32]int         // Number of terms per document
	TotalLength int
}

func newFieldIndex() *FieldIndex {
	return &FieldIndex{
		Postings: make(map[string]PostingList),
		Lengths:  make(map[uint32]int),
	}
}

// InvertedIndex maps, per field, a term to the list of documents containing it.
type InvertedIndex struct {
	Mu       sync.RWMutex
	Fields   map[string]*FieldIndex
	DocCount int
}

// gobInvertedIndexData is a helper struct for Gob encoding/decoding InvertedIndex data.
// It excludes the mutex.
type gobInvertedIndexData struct {
	Fields   map[string]*FieldIndex
	DocCount int
}

// NewInvertedIndex creates an empty index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{Fields: make(map[string]*FieldIndex)}
}

// Add records the terms of one field of a document. Calling Add for the same
// document and field again extends the field.
func (ii *InvertedIndex) Add(field string, docID uint32, terms []string) {
	if len(terms) == 0 {
		return
	}
	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	fi, ok := ii.Fields[field]
	if !ok {
		fi = newFieldIndex()
		ii.Fields[field] = fi
	}
	for _, term := range terms {
		pl := fi.Postings[term]
		if n := len(pl); n > 0 && pl[n-1].DocID == docID {
			pl[n-1].Freq++
		} else {
			if n == 0 {
				fi.Terms = append(fi.Terms, term)
			}
			pl = append(pl, PostingEntry{DocID: docID, Freq: 1})
		}
		fi.Postings[term] = pl
	}
	fi.Lengths[docID] += len(terms)
	fi.TotalLength += len(terms)
	if int(docID)+1 > ii.DocCount {
		ii.DocCount = int(docID) + 1
	}
}

// SetDocCount raises the document count to n. Documents without indexed
// fields still count towards collection statistics.
func (ii *InvertedIndex) SetDocCount(n int) {
	ii.Mu.Lock()
	defer ii.Mu.Unlock()
	if n > ii.DocCount {
		ii.DocCount = n
	}
}

// Compact sorts every term dictionary and posting list. It must run before
// the index is queried.
func (ii *InvertedIndex) Compact() {
	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	for _, fi := range ii.Fields {
		sort.Strings(fi.Terms)
		for term, pl := range fi.Postings {
			sort.Slice(pl, func(i, j int) bool { return pl[i].DocID < pl[j].DocID })
			fi.Postings[term] = pl[:len(pl):len(pl)]
		}
	}
}

// Postings returns the posting list of an exact term.
func (ii *InvertedIndex) Postings(field, term string) PostingList {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()

	fi, ok := ii.Fields[field]
	if !ok {
		return nil
	}
	return fi.Postings[term]
}

// TermsWithPrefix returns the dictionary terms of field that start with prefix,
// in sorted order.
func (ii *InvertedIndex) TermsWithPrefix(field, prefix string) []string {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()

	fi, ok := ii.Fields[field]
	if !ok {
		return nil
	}
	var out []string
	for i := sort.SearchStrings(fi.Terms, prefix); i < len(fi.Terms); i++ {
		if len(fi.Terms[i]) < len(prefix) || fi.Terms[i][:len(prefix)] != prefix {
			break
		}
		out = append(out, fi.Terms[i])
	}
	return out
}

// DocFreq returns the number of documents whose field contains term.
func (ii *InvertedIndex) DocFreq(field, term string) int {
	return len(ii.Postings(field, term))
}

// FieldLength returns the number of terms of field in a document.
func (ii *InvertedIndex) FieldLength(field string, docID uint32) int {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()

	fi, ok := ii.Fields[field]
	if !ok {
		return 0
	}
	return fi.Lengths[docID]
}

// AverageFieldLength returns the mean field length over all documents.
func (ii *InvertedIndex) AverageFieldLength(field string) float64 {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()

	fi, ok := ii.Fields[field]
	if !ok || ii.DocCount == 0 {
		return 0
	}
	return float64(fi.TotalLength) / float64(ii.DocCount)
}

// TotalDocs returns the number of documents known to the index.
func (ii *InvertedIndex) TotalDocs() int {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()
	return ii.DocCount
}

// GobEncode implements the gob.GobEncoder interface for InvertedIndex.
func (ii *InvertedIndex) GobEncode() ([]byte, error) {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()

	dataToEncode := gobInvertedIndexData{
		Fields:   ii.Fields,
		DocCount: ii.DocCount,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for InvertedIndex.
func (ii *InvertedIndex) GobDecode(data []byte) error {
	decodedData := gobInvertedIndexData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	ii.Fields = decodedData.Fields
	ii.DocCount = decodedData.DocCount

	// Ensure maps are initialized if they were nil after decoding (e.g. from an empty index)
	if ii.Fields == nil {
		ii.Fields = make(map[string]*FieldIndex)
	}
	for _, fi := range ii.Fields {
		if fi.Postings == nil {
			fi.Postings = make(map[string]PostingList)
		}
		if fi.Lengths == nil {
			fi.Lengths = make(map[uint32]int)
		}
	}
	return nil
}
