package index

// PostingEntry represents a document that contains a term within one field.
type PostingEntry struct {
	DocID uint32 // Insertion position of the document in the store
	Freq  int    // Occurrences of the term in the field of this document
}

// PostingList is a slice of PostingEntry, sorted by DocID ascending after Compact.
type PostingList []PostingEntry
