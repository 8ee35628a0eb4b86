package store

import (
	"sort"

	"github.com/iEmiya/ruaddress/internal/tokenizer"
	"github.com/iEmiya/ruaddress/model"
)

// FieldKind tells the writer how a field is indexed.
type FieldKind int

const (
	// Stored fields are kept with the document but not indexed.
	Stored FieldKind = iota
	// Exact fields are indexed as a single untokenized term.
	Exact
	// Tokenized fields are split into lowercase word terms.
	Tokenized
)

// Schema maps field names to their kind. Fields not listed are stored only.
type Schema map[string]FieldKind

// AddressSchema is the layout of the address store.
func AddressSchema() Schema {
	return Schema{
		model.FieldID:         Exact,
		model.FieldPostalCode: Exact,
		model.FieldSearchName: Tokenized,
	}
}

// indexedFields returns the indexed field names in a stable order.
func (s Schema) indexedFields() []string {
	fields := make([]string, 0, len(s))
	for name, kind := range s {
		if kind != Stored {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}

// terms returns the index terms for a field value.
func (s Schema) terms(field, value string) []string {
	if value == "" {
		return nil
	}
	switch s[field] {
	case Exact:
		return []string{value}
	case Tokenized:
		return tokenizer.Tokenize(value)
	default:
		return nil
	}
}
