package model

import (
	"strconv"
)

// Stored field names of an address document.
const (
	FieldID                     = "id"
	FieldPostalCode             = "postalCode"
	FieldSearchName             = "searchName"
	FieldLevel                  = "lvl"
	FieldReduction              = "reduction"
	FieldName                   = "name"
	FieldNameWithShortReduction = "name_short_reduction"
	FieldNameWithReduction      = "name_reduction"
	FieldFullName               = "fullName"
)

// Document is the flat stored form of an address part: field name to value.
type Document map[string]string

// NewDocument converts a resolved address part to its stored form.
func NewDocument(p IndexedAddressPart) Document {
	return Document{
		FieldID:                     p.ID,
		FieldPostalCode:             p.PostalCode,
		FieldSearchName:             p.SearchName,
		FieldLevel:                  strconv.Itoa(p.Level),
		FieldReduction:              p.Reduction,
		FieldName:                   p.Name,
		FieldNameWithShortReduction: p.NameWithShortReduction,
		FieldNameWithReduction:      p.NameWithReduction,
		FieldFullName:               p.FullName,
	}
}

// GetID returns the classifier code stored under "id".
func (d Document) GetID() (string, bool) {
	id, ok := d[FieldID]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// GetLevel returns the stored level, or 0 if absent or malformed.
func (d Document) GetLevel() int {
	lvl, err := strconv.Atoi(d[FieldLevel])
	if err != nil {
		return 0
	}
	return lvl
}

// AddressPart builds the query-time view of the document.
func (d Document) AddressPart() AddressPart {
	return AddressPart{
		Level:                  d.GetLevel(),
		ID:                     d[FieldID],
		Reduction:              d[FieldReduction],
		Name:                   d[FieldName],
		NameWithShortReduction: d[FieldNameWithShortReduction],
		NameWithReduction:      d[FieldNameWithReduction],
	}
}

// SearchResult builds the search hit view of the document.
func (d Document) SearchResult(score float64) SearchResult {
	return SearchResult{
		AddressPart: d.AddressPart(),
		PostalCode:  d[FieldPostalCode],
		FullName:    d[FieldFullName],
		Score:       score,
	}
}
