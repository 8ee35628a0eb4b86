package model

import (
	"strings"
)

// AddressRecord is a single classifier row as produced by an ingestion source.
// Level and code normalization are already applied.
type AddressRecord struct {
	ID         string `json:"id"`
	Level      int    `json:"level"`
	Name       string `json:"name"`
	Reduction  string `json:"reduction"`
	PostalCode string `json:"postal_code,omitempty"`
}

// IndexedAddressPart is an AddressRecord with the fields derived by the
// hierarchy builder.
type IndexedAddressPart struct {
	AddressRecord

	SearchName             string `json:"search_name"`
	NameWithReduction      string `json:"name_with_reduction"`
	NameWithShortReduction string `json:"name_with_short_reduction"`
	FullName               string `json:"full_name"`
}

// HitInfo marks an element of a result sequence with its position and the
// total number of hits of the query that produced it.
type HitInfo struct {
	Position  int `json:"position"`
	TotalHits int `json:"total_hits"`
}

// AddressPart is one level of a resolved address.
type AddressPart struct {
	Level                  int      `json:"level"`
	ID                     string   `json:"id"`
	Reduction              string   `json:"reduction"`
	Name                   string   `json:"name"`
	NameWithShortReduction string   `json:"name_with_short_reduction"`
	NameWithReduction      string   `json:"name_with_reduction"`
	Info                   *HitInfo `json:"info,omitempty"`
}

func (p AddressPart) String() string {
	return p.NameWithReduction
}

// ParsedAddress is the ancestor chain of one code, ordered by ascending level.
type ParsedAddress struct {
	PostalCode string        `json:"postal_code,omitempty"`
	Parts      []AddressPart `json:"parts"`
	Info       *HitInfo      `json:"info,omitempty"`
}

// Last returns the deepest part of the chain.
func (a ParsedAddress) Last() (AddressPart, bool) {
	if len(a.Parts) == 0 {
		return AddressPart{}, false
	}
	return a.Parts[len(a.Parts)-1], true
}

// String renders the address as "postal, part, part, ...".
func (a ParsedAddress) String() string {
	items := make([]string, 0, len(a.Parts)+1)
	if a.PostalCode != "" {
		items = append(items, a.PostalCode)
	}
	for _, p := range a.Parts {
		items = append(items, p.String())
	}
	return strings.Join(items, ", ")
}

// SearchResult is a stored address part as returned by free-text and postal
// searches, with its own postal code and the composed full name.
type SearchResult struct {
	AddressPart
	PostalCode string  `json:"postal_code,omitempty"`
	FullName   string  `json:"full_name"`
	Score      float64 `json:"score"`
}

// ReductionEntry maps an abbreviation at a level to its canonical name.
// Field names double as the header of the persisted reduction table.
type ReductionEntry struct {
	Level int    `json:"level"`
	Short string `json:"short"`
	Name  string `json:"name"`
}
