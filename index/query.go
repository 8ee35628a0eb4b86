package index

import (
	"strings"

	apperrors "github.com/iEmiya/ruaddress/internal/errors"
)

// Matches maps matching document ids to their score.
type Matches map[uint32]float64

// Query is evaluated against an inverted index.
type Query interface {
	Execute(ii *InvertedIndex) (Matches, error)
}

// TermQuery matches documents whose field contains Term exactly. Every match scores 1.
type TermQuery struct {
	Field string
	Term  string
}

func (q TermQuery) Execute(ii *InvertedIndex) (Matches, error) {
	out := make(Matches)
	for _, p := range ii.Postings(q.Field, q.Term) {
		out[p.DocID] = 1
	}
	return out, nil
}

// PrefixQuery matches documents containing a term that starts with Prefix.
// A document scores the BM25 weight of its best matching term.
type PrefixQuery struct {
	Field  string
	Prefix string
}

func (q PrefixQuery) Execute(ii *InvertedIndex) (Matches, error) {
	out := make(Matches)
	calc := NewBM25Calculator(ii, q.Field)
	for _, term := range ii.TermsWithPrefix(q.Field, q.Prefix) {
		for _, p := range ii.Postings(q.Field, term) {
			score := calc.Score(term, p.DocID, p.Freq)
			if best, seen := out[p.DocID]; !seen || score > best {
				out[p.DocID] = score
			}
		}
	}
	return out, nil
}

// WildcardQuery matches terms against Pattern where '?' stands for exactly one
// character. A pattern that starts with '?' scans the whole dictionary and is
// rejected unless AllowLeadingWildcard is set. Every match scores 1.
type WildcardQuery struct {
	Field                string
	Pattern              string
	AllowLeadingWildcard bool
}

func (q WildcardQuery) Execute(ii *InvertedIndex) (Matches, error) {
	literal := q.Pattern
	if i := strings.IndexByte(q.Pattern, '?'); i >= 0 {
		literal = q.Pattern[:i]
	}
	if literal == "" && q.Pattern != "" && !q.AllowLeadingWildcard {
		return nil, apperrors.ErrLeadingWildcard
	}

	pattern := []rune(q.Pattern)
	out := make(Matches)
	for _, term := range ii.TermsWithPrefix(q.Field, literal) {
		if !wildcardMatch(pattern, []rune(term)) {
			continue
		}
		for _, p := range ii.Postings(q.Field, term) {
			out[p.DocID] = 1
		}
	}
	return out, nil
}

func wildcardMatch(pattern, term []rune) bool {
	if len(pattern) != len(term) {
		return false
	}
	for i, r := range pattern {
		if r != '?' && r != term[i] {
			return false
		}
	}
	return true
}

// BooleanQuery combines clauses. Every Must clause has to match and the scores
// add up; Should clauses add to the score of documents matched by Must, or form
// a disjunction when there is no Must clause.
type BooleanQuery struct {
	Must   []Query
	Should []Query
}

func (q BooleanQuery) Execute(ii *InvertedIndex) (Matches, error) {
	var out Matches
	for i, clause := range q.Must {
		m, err := clause.Execute(ii)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			out = m
			continue
		}
		for id, score := range out {
			s, ok := m[id]
			if !ok {
				delete(out, id)
				continue
			}
			out[id] = score + s
		}
	}

	if len(q.Must) == 0 {
		out = make(Matches)
	}
	for _, clause := range q.Should {
		m, err := clause.Execute(ii)
		if err != nil {
			return nil, err
		}
		for id, s := range m {
			if score, ok := out[id]; ok {
				out[id] = score + s
			} else if len(q.Must) == 0 {
				out[id] = s
			}
		}
	}
	if out == nil {
		out = make(Matches)
	}
	return out, nil
}
