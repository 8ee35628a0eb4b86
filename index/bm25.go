package index

import (
	"math"
)

// BM25 parameters
const (
	bm25K1 = 1.2  // Controls term frequency saturation
	bm25B  = 0.75 // Controls how much effect document length has
)

// BM25Calculator handles BM25 score calculations for one field of an index
type BM25Calculator struct {
	index *InvertedIndex
	field string
	avgdl float64
	total float64
}

// NewBM25Calculator creates a new BM25 calculator
func NewBM25Calculator(ii *InvertedIndex, field string) *BM25Calculator {
	return &BM25Calculator{
		index: ii,
		field: field,
		avgdl: ii.AverageFieldLength(field),
		total: float64(ii.TotalDocs()),
	}
}

// calculateIDF calculates the inverse document frequency
// IDF = log(1 + (N - df + 0.5) / (df + 0.5)), which stays positive for common terms
func (calc *BM25Calculator) calculateIDF(term string) float64 {
	if calc.total == 0 {
		return 0.0
	}
	docFreq := float64(calc.index.DocFreq(calc.field, term))
	if docFreq == 0 {
		return 0.0
	}
	return math.Log(1 + (calc.total-docFreq+0.5)/(docFreq+0.5))
}

// Score calculates BM25 score with document length normalization
// BM25 = IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * (|d| / avgdl)))
func (calc *BM25Calculator) Score(term string, docID uint32, termFreq int) float64 {
	if termFreq == 0 || calc.avgdl == 0 {
		return 0.0
	}
	idf := calc.calculateIDF(term)
	docLength := float64(calc.index.FieldLength(calc.field, docID))

	tf := float64(termFreq)
	bm25TF := (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*(docLength/calc.avgdl)))
	return idf * bm25TF
}
