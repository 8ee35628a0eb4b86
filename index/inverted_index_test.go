package index

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/iEmiya/ruaddress/internal/errors"
)

func buildIndex() *InvertedIndex {
	ii := NewInvertedIndex()
	ii.Add("id", 0, []string{"500000000000000"})
	ii.Add("searchName", 0, []string{"московская"})
	ii.Add("id", 1, []string{"500000010000000"})
	ii.Add("searchName", 1, []string{"московская", "балашиха"})
	ii.Add("id", 2, []string{"500000010000123"})
	ii.Add("searchName", 2, []string{"143900", "московская", "балашиха", "фадеева"})
	ii.Add("id", 3, []string{"770000000000000"})
	ii.Add("searchName", 3, []string{"москва"})
	ii.Compact()
	return ii
}

func TestInvertedIndexDictionary(t *testing.T) {
	ii := buildIndex()

	assert.Equal(t, 4, ii.TotalDocs())
	assert.Equal(t, []string{"москва", "московская"}, ii.TermsWithPrefix("searchName", "моск"))
	assert.Empty(t, ii.TermsWithPrefix("searchName", "тверь"))
	assert.Empty(t, ii.TermsWithPrefix("missing", "a"))
	assert.Equal(t, 3, ii.DocFreq("searchName", "московская"))
	assert.Equal(t, 4, ii.FieldLength("searchName", 2))
	assert.InDelta(t, 2.0, ii.AverageFieldLength("searchName"), 1e-9)
}

func TestInvertedIndexRepeatedTerm(t *testing.T) {
	ii := NewInvertedIndex()
	ii.Add("f", 0, []string{"a", "a", "b"})
	ii.Compact()

	pl := ii.Postings("f", "a")
	require.Len(t, pl, 1)
	assert.Equal(t, 2, pl[0].Freq)
}

func TestTermQuery(t *testing.T) {
	ii := buildIndex()
	m, err := TermQuery{Field: "id", Term: "500000010000000"}.Execute(ii)
	require.NoError(t, err)
	assert.Equal(t, Matches{1: 1}, m)
}

func TestPrefixQueryRanksShorterFieldsHigher(t *testing.T) {
	ii := buildIndex()
	m, err := PrefixQuery{Field: "searchName", Prefix: "балаш"}.Execute(ii)
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Greater(t, m[1], m[2])
}

func TestWildcardQuery(t *testing.T) {
	ii := buildIndex()

	m, err := WildcardQuery{Field: "id", Pattern: "50???0000000000"}.Execute(ii)
	require.NoError(t, err)
	assert.Equal(t, Matches{0: 1}, m)

	m, err = WildcardQuery{Field: "id", Pattern: "50000001???0000"}.Execute(ii)
	require.NoError(t, err)
	assert.Equal(t, Matches{1: 1}, m)

	m, err = WildcardQuery{Field: "id", Pattern: "50000001000????"}.Execute(ii)
	require.NoError(t, err)
	assert.Equal(t, Matches{1: 1, 2: 1}, m)

	_, err = WildcardQuery{Field: "id", Pattern: "??0000000000000"}.Execute(ii)
	assert.ErrorIs(t, err, apperrors.ErrLeadingWildcard)

	m, err = WildcardQuery{Field: "id", Pattern: "??0000000000000", AllowLeadingWildcard: true}.Execute(ii)
	require.NoError(t, err)
	assert.Equal(t, Matches{0: 1, 3: 1}, m)
}

func TestBooleanQuery(t *testing.T) {
	ii := buildIndex()

	must := BooleanQuery{Must: []Query{
		PrefixQuery{Field: "searchName", Prefix: "фадеев"},
		PrefixQuery{Field: "searchName", Prefix: "балаш"},
	}}
	m, err := must.Execute(ii)
	require.NoError(t, err)
	assert.Len(t, m, 1)
	assert.Contains(t, m, uint32(2))

	should := BooleanQuery{Should: []Query{
		TermQuery{Field: "id", Term: "500000000000000"},
		TermQuery{Field: "id", Term: "770000000000000"},
		TermQuery{Field: "id", Term: "000000000000000"},
	}}
	m, err = should.Execute(ii)
	require.NoError(t, err)
	assert.Equal(t, Matches{0: 1, 3: 1}, m)

	m, err = BooleanQuery{}.Execute(ii)
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = BooleanQuery{Should: []Query{WildcardQuery{Field: "id", Pattern: "?"}}}.Execute(ii)
	assert.Error(t, err)
}

func TestInvertedIndexGob(t *testing.T) {
	ii := buildIndex()

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(ii))

	decoded := NewInvertedIndex()
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))
	assert.Equal(t, ii.TotalDocs(), decoded.TotalDocs())
	assert.Equal(t, ii.TermsWithPrefix("searchName", "моск"), decoded.TermsWithPrefix("searchName", "моск"))
	assert.Equal(t, ii.Postings("id", "770000000000000"), decoded.Postings("id", "770000000000000"))
}
