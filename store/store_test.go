package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iEmiya/ruaddress/index"
	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	"github.com/iEmiya/ruaddress/model"
)

func addressDoc(id, lvl, postal, searchName string) model.Document {
	return model.Document{
		model.FieldID:         id,
		model.FieldLevel:      lvl,
		model.FieldPostalCode: postal,
		model.FieldSearchName: searchName,
	}
}

func commitSample(t *testing.T, dir string) CommitInfo {
	t.Helper()
	w := NewWriter(dir, AddressSchema())
	w.AddDocument(addressDoc("500000000000000", "1", "", "московская"))
	w.AddDocument(addressDoc("500000010000000", "3", "", "московская балашиха"))
	w.AddDocument(addressDoc("500000010000123", "5", "143900", "143900 московская балашиха фадеева"))
	require.Equal(t, 3, w.Pending())

	info, err := w.Commit()
	require.NoError(t, err)
	return info
}

func TestWriterCommitAndOpen(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(dir))

	info := commitSample(t, dir)
	assert.Equal(t, 3, info.Documents)
	assert.NotEmpty(t, info.BuildID)
	assert.True(t, Exists(dir))

	r, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, info.BuildID, r.BuildID())
	assert.Equal(t, 3, r.NumDocs())
	assert.Equal(t, dir, r.Dir())

	top, err := r.Search(index.TermQuery{Field: model.FieldPostalCode, Term: "143900"})
	require.NoError(t, err)
	require.Equal(t, 1, top.TotalHits)

	doc, ok := r.Doc(top.ScoreDocs[0].Doc)
	require.True(t, ok)
	assert.Equal(t, "500000010000123", doc[model.FieldID])
	assert.Equal(t, 5, doc.GetLevel())
}

func TestEmptyPostalCodeIsNotIndexed(t *testing.T) {
	dir := t.TempDir()
	commitSample(t, dir)

	r, err := Open(dir)
	require.NoError(t, err)

	top, err := r.Search(index.TermQuery{Field: model.FieldPostalCode, Term: ""})
	require.NoError(t, err)
	assert.Zero(t, top.TotalHits)
}

func TestSearchOrdersByScoreThenInsertion(t *testing.T) {
	dir := t.TempDir()
	commitSample(t, dir)

	r, err := Open(dir)
	require.NoError(t, err)

	top, err := r.Search(index.WildcardQuery{Field: model.FieldID, Pattern: "5000000?0000000"})
	require.NoError(t, err)
	require.Equal(t, 2, top.TotalHits)
	assert.Equal(t, uint32(0), top.ScoreDocs[0].Doc)
	assert.Equal(t, uint32(1), top.ScoreDocs[1].Doc)

	top, err = r.Search(index.PrefixQuery{Field: model.FieldSearchName, Prefix: "балаш"})
	require.NoError(t, err)
	require.Equal(t, 2, top.TotalHits)
	assert.Equal(t, uint32(1), top.ScoreDocs[0].Doc)
}

func TestCommitReplacesPreviousSegment(t *testing.T) {
	dir := t.TempDir()
	first := commitSample(t, dir)
	second := commitSample(t, dir)
	assert.NotEqual(t, first.BuildID, second.BuildID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SegmentFileName, entries[0].Name())

	r, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, second.BuildID, r.BuildID())
	assert.Equal(t, 3, r.NumDocs())
}

func TestOpenMissingStore(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, apperrors.ErrStoreNotFound)
}

func TestClosedReaderReturnsNothing(t *testing.T) {
	dir := t.TempDir()
	commitSample(t, dir)

	r, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	top, err := r.Search(index.TermQuery{Field: model.FieldID, Term: "500000000000000"})
	require.NoError(t, err)
	assert.Zero(t, top.TotalHits)

	_, ok := r.Doc(0)
	assert.False(t, ok)
}
