package reduction

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	testutil "github.com/iEmiya/ruaddress/internal/testing"
	"github.com/iEmiya/ruaddress/model"
)

func TestLookupGet(t *testing.T) {
	l, err := New(testutil.Reductions())
	require.NoError(t, err)
	assert.Equal(t, len(testutil.Reductions()), l.Len())

	e, ok := l.Get(1, "респ")
	require.True(t, ok)
	assert.Equal(t, "Республика", e.Name)

	e, ok = l.Get(1, "РЕСП")
	require.True(t, ok)
	assert.Equal(t, "Респ", e.Short)

	_, ok = l.Get(2, "Респ")
	assert.False(t, ok, "entries are scoped to their level")

	_, ok = l.Get(1, "unknown")
	assert.False(t, ok)

	var nilLookup *Lookup
	_, ok = nilLookup.Get(1, "Респ")
	assert.False(t, ok)
}

func TestLookupDuplicate(t *testing.T) {
	_, err := New([]model.ReductionEntry{
		{Level: 1, Short: "обл", Name: "Область"},
		{Level: 1, Short: "ОБЛ", Name: "Область"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateReduction)

	_, err = New([]model.ReductionEntry{
		{Level: 1, Short: "обл", Name: "Область"},
		{Level: 2, Short: "обл", Name: "Область"},
	})
	assert.NoError(t, err)
}

func TestLookupEmptyShort(t *testing.T) {
	_, err := New([]model.ReductionEntry{{Level: 1, Short: "", Name: "Область"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestLookupEntriesOrdered(t *testing.T) {
	l, err := New([]model.ReductionEntry{
		{Level: 2, Short: "р-н", Name: "Район"},
		{Level: 1, Short: "обл", Name: "Область"},
		{Level: 1, Short: "край", Name: "Край"},
	})
	require.NoError(t, err)

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "край", entries[0].Short)
	assert.Equal(t, "обл", entries[1].Short)
	assert.Equal(t, 2, entries[2].Level)
}

func TestWriteFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []model.ReductionEntry{
		{Level: 1, Short: "АО", Name: `Автономный "округ"`},
	}))
	assert.Equal(t,
		"\"Level\";\"Short\";\"Name\"\r\n\"1\";\"АО\";\"Автономный \"\"округ\"\"\"\r\n",
		buf.String())

	entries, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, `Автономный "округ"`, entries[0].Name)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("\"Level\";\"Short\"\r\n"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Read(strings.NewReader("\"Level\";\"Short\";\"Name\"\r\n\"x\";\"обл\";\"Область\"\r\n"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	entries, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	l, err := New(testutil.Reductions())
	require.NoError(t, err)

	require.NoError(t, Save(dir, l))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, l.Entries(), loaded.Entries())

	_, err = Load(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStagePublishAndDiscard(t *testing.T) {
	dir := t.TempDir()
	l, err := New(testutil.Reductions())
	require.NoError(t, err)

	p, err := Stage(dir, l)
	require.NoError(t, err)
	assert.NoFileExists(t, Path(dir), "a staged table is not visible")
	require.NoError(t, p.Publish())
	p.Discard()
	assert.FileExists(t, Path(dir))

	other := t.TempDir()
	p, err = Stage(other, l)
	require.NoError(t, err)
	p.Discard()
	entries, err := os.ReadDir(other)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, p.Publish(), "publishing a discarded table is a no-op")
	assert.NoFileExists(t, Path(other))
}

func TestLoaderIsLazy(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir, testutil.Logger(t))

	l, err := New(testutil.Reductions())
	require.NoError(t, err)
	require.NoError(t, Save(dir, l))

	e, ok := loader.Get(2, "Р-Н")
	require.True(t, ok)
	assert.Equal(t, "Район", e.Name)

	// the table is read once; later changes on disk are not observed
	require.NoError(t, os.Remove(Path(dir)))
	_, ok = loader.Get(2, "р-н")
	assert.True(t, ok)
}

func TestLoaderMissingTable(t *testing.T) {
	loader := NewLoader(t.TempDir(), testutil.Logger(t))
	_, ok := loader.Get(1, "обл")
	assert.False(t, ok)
	assert.Equal(t, 0, loader.Lookup().Len())
}

func TestPreloadedLoader(t *testing.T) {
	l, err := New(testutil.Reductions())
	require.NoError(t, err)

	loader := Preloaded(t.TempDir(), l, testutil.Logger(t))
	assert.Same(t, l, loader.Lookup())
	_, ok := loader.Get(5, "ул")
	assert.True(t, ok)
}
