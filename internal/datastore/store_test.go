package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecords = `
{
  "allPost": [
    {"id": "p1", "slug": "hello", "parent": "s1"},
    {"id": "p2", "slug": "world", "meta": {"year": 2024}}
  ],
  "allSection": [
    {"id": "s1", "slug": "news"}
  ]
}
`

func TestStore(t *testing.T) {
	store, err := Parse([]byte(sampleRecords))
	require.NoError(t, err)

	t.Run("records by plural type", func(t *testing.T) {
		recs, err := store.Records("allPost")
		require.NoError(t, err)
		require.Len(t, recs, 2)

		assert.Equal(t, "hello", recs[0].Fields["slug"])
		require.NotNil(t, recs[0].Parent)
		assert.Equal(t, "s1", recs[0].Parent.ID)
		assert.Nil(t, recs[0].Parent.Node)

		assert.Nil(t, recs[1].Parent)
		meta, ok := recs[1].Fields["meta"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, 2024, meta["year"])
	})

	t.Run("parent identifier never shows up as a field", func(t *testing.T) {
		recs, err := store.Records("allPost")
		require.NoError(t, err)
		_, ok := recs[0].Fields["parent"]
		assert.False(t, ok)
	})

	t.Run("unknown plural type", func(t *testing.T) {
		recs, err := store.Records("allAuthor")
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("resolve by id", func(t *testing.T) {
		rec, err := store.Resolve("s1")
		require.NoError(t, err)
		assert.Equal(t, "news", rec.Fields["slug"])
	})

	t.Run("resolve unknown id", func(t *testing.T) {
		_, err := store.Resolve("missing")
		assert.Error(t, err)
	})
}

func TestParseRejectsNonObjectDocuments(t *testing.T) {
	_, err := Parse([]byte(`[1, 2, 3]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{not json`))
	assert.Error(t, err)
}
