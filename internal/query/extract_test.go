package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCollectionQuery(t *testing.T) {
	t.Run("tagged template literal", func(t *testing.T) {
		src := "const query = collectionGraphql`{ ...CollectionPagesQuery }`\n"
		q, ok, err := ExtractCollectionQuery([]byte(src))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "{ ...CollectionPagesQuery }", q)
	})

	t.Run("plain string argument", func(t *testing.T) {
		src := `const query = collectionGraphql("{ ...CollectionPagesQuery }")`
		q, ok, err := ExtractCollectionQuery([]byte(src))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "{ ...CollectionPagesQuery }", q)
	})

	t.Run("no tag present", func(t *testing.T) {
		_, ok, err := ExtractCollectionQuery([]byte(`export default function Page() { return null }`))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other tags are ignored", func(t *testing.T) {
		src := "const q = graphql`{ allPost { nodes { id } } }`\n"
		_, ok, err := ExtractCollectionQuery([]byte(src))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
