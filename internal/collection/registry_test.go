package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krishjain2911/gatsby/api"
	"github.com/Krishjain2911/gatsby/internal/routes"
)

func postTemplate(t *testing.T, p string) *routes.Template {
	t.Helper()
	tpl, err := routes.ParseTemplate(p)
	require.NoError(t, err)
	return tpl
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	tpl := postTemplate(t, "{Post.slug}!.js")

	require.NoError(t, reg.Register(Entry{
		PluralName: "allPost",
		Template:   tpl,
		FilePath:   "{Post.slug}.js",
	}))

	t.Run("lookup", func(t *testing.T) {
		e, ok := reg.Lookup("allPost")
		require.True(t, ok)
		assert.Equal(t, "{Post.slug}.js", e.FilePath)

		_, ok = reg.Lookup("allAuthor")
		assert.False(t, ok)
	})

	t.Run("duplicate registration keeps first entry", func(t *testing.T) {
		err := reg.Register(Entry{
			PluralName: "allPost",
			Template:   postTemplate(t, "{Post.id}.js"),
			FilePath:   "other/{Post.id}.js",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateTemplate)

		e, ok := reg.Lookup("allPost")
		require.True(t, ok)
		assert.Equal(t, "{Post.slug}.js", e.FilePath)
	})

	t.Run("derive route", func(t *testing.T) {
		route, err := reg.DeriveRoute("allPost", &api.Record{
			Fields: map[string]any{"slug": "hello"},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "/hello", route)
	})

	t.Run("derive for unknown plural", func(t *testing.T) {
		_, err := reg.DeriveRoute("allAuthor", &api.Record{}, nil)
		assert.ErrorIs(t, err, ErrUnknownCollection)
	})

	t.Run("plurals are sorted", func(t *testing.T) {
		require.NoError(t, reg.Register(Entry{
			PluralName: "allAuthor",
			Template:   postTemplate(t, "{Author.name}.js"),
			FilePath:   "{Author.name}.js",
		}))
		assert.Equal(t, []string{"allAuthor", "allPost"}, reg.Plurals())
	})
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "allPost", Pluralize("Post"))
	assert.Equal(t, "allAuthor", Pluralize("Author"))
}
