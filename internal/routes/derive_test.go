package routes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krishjain2911/gatsby/api"
)

func mustParse(t *testing.T, p string) *Template {
	t.Helper()
	tpl, err := ParseTemplate(p)
	require.NoError(t, err)
	return tpl
}

func TestDerive(t *testing.T) {
	tpl := mustParse(t, "{Post.slug}/{Post.category}!.js")

	t.Run("all fields present", func(t *testing.T) {
		rec := &api.Record{Fields: map[string]any{"slug": "hello", "category": "news"}}
		route, err := Derive(tpl, rec, nil)
		require.NoError(t, err)
		assert.Equal(t, "/hello/news", route)
	})

	t.Run("optional miss collapses segment", func(t *testing.T) {
		rec := &api.Record{Fields: map[string]any{"category": "news"}}
		route, err := Derive(tpl, rec, nil)
		require.NoError(t, err)
		assert.Equal(t, "/news", route)
	})

	t.Run("required miss fails", func(t *testing.T) {
		rec := &api.Record{Fields: map[string]any{"slug": "hello"}}
		_, err := Derive(tpl, rec, nil)
		require.Error(t, err)

		var resErr *FieldResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "{Post.category}!", resErr.SlugPart)
		assert.Equal(t, "category", resErr.TransformedKey)
	})

	t.Run("null value is a miss", func(t *testing.T) {
		rec := &api.Record{Fields: map[string]any{"slug": nil, "category": "news"}}
		route, err := Derive(tpl, rec, nil)
		require.NoError(t, err)
		assert.Equal(t, "/news", route)
	})

	t.Run("pure for repeated calls", func(t *testing.T) {
		rec := &api.Record{Fields: map[string]any{"slug": "hello", "category": "news"}}
		first, err := Derive(tpl, rec, nil)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := Derive(tpl, rec, nil)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

func TestDeriveLiteralSegments(t *testing.T) {
	tpl := mustParse(t, "blog/{Post.slug}.js")
	rec := &api.Record{Fields: map[string]any{"slug": "hello"}}
	route, err := Derive(tpl, rec, nil)
	require.NoError(t, err)
	assert.Equal(t, "/blog/hello", route)
}

func TestDeriveNestedFieldPath(t *testing.T) {
	tpl := mustParse(t, "{Post.meta.date.year}!.js")
	rec := &api.Record{Fields: map[string]any{
		"meta": map[string]any{"date": map[string]any{"year": int64(2024)}},
	}}
	route, err := Derive(tpl, rec, nil)
	require.NoError(t, err)
	assert.Equal(t, "/2024", route)
}

func TestDeriveStringify(t *testing.T) {
	tpl := mustParse(t, "{Post.v}!.js")
	cases := []struct {
		val  any
		want string
	}{
		{"plain", "/plain"},
		{int64(7), "/7"},
		{3.0, "/3"},
		{2.5, "/2.5"},
		{true, "/true"},
	}
	for _, tc := range cases {
		rec := &api.Record{Fields: map[string]any{"v": tc.val}}
		route, err := Derive(tpl, rec, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.want, route, "value %v", tc.val)
	}
}

func TestDeriveParentHop(t *testing.T) {
	tpl := mustParse(t, "{Post.parent.slug}!/{Post.name}!.js")

	resolver := func(id string) (*api.Record, error) {
		if id == "p1" {
			return &api.Record{Fields: map[string]any{"slug": "section"}}, nil
		}
		return nil, fmt.Errorf("unknown record %q", id)
	}

	t.Run("resolved through identifier", func(t *testing.T) {
		rec := &api.Record{
			Fields: map[string]any{"name": "page"},
			Parent: &api.ParentRef{ID: "p1"},
		}
		route, err := Derive(tpl, rec, resolver)
		require.NoError(t, err)
		assert.Equal(t, "/section/page", route)
	})

	t.Run("realized parent used as-is", func(t *testing.T) {
		rec := &api.Record{
			Fields: map[string]any{"name": "page"},
			Parent: &api.ParentRef{
				ID:   "never-resolved",
				Node: &api.Record{Fields: map[string]any{"slug": "inline"}},
			},
		}
		route, err := Derive(tpl, rec, func(string) (*api.Record, error) {
			t.Fatal("resolver must not be called for a realized parent")
			return nil, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "/inline/page", route)
	})

	t.Run("missing parent on required reference", func(t *testing.T) {
		rec := &api.Record{Fields: map[string]any{"name": "page"}}
		_, err := Derive(tpl, rec, resolver)
		var resErr *FieldResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "parent.slug", resErr.TransformedKey)
	})

	t.Run("resolver failure propagates", func(t *testing.T) {
		rec := &api.Record{
			Fields: map[string]any{"name": "page"},
			Parent: &api.ParentRef{ID: "nope"},
		}
		_, err := Derive(tpl, rec, resolver)
		var resErr *FieldResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Error(t, errors.Unwrap(resErr))
	})

	t.Run("missing parent on optional reference collapses", func(t *testing.T) {
		opt := mustParse(t, "{Post.parent.slug}/{Post.name}!.js")
		rec := &api.Record{Fields: map[string]any{"name": "page"}}
		route, err := Derive(opt, rec, resolver)
		require.NoError(t, err)
		assert.Equal(t, "/page", route)
	})
}
