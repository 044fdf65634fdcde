package specdoc

import (
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "go.yaml.in/yaml/v4"
)

func TestPathsYAML(t *testing.T) {
	src := `/users/{id}:
  get:
    responses:
      "200":
        description: ok
/users:
  get:
    responses:
      "200":
        description: ok
/health:
  get:
    responses:
      "200":
        description: ok
`
	var paths Paths
	require.NoError(t, yaml.Unmarshal([]byte(src), &paths))

	assert.Equal(t, 3, paths.Len())
	assert.Equal(t, []string{"/users/{id}", "/users", "/health"}, paths.Templates())
	require.NotNil(t, paths.Get("/users"))
	assert.NotNil(t, paths.Get("/users").Get)
	assert.Nil(t, paths.Get("/missing"))
}

func TestPathsJSON(t *testing.T) {
	t.Run("preserves declaration order", func(t *testing.T) {
		src := `{
  "/z": {"get": {"responses": {"200": {"description": "ok"}}}},
  "/a": {"get": {"responses": {"200": {"description": "ok"}}}},
  "/m/{id}": {"delete": {"responses": {"204": {"description": "gone"}}}}
}`
		var paths Paths
		require.NoError(t, json.Unmarshal([]byte(src), &paths))
		assert.Equal(t, []string{"/z", "/a", "/m/{id}"}, paths.Templates())
		assert.NotNil(t, paths.Get("/m/{id}").Delete)
	})

	t.Run("handles escaped and nested content", func(t *testing.T) {
		src := `{"/a": {"get": {"summary": "has \"quotes\" and {braces}", "responses": {"200": {"description": "[ok]"}}}}, "/b": {}}`
		var paths Paths
		require.NoError(t, json.Unmarshal([]byte(src), &paths))
		assert.Equal(t, []string{"/a", "/b"}, paths.Templates())
	})

	t.Run("rejects non-object", func(t *testing.T) {
		var paths Paths
		assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &paths))
	})
}

func TestPathsSet(t *testing.T) {
	var paths Paths
	paths.Set("/a", &PathItem{})
	paths.Set("/b", &PathItem{})
	item := &PathItem{Get: &Operation{}}
	paths.Set("/a", item)

	assert.Equal(t, []string{"/a", "/b"}, paths.Templates(), "replacement keeps position")
	assert.Same(t, item, paths.Get("/a"))
}

func TestObjectKeyOrder(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"flat", `{"b": 1, "a": 2}`, []string{"b", "a"}},
		{"nested objects", `{"x": {"y": {"z": 1}}, "w": []}`, []string{"x", "w"}},
		{"arrays of objects", `{"p": [{"q": 1}, {"r": "]"}], "s": null}`, []string{"p", "s"}},
		{"escapes in keys", `{"a\"b": 1, "c": true}`, []string{`a"b`, "c"}},
		{"empty", `{}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := objectKeyOrder([]byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("errors", func(t *testing.T) {
		for _, src := range []string{``, `[]`, `{"a"`, `{"a": `, `{"a": "unterminated`} {
			_, err := objectKeyOrder([]byte(src))
			assert.Error(t, err, "source: %s", src)
		}
	})
}
