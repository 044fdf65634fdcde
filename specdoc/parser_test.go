package specdoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apitap/apitap/taperrors"
)

const petstoreYAML = `openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            minimum: 1
      responses:
        "200":
          description: A list of pets
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Pet"
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Pet"
      responses:
        "201":
          description: Created
  /pets/{petId}:
    get:
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
            format: uuid
      responses:
        "200":
          description: A pet
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pet"
        "404":
          description: Not found
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
        name:
          type: string
        tag:
          type: string
          nullable: true
`

const petstoreJSON = `{
  "openapi": "3.0.3",
  "info": {"title": "Petstore", "version": "1.0.0"},
  "paths": {
    "/pets/{petId}": {
      "get": {
        "responses": {"200": {"description": "ok"}}
      }
    },
    "/pets": {
      "get": {
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

func TestParserParse(t *testing.T) {
	t.Run("parses YAML document", func(t *testing.T) {
		result, err := New().Parse([]byte(petstoreYAML))
		require.NoError(t, err)
		require.NotNil(t, result.Document)

		assert.Equal(t, SourceFormatYAML, result.SourceFormat)
		assert.Equal(t, "3.0.3", result.Version)
		assert.Equal(t, "Parse.yaml", result.SourcePath)
		assert.Equal(t, "Petstore", result.Document.Info.Title)
		assert.Equal(t, []string{"/pets", "/pets/{petId}"}, result.Document.Paths.Templates())
	})

	t.Run("parses JSON document preserving path order", func(t *testing.T) {
		result, err := New().Parse([]byte(petstoreJSON))
		require.NoError(t, err)

		assert.Equal(t, SourceFormatJSON, result.SourceFormat)
		assert.Equal(t, "Parse.json", result.SourcePath)
		assert.Equal(t, []string{"/pets/{petId}", "/pets"}, result.Document.Paths.Templates())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := New().Parse([]byte("{not json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, taperrors.ErrParse)
	})

	t.Run("rejects document without info", func(t *testing.T) {
		_, err := New().Parse([]byte("openapi: 3.0.3\npaths:\n  /a:\n    get:\n      responses:\n        \"200\":\n          description: ok\n"))
		require.Error(t, err)

		var parseErr *taperrors.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Message, "info")
	})

	t.Run("rejects document with empty paths", func(t *testing.T) {
		_, err := New().Parse([]byte("openapi: 3.0.3\ninfo:\n  title: T\n  version: \"1\"\npaths: {}\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, taperrors.ErrParse)
	})

	t.Run("warns on missing version declaration", func(t *testing.T) {
		result, err := New().Parse([]byte("info:\n  title: T\n  version: \"1\"\npaths:\n  /a:\n    get:\n      responses:\n        \"200\":\n          description: ok\n"))
		require.NoError(t, err)
		assert.Equal(t, "", result.Version)
		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, result.Warnings[0], "neither")
	})

	t.Run("warns on invalid status key", func(t *testing.T) {
		result, err := New().Parse([]byte("openapi: 3.0.3\ninfo:\n  title: T\n  version: \"1\"\npaths:\n  /a:\n    get:\n      responses:\n        \"999\":\n          description: bad\n"))
		require.NoError(t, err)
		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, result.Warnings[0], `"999"`)
	})

	t.Run("accepts OAS2 document", func(t *testing.T) {
		swagger := `swagger: "2.0"
info:
  title: Legacy
  version: "1.0"
paths:
  /things:
    get:
      responses:
        "200":
          description: ok
          schema:
            $ref: "#/definitions/Thing"
definitions:
  Thing:
    type: object
    properties:
      id:
        type: integer
`
		result, err := New().Parse([]byte(swagger))
		require.NoError(t, err)
		assert.True(t, result.Document.IsOAS2())
		assert.Equal(t, "2.0", result.Version)

		resp := result.Document.Paths.Get("/things").Get.Responses["200"]
		require.NotNil(t, resp)
		require.NotNil(t, resp.Schema)
		assert.Empty(t, resp.Schema.Ref, "definition ref should be inlined")
		assert.Equal(t, []string{"object"}, resp.Schema.Types())
	})
}

func TestParserParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstoreYAML), 0o644))

	result, err := New().ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, result.SourcePath)
	assert.Equal(t, int64(len(petstoreYAML)), result.SourceSize)

	t.Run("missing file", func(t *testing.T) {
		_, err := New().ParseFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, taperrors.ErrParse)
	})
}

func TestParserParseReader(t *testing.T) {
	result, err := New().ParseReader(strings.NewReader(petstoreJSON))
	require.NoError(t, err)
	assert.Equal(t, "ParseReader.json", result.SourcePath)
	assert.Equal(t, SourceFormatJSON, result.SourceFormat)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
		want SourceFormat
	}{
		{"json object", `{"openapi": "3.0.3"}`, SourceFormatJSON},
		{"json with leading whitespace", "\n\t {\"a\": 1}", SourceFormatJSON},
		{"json with BOM", "\xef\xbb\xbf{}", SourceFormatJSON},
		{"yaml", "openapi: 3.0.3\n", SourceFormatYAML},
		{"empty", "", SourceFormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat([]byte(tt.data)))
		})
	}
}
