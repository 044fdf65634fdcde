package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apitap/apitap/specdoc"
)

func newBareValidator(t *testing.T) *Validator {
	t.Helper()
	return &Validator{schemas: NewSchemaValidator(), log: specdoc.NopLogger{}}
}

func TestValidateParameters(t *testing.T) {
	v := newBareValidator(t)

	intParam := func(name, in string, required bool) *specdoc.Parameter {
		return &specdoc.Parameter{
			Name: name, In: in, Required: required,
			Schema: &specdoc.Schema{Type: "integer", Minimum: floatPtr(1)},
		}
	}

	t.Run("required parameter missing", func(t *testing.T) {
		errs := v.validateParameters([]*specdoc.Parameter{intParam("limit", LocationQuery, true)},
			LocationQuery, nil)
		e := singleError(t, errs, CodeRequired)
		assert.Equal(t, "limit", e.Path)
	})

	t.Run("empty string counts as missing", func(t *testing.T) {
		errs := v.validateParameters([]*specdoc.Parameter{intParam("limit", LocationQuery, true)},
			LocationQuery, map[string]string{"limit": ""})
		singleError(t, errs, CodeRequired)
	})

	t.Run("optional parameter absent is fine", func(t *testing.T) {
		errs := v.validateParameters([]*specdoc.Parameter{intParam("limit", LocationQuery, false)},
			LocationQuery, nil)
		assert.Empty(t, errs)
	})

	t.Run("numeric wire value coerces and validates", func(t *testing.T) {
		errs := v.validateParameters([]*specdoc.Parameter{intParam("limit", LocationQuery, true)},
			LocationQuery, map[string]string{"limit": "25"})
		assert.Empty(t, errs)

		errs = v.validateParameters([]*specdoc.Parameter{intParam("limit", LocationQuery, true)},
			LocationQuery, map[string]string{"limit": "0"})
		singleError(t, errs, CodeRangeViolation)
	})

	t.Run("non-numeric string fails the type gate, not silently", func(t *testing.T) {
		errs := v.validateParameters([]*specdoc.Parameter{intParam("limit", LocationQuery, true)},
			LocationQuery, map[string]string{"limit": "lots"})
		e := singleError(t, errs, CodeTypeMismatch)
		assert.Equal(t, "string", e.ActualType)
	})

	t.Run("header lookup is case-insensitive", func(t *testing.T) {
		params := []*specdoc.Parameter{{
			Name: "X-Request-Id", In: LocationHeader, Required: true,
			Schema: &specdoc.Schema{Type: "string", Format: "uuid"},
		}}
		errs := v.validateParameters(params, LocationHeader,
			map[string]string{"x-request-id": "550e8400-e29b-41d4-a716-446655440001"})
		assert.Empty(t, errs)
	})

	t.Run("only the requested location is checked", func(t *testing.T) {
		params := []*specdoc.Parameter{
			intParam("limit", LocationQuery, true),
			intParam("X-Page", LocationHeader, true),
		}
		errs := v.validateParameters(params, LocationQuery, map[string]string{"limit": "5"})
		assert.Empty(t, errs, "missing header must not be reported during query validation")
	})

	t.Run("undeclared values are ignored", func(t *testing.T) {
		errs := v.validateParameters([]*specdoc.Parameter{intParam("limit", LocationQuery, false)},
			LocationQuery, map[string]string{"limit": "5", "debug": "yes"})
		assert.Empty(t, errs)
	})
}

func TestCoerceWireValue(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		schema *specdoc.Schema
		want   any
	}{
		{"integer", "42", &specdoc.Schema{Type: "integer"}, float64(42)},
		{"number", "3.5", &specdoc.Schema{Type: "number"}, 3.5},
		{"negative number", "-1", &specdoc.Schema{Type: "integer"}, float64(-1)},
		{"non-numeric stays string", "abc", &specdoc.Schema{Type: "integer"}, "abc"},
		{"boolean true literal", "true", &specdoc.Schema{Type: "boolean"}, true},
		{"boolean anything else is false", "TRUE", &specdoc.Schema{Type: "boolean"}, false},
		{"boolean yes is false", "yes", &specdoc.Schema{Type: "boolean"}, false},
		{"string passthrough", "42", &specdoc.Schema{Type: "string"}, "42"},
		{"no type passthrough", "x", &specdoc.Schema{}, "x"},
		{"union picks typed branch", "7", &specdoc.Schema{Type: []any{"integer", "null"}}, float64(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceWireValue(tt.raw, tt.schema))
		})
	}
}

func TestMergeParameters(t *testing.T) {
	pathLevel := []*specdoc.Parameter{
		{Name: "id", In: LocationPath, Required: true},
		{Name: "verbose", In: LocationQuery},
	}
	opLevel := []*specdoc.Parameter{
		{Name: "verbose", In: LocationQuery, Required: true},
		{Name: "limit", In: LocationQuery},
	}

	merged := mergeParameters(pathLevel, opLevel)
	require.Len(t, merged, 3)

	byName := map[string]*specdoc.Parameter{}
	for _, p := range merged {
		byName[p.Name] = p
	}
	assert.True(t, byName["verbose"].Required, "operation level overrides path level")
	assert.Contains(t, byName, "id")
	assert.Contains(t, byName, "limit")

	t.Run("empty path level", func(t *testing.T) {
		assert.Equal(t, opLevel, mergeParameters(nil, opLevel))
	})
}
