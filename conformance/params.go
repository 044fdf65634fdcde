package conformance

import (
	"strconv"
	"strings"

	"github.com/apitap/apitap/specdoc"
)

// Parameter locations.
const (
	LocationPath   = "path"
	LocationQuery  = "query"
	LocationHeader = "header"
	LocationCookie = "cookie"
)

// validateParameters checks the declared parameters for one location
// against the supplied wire values. Undeclared values are never flagged;
// only declared constraints are enforced.
//
// Header lookups are case-insensitive per RFC 9110; other locations are
// exact.
func (v *Validator) validateParameters(params []*specdoc.Parameter, location string, values map[string]string) []ValidationError {
	var errs []ValidationError

	var lowered map[string]string
	if location == LocationHeader {
		lowered = make(map[string]string, len(values))
		for name, value := range values {
			lowered[strings.ToLower(name)] = value
		}
	}

	for _, param := range params {
		if param == nil || param.In != location {
			continue
		}

		raw, present := values[param.Name]
		if location == LocationHeader {
			raw, present = lowered[strings.ToLower(param.Name)]
		}

		// An empty wire string carries no value: for a required
		// parameter that is a violation, otherwise nothing to check.
		if !present || raw == "" {
			if param.Required {
				errs = append(errs, ValidationError{
					Path:     param.Name,
					Message:  "required " + location + " parameter is missing",
					Code:     CodeRequired,
					Expected: location + " parameter " + strconv.Quote(param.Name),
				})
			}
			continue
		}

		schema := param.EffectiveSchema()
		if schema == nil {
			continue
		}
		coerced := coerceWireValue(raw, schema)
		errs = append(errs, v.schemas.Validate(coerced, schema, param.Name)...)
	}

	return errs
}

// coerceWireValue converts a wire-format string toward the schema's
// declared type before structural validation:
//
//   - integer/number: numeric parse; a non-numeric string stays a string
//     and fails the type gate downstream rather than passing silently
//   - boolean: equality with the literal string "true"
//   - anything else: the string as-is
func coerceWireValue(raw string, schema *specdoc.Schema) any {
	for _, t := range schema.Types() {
		switch t {
		case "integer", "number":
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				return f
			}
			return raw
		case "boolean":
			return raw == "true"
		}
	}
	return raw
}

// mergeParameters combines path-level and operation-level parameter lists.
// An operation-level parameter overrides a path-level one with the same
// name and location.
func mergeParameters(pathLevel, opLevel []*specdoc.Parameter) []*specdoc.Parameter {
	if len(pathLevel) == 0 {
		return opLevel
	}

	type key struct{ name, in string }
	overridden := make(map[key]bool, len(opLevel))
	for _, p := range opLevel {
		if p != nil {
			overridden[key{p.Name, p.In}] = true
		}
	}

	merged := make([]*specdoc.Parameter, 0, len(pathLevel)+len(opLevel))
	for _, p := range pathLevel {
		if p != nil && !overridden[key{p.Name, p.In}] {
			merged = append(merged, p)
		}
	}
	return append(merged, opLevel...)
}
