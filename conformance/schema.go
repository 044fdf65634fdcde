package conformance

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/apitap/apitap/internal/stringutil"
	"github.com/apitap/apitap/specdoc"
)

// SchemaValidator validates JSON values against normalized schemas.
// It implements the subset of JSON Schema exercised by traffic checking.
//
// Validation is a pure recursive descent with one deliberate asymmetry:
// a type mismatch stops descent into that branch, so a payload with the
// wrong shape yields one error per wrong node instead of a cascade of
// meaningless nested errors. All other violations accumulate.
type SchemaValidator struct {
	// patternCache caches compiled regexes (sync.Map[string, *regexp.Regexp])
	patternCache sync.Map

	// patternCount tracks the approximate cache size for capping
	patternCount atomic.Int32
}

// NewSchemaValidator creates a new SchemaValidator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// Validate validates a value against a schema, reporting violations at the
// given locator path. A nil schema accepts everything.
//
// A panic during evaluation of a schema node is converted into a single
// VALIDATION_ERROR at that node's path rather than aborting the pass.
func (v *SchemaValidator) Validate(value any, schema *specdoc.Schema, path string) (errs []ValidationError) {
	defer func() {
		if r := recover(); r != nil {
			errs = append(errs, ValidationError{
				Path:    path,
				Message: fmt.Sprintf("schema evaluation failed: %v", r),
				Code:    CodeValidationError,
			})
		}
	}()

	return v.validate(value, schema, path)
}

func (v *SchemaValidator) validate(value any, schema *specdoc.Schema, path string) []ValidationError {
	if schema == nil {
		return nil
	}

	if value == nil {
		if schema.AllowsNull() {
			return nil
		}
		return []ValidationError{{
			Path:     path,
			Message:  "value is null or missing",
			Code:     CodeRequired,
			Expected: strings.Join(schema.Types(), " or "),
		}}
	}

	// Type gate. A mismatch is terminal for this branch: children of a
	// mistyped node are not validated further.
	if typeErrs := v.validateType(value, schema, path); len(typeErrs) > 0 {
		return typeErrs
	}

	var errs []ValidationError

	switch val := value.(type) {
	case string:
		errs = append(errs, v.validateString(val, schema, path)...)
	case bool:
		// No constraints beyond type and enum
	case []any:
		errs = append(errs, v.validateArray(val, schema, path)...)
	case map[string]any:
		errs = append(errs, v.validateObject(val, schema, path)...)
	default:
		if num, ok := toFloat64(value); ok {
			errs = append(errs, v.validateNumber(num, schema, path)...)
		}
	}

	if len(schema.Enum) > 0 {
		errs = append(errs, v.validateEnum(value, schema, path)...)
	}

	errs = append(errs, v.validateComposition(value, schema, path)...)

	return errs
}

// validateType checks the value's JSON type against the schema's type
// union. Integer values satisfy number schemas; whole-valued floats
// satisfy integer schemas, fractional ones do not.
func (v *SchemaValidator) validateType(value any, schema *specdoc.Schema, path string) []ValidationError {
	types := schema.Types()
	if len(types) == 0 {
		return nil
	}

	valueType := jsonType(value)
	fractionalOnly := false
	for _, schemaType := range types {
		if !typeMatches(valueType, schemaType) {
			continue
		}
		if schemaType == "integer" && valueType == "number" {
			// A fractional value fails this member but may still satisfy
			// a later one (e.g. "number" in the same union).
			f, _ := toFloat64(value)
			if f != float64(int64(f)) {
				fractionalOnly = true
				continue
			}
		}
		return nil
	}

	if fractionalOnly {
		f, _ := toFloat64(value)
		return []ValidationError{{
			Path:        path,
			Message:     fmt.Sprintf("value %v must be an integer", f),
			Code:        CodeTypeMismatch,
			ActualValue: value,
			ActualType:  "number",
			Expected:    "integer",
		}}
	}

	expected := strings.Join(types, " or ")
	return []ValidationError{{
		Path:        path,
		Message:     fmt.Sprintf("expected type %s but got %s", expected, valueType),
		Code:        CodeTypeMismatch,
		ActualValue: value,
		ActualType:  valueType,
		Expected:    expected,
	}}
}

func (v *SchemaValidator) validateString(s string, schema *specdoc.Schema, path string) []ValidationError {
	var errs []ValidationError

	if schema.MinLength != nil && len(s) < *schema.MinLength {
		errs = append(errs, ValidationError{
			Path:        path,
			Message:     fmt.Sprintf("string length %d is less than minimum %d", len(s), *schema.MinLength),
			Code:        CodeRangeViolation,
			ActualValue: s,
			ActualType:  "string",
			Expected:    fmt.Sprintf("minLength %d", *schema.MinLength),
		})
	}
	if schema.MaxLength != nil && len(s) > *schema.MaxLength {
		errs = append(errs, ValidationError{
			Path:        path,
			Message:     fmt.Sprintf("string length %d exceeds maximum %d", len(s), *schema.MaxLength),
			Code:        CodeRangeViolation,
			ActualValue: s,
			ActualType:  "string",
			Expected:    fmt.Sprintf("maxLength %d", *schema.MaxLength),
		})
	}

	if schema.Pattern != "" {
		matched, err := v.matchPattern(schema.Pattern, s)
		if err != nil {
			errs = append(errs, ValidationError{
				Path:    path,
				Message: fmt.Sprintf("invalid pattern %q: %v", schema.Pattern, err),
				Code:    CodeValidationError,
			})
		} else if !matched {
			errs = append(errs, ValidationError{
				Path:        path,
				Message:     fmt.Sprintf("string does not match pattern %q", schema.Pattern),
				Code:        CodeFormatViolation,
				ActualValue: s,
				ActualType:  "string",
				Expected:    fmt.Sprintf("pattern %q", schema.Pattern),
			})
		}
	}

	if schema.Format != "" {
		errs = append(errs, v.validateFormat(s, schema.Format, path)...)
	}

	return errs
}

func (v *SchemaValidator) validateNumber(n float64, schema *specdoc.Schema, path string) []ValidationError {
	var errs []ValidationError

	if schema.Minimum != nil && n < *schema.Minimum {
		errs = append(errs, ValidationError{
			Path:        path,
			Message:     fmt.Sprintf("value %v is less than minimum %v", n, *schema.Minimum),
			Code:        CodeRangeViolation,
			ActualValue: n,
			ActualType:  jsonTypeOfNumber(n),
			Expected:    fmt.Sprintf("minimum %v", *schema.Minimum),
		})
	}
	if schema.Maximum != nil && n > *schema.Maximum {
		errs = append(errs, ValidationError{
			Path:        path,
			Message:     fmt.Sprintf("value %v exceeds maximum %v", n, *schema.Maximum),
			Code:        CodeRangeViolation,
			ActualValue: n,
			ActualType:  jsonTypeOfNumber(n),
			Expected:    fmt.Sprintf("maximum %v", *schema.Maximum),
		})
	}

	return errs
}

func (v *SchemaValidator) validateArray(arr []any, schema *specdoc.Schema, path string) []ValidationError {
	if schema.Items == nil {
		return nil
	}
	var errs []ValidationError
	for i, item := range arr {
		errs = append(errs, v.validate(item, schema.Items, fmt.Sprintf("%s[%d]", path, i))...)
	}
	return errs
}

func (v *SchemaValidator) validateObject(obj map[string]any, schema *specdoc.Schema, path string) []ValidationError {
	var errs []ValidationError

	for _, req := range schema.Required {
		if _, exists := obj[req]; !exists {
			errs = append(errs, ValidationError{
				Path:     joinPath(path, req),
				Message:  fmt.Sprintf("required property %q is missing", req),
				Code:     CodeRequired,
				Expected: fmt.Sprintf("property %q", req),
			})
		}
	}

	// Properties not declared in the schema are ignored: the checker
	// verifies declared constraints, it does not enforce closed sets.
	// Names are walked sorted so identical inputs yield identical error
	// lists regardless of map iteration order.
	names := make([]string, 0, len(obj))
	for name := range obj {
		if _, ok := schema.Properties[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		errs = append(errs, v.validate(obj[name], schema.Properties[name], joinPath(path, name))...)
	}

	return errs
}

// validateEnum requires strict scalar equality with one listed member:
// numbers compare across integer/float representations, strings and bools
// compare by value, and composite values never match.
func (v *SchemaValidator) validateEnum(value any, schema *specdoc.Schema, path string) []ValidationError {
	for _, allowed := range schema.Enum {
		if enumEqual(value, allowed) {
			return nil
		}
	}
	return []ValidationError{{
		Path:        path,
		Message:     fmt.Sprintf("value %v is not one of the allowed values", value),
		Code:        CodeEnumViolation,
		ActualValue: value,
		ActualType:  jsonType(value),
		Expected:    fmt.Sprintf("one of %v", schema.Enum),
	}}
}

func (v *SchemaValidator) validateComposition(value any, schema *specdoc.Schema, path string) []ValidationError {
	var errs []ValidationError

	for _, sub := range schema.AllOf {
		errs = append(errs, v.validate(value, sub, path)...)
	}

	if len(schema.AnyOf) > 0 {
		matched := false
		for _, sub := range schema.AnyOf {
			if len(v.validate(value, sub, path)) == 0 {
				matched = true
				break
			}
		}
		if !matched {
			errs = append(errs, ValidationError{
				Path:        path,
				Message:     "value does not match any of the anyOf schemas",
				Code:        CodeValidationError,
				ActualValue: value,
				ActualType:  jsonType(value),
			})
		}
	}

	if len(schema.OneOf) > 0 {
		matchCount := 0
		for _, sub := range schema.OneOf {
			if len(v.validate(value, sub, path)) == 0 {
				matchCount++
			}
		}
		if matchCount != 1 {
			errs = append(errs, ValidationError{
				Path:        path,
				Message:     fmt.Sprintf("value matches %d oneOf schemas, expected exactly 1", matchCount),
				Code:        CodeValidationError,
				ActualValue: value,
				ActualType:  jsonType(value),
			})
		}
	}

	return errs
}

func (v *SchemaValidator) validateFormat(s, format, path string) []ValidationError {
	var ok bool
	var expected string
	switch format {
	case "uuid":
		ok, expected = stringutil.IsValidUUID(s), "uuid"
	case "email":
		ok, expected = stringutil.IsValidEmail(s), "email address"
	case "date":
		ok, expected = stringutil.IsValidDate(s), "date (YYYY-MM-DD)"
	case "date-time":
		ok, expected = stringutil.IsValidDateTime(s), "date-time with 'T' separator"
	default:
		// Unknown formats are annotations, not constraints
		return nil
	}
	if ok {
		return nil
	}
	return []ValidationError{{
		Path:        path,
		Message:     fmt.Sprintf("%q is not a valid %s", s, expected),
		Code:        CodeFormatViolation,
		ActualValue: s,
		ActualType:  "string",
		Expected:    expected,
	}}
}

// maxPatternCacheSize is the upper bound on cached compiled patterns.
// When exceeded, the cache is cleared to prevent unbounded growth from
// specs with many unique patterns.
const maxPatternCacheSize = 1000

// matchPattern compiles and full-matches a regex pattern against s.
func (v *SchemaValidator) matchPattern(pattern, s string) (bool, error) {
	if cached, ok := v.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(s), nil
	}

	re, err := regexp.Compile(anchorPattern(pattern))
	if err != nil {
		return false, err
	}

	// The count check and clear are not atomic. Under concurrency several
	// goroutines may clear at once; worst case is extra recompilation.
	if v.patternCount.Add(1) > maxPatternCacheSize {
		v.patternCache.Range(func(key, _ any) bool {
			v.patternCache.Delete(key)
			return true
		})
		v.patternCount.Store(1)
	}
	v.patternCache.Store(pattern, re)
	return re.MatchString(s), nil
}

// anchorPattern forces a full-string match for patterns the author left
// unanchored, since a partial pattern hit is not conformance.
func anchorPattern(pattern string) string {
	p := pattern
	if !strings.HasPrefix(p, "^") {
		p = "^(?:" + p + ")"
		if !strings.HasSuffix(pattern, "$") {
			p += "$"
		}
		return p
	}
	if !strings.HasSuffix(p, "$") {
		p += "$"
	}
	return p
}

// Helper functions

// jsonType returns the JSON Schema type of a decoded value, distinguishing
// whole-valued numbers as "integer".
func jsonType(value any) string {
	if value == nil {
		return "null"
	}
	switch val := value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case float64:
		return jsonTypeOfNumber(val)
	case float32:
		return jsonTypeOfNumber(float64(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	default:
		return "unknown"
	}
}

func jsonTypeOfNumber(f float64) string {
	if f == float64(int64(f)) {
		return "integer"
	}
	return "number"
}

// typeMatches checks whether a value type satisfies a schema type.
func typeMatches(valueType, schemaType string) bool {
	if valueType == schemaType {
		return true
	}
	// integer is a subtype of number
	if schemaType == "number" && valueType == "integer" {
		return true
	}
	// JSON has one number type; whole-valued numbers may be integers.
	// The fractional-part check happens in validateType.
	if schemaType == "integer" && valueType == "number" {
		return true
	}
	return false
}

// toFloat64 converts numeric values to float64, reporting success.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// enumEqual implements strict scalar equality: numbers compare by value
// regardless of Go representation, strings and bools by value, and
// composite values (objects, arrays) never compare equal.
func enumEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok || bok {
		return aok && bok && af == bf
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

// joinPath appends a property name to a locator path.
func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
