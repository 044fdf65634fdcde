package specdoc

// Schema is the recursive validation-schema node used throughout apitap.
// It models the subset of JSON Schema exercised by traffic conformance:
// type dispatch, object/array structure, string and numeric constraints,
// enums, formats, and basic composition.
//
// Type holds either a single type string or a list of type strings; after
// normalization a nullable schema always appears as a type-list union
// (e.g. ["string", "null"]) and never as a separate flag.
type Schema struct {
	// Ref is an unresolved JSON reference. After reference resolution this
	// is empty except for cyclic or over-deep references, which are left in
	// place so a malformed spec degrades instead of failing the load.
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	// Type validation
	Type any   `yaml:"type,omitempty" json:"type,omitempty"` // string or []string
	Enum []any `yaml:"enum,omitempty" json:"enum,omitempty"`

	// Numeric validation (inclusive bounds)
	Minimum *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`

	// String validation
	MinLength *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Format    string `yaml:"format,omitempty" json:"format,omitempty"`

	// Array validation
	Items *Schema `yaml:"items,omitempty" json:"items,omitempty"`

	// Object validation
	Properties map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required   []string           `yaml:"required,omitempty" json:"required,omitempty"`

	// Basic composition
	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`

	// Nullable is the OAS 3.0 idiom for null-admitting schemas. The
	// normalizer folds it into Type and clears it.
	Nullable bool `yaml:"nullable,omitempty" json:"nullable,omitempty"`

	// Presentation-only keys. These carry no validation semantics and are
	// stripped by the normalizer; they exist on the struct so round-tripped
	// documents do not leak them into Extra.
	Title         string         `yaml:"title,omitempty" json:"title,omitempty"`
	Description   string         `yaml:"description,omitempty" json:"description,omitempty"`
	Default       any            `yaml:"default,omitempty" json:"default,omitempty"`
	Example       any            `yaml:"example,omitempty" json:"example,omitempty"`
	Examples      []any          `yaml:"examples,omitempty" json:"examples,omitempty"`
	Deprecated    bool           `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	XML           map[string]any `yaml:"xml,omitempty" json:"xml,omitempty"`
	ExternalDocs  map[string]any `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
	Discriminator map[string]any `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Types returns the declared type(s) as a normalized string slice.
// A nil return means the schema declares no type and every value passes
// the type gate.
func (s *Schema) Types() []string {
	if s == nil || s.Type == nil {
		return nil
	}
	switch t := s.Type.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		types := make([]string, 0, len(t))
		for _, v := range t {
			if str, ok := v.(string); ok {
				types = append(types, str)
			}
		}
		return types
	}
	return nil
}

// AllowsNull reports whether the type union admits null values.
func (s *Schema) AllowsNull() bool {
	if s == nil {
		return true
	}
	if s.Nullable {
		return true
	}
	for _, t := range s.Types() {
		if t == "null" {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the schema. Reference resolution inlines
// clones, never the shared component nodes, so one resolved spec can be
// read concurrently without aliasing surprises.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	out.Type = cloneValue(s.Type)
	out.Enum = cloneSlice(s.Enum)
	out.Minimum = cloneFloat(s.Minimum)
	out.Maximum = cloneFloat(s.Maximum)
	out.MinLength = cloneInt(s.MinLength)
	out.MaxLength = cloneInt(s.MaxLength)
	out.Items = s.Items.Clone()
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v.Clone()
		}
	}
	if s.Required != nil {
		out.Required = append([]string(nil), s.Required...)
	}
	out.AllOf = cloneSchemas(s.AllOf)
	out.AnyOf = cloneSchemas(s.AnyOf)
	out.OneOf = cloneSchemas(s.OneOf)
	out.Default = cloneValue(s.Default)
	out.Example = cloneValue(s.Example)
	out.Examples = cloneSlice(s.Examples)
	out.XML = cloneMap(s.XML)
	out.ExternalDocs = cloneMap(s.ExternalDocs)
	out.Discriminator = cloneMap(s.Discriminator)
	out.Extra = cloneMap(s.Extra)
	return &out
}

func cloneSchemas(in []*Schema) []*Schema {
	if in == nil {
		return nil
	}
	out := make([]*Schema, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// cloneValue deep-copies parsed JSON/YAML values (maps, slices, scalars).
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		return cloneSlice(val)
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = cloneValue(v)
	}
	return out
}
