package specdoc

// Parameter describes a single operation parameter. OAS 3.x parameters
// carry a schema object; OAS 2.0 declares the same constraints inline on
// the parameter itself. The normalizer lifts the inline form into Schema
// so validation has a single shape to work with.
type Parameter struct {
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	In          string  `yaml:"in,omitempty" json:"in,omitempty"` // "path", "query", "header", "cookie"
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`

	// OAS 2.0 inline constraints. Cleared by the normalizer after lifting.
	Type      string   `yaml:"type,omitempty" json:"type,omitempty"`
	Format    string   `yaml:"format,omitempty" json:"format,omitempty"`
	Items     *Schema  `yaml:"items,omitempty" json:"items,omitempty"`
	Enum      []any    `yaml:"enum,omitempty" json:"enum,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Minimum   *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum   *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	MinLength *int     `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength *int     `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`

	Extra map[string]any `yaml:",inline" json:"-"`
}

// EffectiveSchema returns the schema governing this parameter's value.
// Before normalization an OAS 2.0 parameter may have no Schema; after
// normalization the lift guarantees one whenever constraints exist.
func (p *Parameter) EffectiveSchema() *Schema {
	if p == nil {
		return nil
	}
	return p.Schema
}

// Header describes a response header definition.
type Header struct {
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`

	// OAS 2.0 inline form
	Type   string `yaml:"type,omitempty" json:"type,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	Extra map[string]any `yaml:",inline" json:"-"`
}
