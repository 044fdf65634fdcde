package specdoc

// Document is the parsed specification root. It accepts both OAS 3.x
// (openapi/components) and OAS 2.0 (swagger/definitions) layouts; lookup
// helpers paper over the difference so callers never branch on version.
type Document struct {
	// OpenAPI is the OAS 3.x version declaration (e.g. "3.0.3", "3.1.0")
	OpenAPI string `yaml:"openapi,omitempty" json:"openapi,omitempty"`
	// Swagger is the OAS 2.0 version declaration ("2.0")
	Swagger string `yaml:"swagger,omitempty" json:"swagger,omitempty"`

	Info  *Info  `yaml:"info,omitempty" json:"info,omitempty"`
	Paths *Paths `yaml:"paths,omitempty" json:"paths,omitempty"`

	// Components holds OAS 3.x reusable objects
	Components *Components `yaml:"components,omitempty" json:"components,omitempty"`
	// Definitions holds OAS 2.0 reusable schemas
	Definitions map[string]*Schema `yaml:"definitions,omitempty" json:"definitions,omitempty"`

	// Extra captures fields outside the modeled subset (servers, tags,
	// security, specification extensions)
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Info holds the specification metadata block.
type Info struct {
	Title       string         `yaml:"title,omitempty" json:"title,omitempty"`
	Version     string         `yaml:"version,omitempty" json:"version,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Components holds OAS 3.x reusable objects. Only schemas participate in
// reference resolution; other component kinds ride along in Extra.
type Components struct {
	Schemas map[string]*Schema `yaml:"schemas,omitempty" json:"schemas,omitempty"`
	Extra   map[string]any     `yaml:",inline" json:"-"`
}

// IsOAS2 reports whether the document declared itself as Swagger 2.0.
func (d *Document) IsOAS2() bool {
	return d != nil && d.Swagger != ""
}

// Version returns the declared specification version string, or "" when
// the document declares neither openapi nor swagger.
func (d *Document) Version() string {
	if d == nil {
		return ""
	}
	if d.OpenAPI != "" {
		return d.OpenAPI
	}
	return d.Swagger
}

// SchemaComponent looks up a reusable schema by name, checking the OAS 3.x
// components section first and falling back to OAS 2.0 definitions.
func (d *Document) SchemaComponent(name string) *Schema {
	if d == nil {
		return nil
	}
	if d.Components != nil {
		if s, ok := d.Components.Schemas[name]; ok {
			return s
		}
	}
	if s, ok := d.Definitions[name]; ok {
		return s
	}
	return nil
}
