package specdoc

import "strings"

// PathItem holds the operations declared under one path template, plus any
// path-level parameters shared by all of them.
type PathItem struct {
	Get     *Operation `yaml:"get,omitempty" json:"get,omitempty"`
	Put     *Operation `yaml:"put,omitempty" json:"put,omitempty"`
	Post    *Operation `yaml:"post,omitempty" json:"post,omitempty"`
	Delete  *Operation `yaml:"delete,omitempty" json:"delete,omitempty"`
	Options *Operation `yaml:"options,omitempty" json:"options,omitempty"`
	Head    *Operation `yaml:"head,omitempty" json:"head,omitempty"`
	Patch   *Operation `yaml:"patch,omitempty" json:"patch,omitempty"`

	Parameters []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`

	Extra map[string]any `yaml:",inline" json:"-"`
}

// Operation returns the operation for an HTTP method (case-insensitive),
// or nil when the path does not declare it.
func (pi *PathItem) Operation(method string) *Operation {
	if pi == nil {
		return nil
	}
	switch strings.ToLower(method) {
	case "get":
		return pi.Get
	case "put":
		return pi.Put
	case "post":
		return pi.Post
	case "delete":
		return pi.Delete
	case "options":
		return pi.Options
	case "head":
		return pi.Head
	case "patch":
		return pi.Patch
	}
	return nil
}

// Operations returns the declared operations keyed by lowercase method.
func (pi *PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation, 7)
	for _, m := range []string{"get", "put", "post", "delete", "options", "head", "patch"} {
		if op := pi.Operation(m); op != nil {
			ops[m] = op
		}
	}
	return ops
}

// Operation describes a single method on a path.
type Operation struct {
	OperationID string       `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string     `yaml:"tags,omitempty" json:"tags,omitempty"`
	Deprecated  bool         `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`

	// Responses is keyed by status: an exact code ("200"), a wildcard
	// class ("2XX"), or "default".
	Responses map[string]*Response `yaml:"responses,omitempty" json:"responses,omitempty"`

	Extra map[string]any `yaml:",inline" json:"-"`
}

// RequestBody describes an operation's request payload (OAS 3.x).
type RequestBody struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	Extra       map[string]any        `yaml:",inline" json:"-"`
}

// Response describes one declared response. OAS 3.x nests schemas under
// content media types; OAS 2.0 attaches a schema directly.
type Response struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Headers     map[string]*Header    `yaml:"headers,omitempty" json:"headers,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`

	// Schema is the OAS 2.0 response schema
	Schema *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`

	Extra map[string]any `yaml:",inline" json:"-"`
}

// MediaType pairs a content type with its schema.
type MediaType struct {
	Schema *Schema        `yaml:"schema,omitempty" json:"schema,omitempty"`
	Extra  map[string]any `yaml:",inline" json:"-"`
}

// BodySchema returns the schema governing a body in this response,
// preferring JSON media types, then any declared media type, then the
// OAS 2.0 direct schema.
func (r *Response) BodySchema() *Schema {
	if r == nil {
		return nil
	}
	if s := jsonContentSchema(r.Content); s != nil {
		return s
	}
	return r.Schema
}

// BodySchema returns the request body schema, preferring JSON media types.
func (rb *RequestBody) BodySchema() *Schema {
	if rb == nil {
		return nil
	}
	return jsonContentSchema(rb.Content)
}

// jsonContentSchema picks the schema from a content map. JSON media types
// win; otherwise the sole declared media type is used, and with several
// non-JSON types declared there is no single schema to validate against.
func jsonContentSchema(content map[string]*MediaType) *Schema {
	if len(content) == 0 {
		return nil
	}
	for mediaType, mt := range content {
		base := mediaType
		if i := strings.Index(base, ";"); i >= 0 {
			base = strings.TrimSpace(base[:i])
		}
		base = strings.ToLower(base)
		if base == "application/json" || strings.HasSuffix(base, "+json") {
			if mt != nil {
				return mt.Schema
			}
		}
	}
	if len(content) == 1 {
		for _, mt := range content {
			if mt != nil {
				return mt.Schema
			}
		}
	}
	return nil
}
