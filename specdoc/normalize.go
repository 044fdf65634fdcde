package specdoc

// normalizeDocument rewrites every schema reachable from the document into
// the canonical validation shape:
//
//   - nullable: true folds into the type list ("string" becomes
//     ["string", "null"]) and the flag clears
//   - presentation-only keys (title, description, examples, xml, ...) are
//     stripped
//   - OAS 2.0 inline parameter constraints lift into a Schema
//
// After normalization the conformance validator reasons about exactly one
// schema shape regardless of source version.
func normalizeDocument(doc *Document) {
	if doc.Components != nil {
		for _, s := range doc.Components.Schemas {
			normalizeSchema(s)
		}
	}
	for _, s := range doc.Definitions {
		normalizeSchema(s)
	}
	for _, template := range doc.Paths.Templates() {
		item := doc.Paths.Get(template)
		if item == nil {
			continue
		}
		normalizeParameters(item.Parameters)
		for _, op := range item.Operations() {
			normalizeParameters(op.Parameters)
			if op.RequestBody != nil {
				normalizeContent(op.RequestBody.Content)
			}
			for _, resp := range op.Responses {
				if resp == nil {
					continue
				}
				normalizeContent(resp.Content)
				normalizeSchema(resp.Schema)
				for _, h := range resp.Headers {
					normalizeHeader(h)
				}
			}
		}
	}
}

func normalizeParameters(params []*Parameter) {
	for _, param := range params {
		liftParameterSchema(param)
		normalizeSchema(param.Schema)
	}
}

func normalizeContent(content map[string]*MediaType) {
	for _, mt := range content {
		if mt != nil {
			normalizeSchema(mt.Schema)
		}
	}
}

func normalizeHeader(h *Header) {
	if h == nil {
		return
	}
	if h.Schema == nil && h.Type != "" {
		h.Schema = &Schema{Type: h.Type, Format: h.Format}
	}
	h.Type = ""
	h.Format = ""
	normalizeSchema(h.Schema)
}

// liftParameterSchema moves OAS 2.0 inline constraints into a Schema so
// validation never branches on the declaration style. Parameters that
// already carry a schema are left alone.
func liftParameterSchema(p *Parameter) {
	if p == nil {
		return
	}
	if p.Schema == nil && hasInlineConstraints(p) {
		p.Schema = &Schema{
			Format:    p.Format,
			Items:     p.Items,
			Enum:      p.Enum,
			Pattern:   p.Pattern,
			Minimum:   p.Minimum,
			Maximum:   p.Maximum,
			MinLength: p.MinLength,
			MaxLength: p.MaxLength,
		}
		if p.Type != "" {
			p.Schema.Type = p.Type
		}
	}
	p.Type = ""
	p.Format = ""
	p.Items = nil
	p.Enum = nil
	p.Pattern = ""
	p.Minimum = nil
	p.Maximum = nil
	p.MinLength = nil
	p.MaxLength = nil
}

func hasInlineConstraints(p *Parameter) bool {
	return p.Type != "" || p.Format != "" || p.Items != nil || len(p.Enum) > 0 ||
		p.Pattern != "" || p.Minimum != nil || p.Maximum != nil ||
		p.MinLength != nil || p.MaxLength != nil
}

// normalizeSchema canonicalizes one schema tree in place.
func normalizeSchema(s *Schema) {
	if s == nil {
		return
	}

	if s.Nullable {
		// A schema with no declared type already admits null, so only a
		// declared type needs widening into a union.
		if types := s.Types(); len(types) > 0 && !containsType(types, "null") {
			s.Type = append(types, "null")
		}
		s.Nullable = false
	}

	s.Title = ""
	s.Description = ""
	s.Default = nil
	s.Example = nil
	s.Examples = nil
	s.Deprecated = false
	s.XML = nil
	s.ExternalDocs = nil
	s.Discriminator = nil

	for _, prop := range s.Properties {
		normalizeSchema(prop)
	}
	normalizeSchema(s.Items)
	for _, sub := range s.AllOf {
		normalizeSchema(sub)
	}
	for _, sub := range s.AnyOf {
		normalizeSchema(sub)
	}
	for _, sub := range s.OneOf {
		normalizeSchema(sub)
	}
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
