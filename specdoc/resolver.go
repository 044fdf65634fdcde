package specdoc

import (
	"fmt"
	"strings"

	"github.com/apitap/apitap/taperrors"
)

// DefaultMaxRefDepth is the default bound on nested $ref resolution.
const DefaultMaxRefDepth = 20

// refPrefixes are the internal reference roots resolution understands:
// OAS 3.x component schemas and OAS 2.0 definitions. External references
// (files, URLs) are out of scope and left untouched with a warning.
var refPrefixes = []string{
	"#/components/schemas/",
	"#/definitions/",
}

// refResolver inlines internal schema references with deep copies.
//
// Resolution is cycle-safe via a resolving set: a reference encountered
// while its own expansion is in progress is left in place as an
// unresolved node rather than expanded forever. The depth counter bounds
// chains of distinct references the same way. Both cases degrade the
// document instead of failing the load; the validator treats a bare
// leftover $ref node as unconstrained.
type refResolver struct {
	doc       *Document
	maxDepth  int
	resolving map[string]bool
	warned    map[string]bool
	warnings  []string
	refErrors []*taperrors.ReferenceError
	log       Logger
}

// resolveDocument inlines every internal schema reference reachable from
// the document's paths and components. It returns warnings for references
// it had to leave unresolved, plus the same failures as typed
// *taperrors.ReferenceError values for errors.Is / errors.As handling.
// Running it on an already-resolved document is a no-op.
func resolveDocument(doc *Document, maxDepth int, log Logger) ([]string, []*taperrors.ReferenceError) {
	rr := &refResolver{
		doc:       doc,
		maxDepth:  maxDepth,
		resolving: make(map[string]bool),
		warned:    make(map[string]bool),
		log:       log,
	}

	// Resolve component trees first so path-position inlining copies
	// already-resolved schemas. Each component is guarded against direct
	// self-reference while its own tree resolves.
	rr.resolveComponents()

	for _, template := range doc.Paths.Templates() {
		item := doc.Paths.Get(template)
		if item == nil {
			continue
		}
		rr.resolveParameters(item.Parameters)
		for _, op := range item.Operations() {
			rr.resolveParameters(op.Parameters)
			if op.RequestBody != nil {
				rr.resolveContent(op.RequestBody.Content)
			}
			for _, resp := range op.Responses {
				if resp == nil {
					continue
				}
				rr.resolveContent(resp.Content)
				resp.Schema = rr.resolveSchema(resp.Schema, 0)
				for _, h := range resp.Headers {
					if h != nil {
						h.Schema = rr.resolveSchema(h.Schema, 0)
					}
				}
			}
		}
	}
	return rr.warnings, rr.refErrors
}

func (rr *refResolver) resolveComponents() {
	resolveNamed := func(prefix string, schemas map[string]*Schema) {
		for name, s := range schemas {
			ref := prefix + name
			rr.resolving[ref] = true
			schemas[name] = rr.resolveSchema(s, 0)
			delete(rr.resolving, ref)
		}
	}
	if rr.doc.Components != nil {
		resolveNamed("#/components/schemas/", rr.doc.Components.Schemas)
	}
	resolveNamed("#/definitions/", rr.doc.Definitions)
}

func (rr *refResolver) resolveParameters(params []*Parameter) {
	for _, param := range params {
		if param == nil {
			continue
		}
		param.Schema = rr.resolveSchema(param.Schema, 0)
		param.Items = rr.resolveSchema(param.Items, 0)
	}
}

func (rr *refResolver) resolveContent(content map[string]*MediaType) {
	for _, mt := range content {
		if mt != nil {
			mt.Schema = rr.resolveSchema(mt.Schema, 0)
		}
	}
}

// resolveSchema returns the resolved form of s. Reference nodes resolve
// to a deep copy of their target with the reference's own nesting level
// incremented; non-reference nodes are resolved in place.
func (rr *refResolver) resolveSchema(s *Schema, depth int) *Schema {
	if s == nil {
		return nil
	}
	if s.Ref != "" {
		return rr.inlineRef(s, depth)
	}

	for name, prop := range s.Properties {
		s.Properties[name] = rr.resolveSchema(prop, depth)
	}
	s.Items = rr.resolveSchema(s.Items, depth)
	for i, sub := range s.AllOf {
		s.AllOf[i] = rr.resolveSchema(sub, depth)
	}
	for i, sub := range s.AnyOf {
		s.AnyOf[i] = rr.resolveSchema(sub, depth)
	}
	for i, sub := range s.OneOf {
		s.OneOf[i] = rr.resolveSchema(sub, depth)
	}
	return s
}

func (rr *refResolver) inlineRef(s *Schema, depth int) *Schema {
	ref := s.Ref
	name, ok := componentName(ref)
	if !ok {
		rr.warn(&taperrors.ReferenceError{
			Ref: ref, Message: "unsupported reference target, leaving unresolved"})
		return s
	}
	if depth >= rr.maxDepth {
		rr.warn(&taperrors.ReferenceError{
			Ref: ref, DepthExceeded: true,
			Message: fmt.Sprintf("maximum resolution depth %d exceeded, leaving unresolved", rr.maxDepth)})
		return s
	}
	if rr.resolving[ref] {
		rr.warn(&taperrors.ReferenceError{
			Ref: ref, IsCircular: true, Message: "circular reference, leaving unresolved"})
		return s
	}
	target := rr.doc.SchemaComponent(name)
	if target == nil {
		rr.warn(&taperrors.ReferenceError{
			Ref: ref, Message: "unknown component, leaving unresolved"})
		return s
	}

	rr.resolving[ref] = true
	clone := target.Clone()
	clone.Ref = ""
	resolved := rr.resolveSchema(clone, depth+1)
	delete(rr.resolving, ref)

	rr.log.Debug("resolved reference", "ref", ref, "depth", depth)
	return resolved
}

func (rr *refResolver) warn(refErr *taperrors.ReferenceError) {
	key := refErr.Ref + ": " + refErr.Message
	if rr.warned[key] {
		return
	}
	rr.warned[key] = true
	rr.warnings = append(rr.warnings, fmt.Sprintf("$ref %q: %s", refErr.Ref, refErr.Message))
	rr.refErrors = append(rr.refErrors, refErr)
	rr.log.Warn("reference left unresolved", "ref", refErr.Ref, "reason", refErr.Message)
}

// componentName extracts the schema name from an internal reference.
// Only direct component/definition references are supported; anything
// with further path segments or an external target returns false.
func componentName(ref string) (string, bool) {
	for _, prefix := range refPrefixes {
		if name, ok := strings.CutPrefix(ref, prefix); ok {
			if name != "" && !strings.Contains(name, "/") {
				return name, true
			}
		}
	}
	return "", false
}
