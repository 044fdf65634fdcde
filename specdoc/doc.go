// Package specdoc parses OpenAPI Specification documents into the typed
// in-memory model that conformance checking runs against.
//
// The package handles three one-shot transforms, executed when a new
// specification is loaded:
//
//   - Parsing: JSON (leading '{') or YAML text into a Document, with a
//     structural gate rejecting documents lacking an info block or a
//     non-empty paths map
//   - Reference resolution: internal component-schema $refs are inlined with
//     deep copies, bounded-depth and cycle-safe, so the validator never
//     chases pointers
//   - Normalization: the OAS 3.0 nullable flag is rewritten into a type-list
//     union and presentation-only keys are stripped, so downstream code only
//     reasons about one canonical schema shape
//
// The resulting ParseResult is treated as immutable: it is built once per
// loaded specification and shared, by reference, across arbitrarily many
// concurrent validation calls.
//
// # Basic Usage
//
//	result, err := specdoc.New().ParseFile("openapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Document.Info.Title)
//
// Both OAS 2.0 (Swagger) and OAS 3.x documents are accepted; only the
// subset of the specification that affects traffic conformance is modeled.
package specdoc
