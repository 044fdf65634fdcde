// Package apitap provides schema-conformance checking of captured HTTP
// traffic against OpenAPI Specification (OAS) contracts.
//
// apitap answers two questions for every captured request/response pair:
// which documented operation does the traffic correspond to, and do its
// headers, path/query parameters, and JSON bodies conform to the declared
// schemas.
//
// # Overview
//
// The library consists of three primary packages:
//
//   - specdoc: parse OpenAPI 2.0/3.x documents, inline internal schema
//     references, and normalize schemas for validation
//   - conformance: match traffic to operations and validate it, producing a
//     closed taxonomy of structured validation errors
//   - capture: traffic record types, correlation bookkeeping, and importers
//     for JSON traffic files and HAR logs
//
// # Quick Start
//
// Load a specification and check a traffic record:
//
//	result, err := specdoc.New().Parse(specText)
//	if err != nil {
//		log.Fatal(err)
//	}
//	v, err := conformance.New(result)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report := v.Check(&capture.Record{
//		Method: "GET",
//		URL:    "/users/42?includeDetails=true",
//		Status: 200,
//	})
//	for _, e := range report.Request.Errors {
//		fmt.Printf("%s: %s\n", e.Path, e.Message)
//	}
//
// For long-lived hosts that reload specifications, conformance.Store holds
// the active validator behind an atomic reference so in-flight checks always
// see a consistent spec.
package apitap
