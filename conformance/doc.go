// Package conformance checks captured HTTP traffic against a parsed
// OpenAPI specification.
//
// A [Validator] is built once from a specdoc.ParseResult and then answers,
// for each capture.Record, two independent questions: does the request
// conform to the matched operation's declared parameters and body, and does
// the response conform to the declared response for its status code. Each
// direction yields a [Result] carrying zero or more [ValidationError]
// values drawn from a closed code taxonomy.
//
// Validation is pure: a Validator holds no mutable state besides a compiled
// regex cache, so one instance serves arbitrarily many concurrent checks.
// The [Store] adds the load-and-replace lifecycle on top: loading a new
// specification atomically swaps the active Validator, and a failed load
// keeps the previous one serving.
//
// # Basic Usage
//
//	result, err := specdoc.New().ParseFile("openapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, err := conformance.New(result)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report := v.Check(&capture.Record{
//	    Method: "GET",
//	    URL:    "/users/42",
//	    Status: 200,
//	    ResponseBody: `{"id": 42, "name": "Ada"}`,
//	})
//	if !report.Request.Valid || !report.Response.Valid {
//	    // inspect report.Request.Errors / report.Response.Errors
//	}
package conformance
