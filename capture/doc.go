// Package capture models captured HTTP traffic and its bookkeeping.
//
// The conformance core consumes one [Record] per request/response pair; this
// package supplies that record plus the plumbing around it: a [Journal] that
// correlates in-flight requests with their eventual responses by id, and
// importers that read traffic from HAR archives and plain JSON record files.
package capture
