package capture

import "time"

// Record is one captured request/response exchange, normalized for
// conformance checking. It is the sole input contract between whatever
// observed the traffic and the validation core.
type Record struct {
	// ID correlates the record across capture events. Optional; the
	// Journal assigns one when the producer has none.
	ID string `json:"id,omitempty"`

	// Method is the HTTP request method (e.g. "GET")
	Method string `json:"method"`
	// URL is the request target: absolute ("https://host/path?q=1") or
	// path-only ("/path?q=1"), with or without a query string
	URL string `json:"url"`
	// Headers holds request headers, one value per name
	Headers map[string]string `json:"headers,omitempty"`
	// Query holds explicitly supplied query parameters. These take
	// precedence over parameters parsed out of URL during validation.
	Query map[string]string `json:"query,omitempty"`
	// Body is the request body: an already-parsed JSON value, or raw
	// JSON text as string/[]byte, or nil when absent
	Body any `json:"body,omitempty"`

	// Status is the numeric response status code
	Status int `json:"status,omitempty"`
	// ResponseHeaders holds response headers, one value per name
	ResponseHeaders map[string]string `json:"responseHeaders,omitempty"`
	// ResponseBody mirrors Body for the response direction
	ResponseBody any `json:"responseBody,omitempty"`

	// StartedAt and CompletedAt bound the exchange when known
	StartedAt   time.Time `json:"startedAt,omitempty"`
	CompletedAt time.Time `json:"completedAt,omitempty"`
}

// HasResponse reports whether the record carries a response to validate.
func (r *Record) HasResponse() bool {
	return r != nil && r.Status != 0
}
