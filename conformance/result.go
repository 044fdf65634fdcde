package conformance

// ValidationError describes one conformance violation.
type ValidationError struct {
	// Path locates the violating value: a dotted/bracketed locator such
	// as "requestBody.items[2].name", or a parameter name
	Path string `json:"path"`
	// Message is the human-readable description
	Message string `json:"message"`
	// Code is the taxonomy classification
	Code ErrorCode `json:"errorCode"`
	// ActualValue is the offending value, when one exists
	ActualValue any `json:"actualValue,omitempty"`
	// ActualType is the JSON type of the offending value
	ActualType string `json:"actualType,omitempty"`
	// Expected describes what the schema demanded
	Expected string `json:"expected,omitempty"`
}

// Result is the outcome of validating one direction of a traffic record.
// It is constructed fresh per record and never mutated after return.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// newResult wraps an error list, deriving Valid.
func newResult(errs []ValidationError) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Report pairs the request and response results for one traffic record,
// along with what the matcher resolved.
type Report struct {
	// Template is the matched path template, "" when nothing matched
	Template string `json:"template,omitempty"`
	// Method is the request method the report was built for
	Method string `json:"method,omitempty"`
	// PathParams holds the values extracted from the matched template
	PathParams map[string]string `json:"pathParams,omitempty"`

	Request  Result `json:"request"`
	Response Result `json:"response"`
}

// Valid reports whether both directions passed.
func (r *Report) Valid() bool {
	return r.Request.Valid && r.Response.Valid
}
