package conformance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/apitap/apitap/capture"
	"github.com/apitap/apitap/internal/httputil"
	"github.com/apitap/apitap/specdoc"
	"github.com/apitap/apitap/taperrors"
)

// Validator checks traffic records against one resolved specification.
//
// A Validator is immutable after New and safe for concurrent use; it holds
// the parsed document by reference and never mutates it.
type Validator struct {
	doc      *specdoc.Document
	matchers *pathMatcherSet
	schemas  *SchemaValidator
	log      specdoc.Logger
}

// New builds a Validator from a parsed specification.
func New(result *specdoc.ParseResult, opts ...Option) (*Validator, error) {
	if result == nil || result.Document == nil {
		return nil, &taperrors.ConfigError{Option: "ParseResult", Message: "nil parse result"}
	}
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	matchers, err := newPathMatcherSet(result.Document.Paths.Templates(), cfg.mode, cfg.tieBreak)
	if err != nil {
		return nil, &taperrors.ConfigError{Option: "Paths", Message: err.Error()}
	}

	cfg.logger.Debug("validator ready",
		"paths", result.Document.Paths.Len(),
		"mode", cfg.mode.String(),
		"tieBreak", cfg.tieBreak.String())

	return &Validator{
		doc:      result.Document,
		matchers: matchers,
		schemas:  NewSchemaValidator(),
		log:      cfg.logger,
	}, nil
}

// resolution is the outcome of path and method lookup for one record.
type resolution struct {
	template   string
	pathParams map[string]string
	item       *specdoc.PathItem
	op         *specdoc.Operation
	params     []*specdoc.Parameter
	terminal   *ValidationError
}

// resolve runs the matcher and operation lookup shared by both flows.
// A failure produces a single terminal error for the direction.
func (v *Validator) resolve(rec *capture.Record) resolution {
	path := normalizeRequestPath(rec.URL)

	template, pathParams, found := v.matchers.match(path)
	if !found {
		return resolution{terminal: &ValidationError{
			Path:        "path",
			Message:     fmt.Sprintf("no declared path matches %q", path),
			Code:        CodePathNotFound,
			ActualValue: path,
		}}
	}

	item := v.doc.Paths.Get(template)
	op := item.Operation(rec.Method)
	if op == nil {
		return resolution{
			template:   template,
			pathParams: pathParams,
			terminal: &ValidationError{
				Path:        "method",
				Message:     fmt.Sprintf("path %q does not declare method %s", template, rec.Method),
				Code:        CodeMethodNotAllowed,
				ActualValue: rec.Method,
				Expected:    strings.Join(declaredMethods(item), ", "),
			},
		}
	}

	v.log.Debug("matched operation", "template", template, "method", rec.Method)

	return resolution{
		template:   template,
		pathParams: pathParams,
		item:       item,
		op:         op,
		params:     mergeParameters(item.Parameters, op.Parameters),
	}
}

// ValidateRequest checks the request direction of a traffic record:
// path match, method, parameters in all locations, and the request body.
func (v *Validator) ValidateRequest(rec *capture.Record) Result {
	return v.validateRequestWith(v.resolve(rec), rec)
}

func (v *Validator) validateRequestWith(res resolution, rec *capture.Record) Result {
	if res.terminal != nil {
		return newResult([]ValidationError{*res.terminal})
	}

	var errs []ValidationError

	errs = append(errs, v.validateParameters(res.params, LocationPath, res.pathParams)...)
	errs = append(errs, v.validateParameters(res.params, LocationQuery, mergeQuery(rec))...)
	errs = append(errs, v.validateParameters(res.params, LocationHeader, rec.Headers)...)

	errs = append(errs, v.validateRequestBody(res.op, rec.Body)...)

	return newResult(errs)
}

func (v *Validator) validateRequestBody(op *specdoc.Operation, rawBody any) []ValidationError {
	if op.RequestBody == nil {
		return nil
	}

	body, present, err := decodeBody(rawBody)
	if err != nil {
		// Malformed JSON is one body-level error; body validation for
		// this direction stops here.
		return []ValidationError{{
			Path:    "requestBody",
			Message: fmt.Sprintf("request body is not valid JSON: %v", err),
			Code:    CodeValidationError,
		}}
	}
	if !present {
		if op.RequestBody.Required {
			return []ValidationError{{
				Path:    "requestBody",
				Message: "required request body is missing",
				Code:    CodeRequired,
			}}
		}
		return nil
	}
	return v.schemas.Validate(body, op.RequestBody.BodySchema(), "requestBody")
}

// ValidateResponse checks the response direction: status-code resolution
// against the declared responses, the 204 no-body rule, declared response
// headers, and the response body schema.
func (v *Validator) ValidateResponse(rec *capture.Record) Result {
	return v.validateResponseWith(v.resolve(rec), rec)
}

func (v *Validator) validateResponseWith(res resolution, rec *capture.Record) Result {
	if res.terminal != nil {
		return newResult([]ValidationError{*res.terminal})
	}

	resp := resolveResponse(res.op, rec.Status)
	if resp == nil {
		return newResult([]ValidationError{{
			Path:        "status",
			Message:     fmt.Sprintf("status %d is not declared for %s %s", rec.Status, rec.Method, res.template),
			Code:        CodeUnexpectedStatusCode,
			ActualValue: rec.Status,
			Expected:    strings.Join(declaredStatusKeys(res.op), ", "),
		}})
	}

	body, present, err := decodeBody(rec.ResponseBody)

	// 204 means no content: any non-empty body is wrong on its own and
	// nothing is schema-validated, declared schema or not.
	if rec.Status == 204 {
		if present || err != nil {
			return newResult([]ValidationError{{
				Path:    "responseBody",
				Message: "response with status 204 must not have a body",
				Code:    CodeUnexpectedBody,
			}})
		}
		return newResult(nil)
	}

	var errs []ValidationError
	errs = append(errs, v.validateResponseHeaders(resp, rec.ResponseHeaders)...)

	if err != nil {
		errs = append(errs, ValidationError{
			Path:    "responseBody",
			Message: fmt.Sprintf("response body is not valid JSON: %v", err),
			Code:    CodeValidationError,
		})
		return newResult(errs)
	}
	if present {
		if schema := resp.BodySchema(); schema != nil {
			errs = append(errs, v.schemas.Validate(body, schema, "responseBody")...)
		}
	}

	return newResult(errs)
}

func (v *Validator) validateResponseHeaders(resp *specdoc.Response, headers map[string]string) []ValidationError {
	if len(resp.Headers) == 0 {
		return nil
	}

	lowered := make(map[string]string, len(headers))
	for name, value := range headers {
		lowered[strings.ToLower(name)] = value
	}

	var errs []ValidationError
	for name, header := range resp.Headers {
		if header == nil {
			continue
		}
		raw, present := lowered[strings.ToLower(name)]
		if !present || raw == "" {
			if header.Required {
				errs = append(errs, ValidationError{
					Path:     name,
					Message:  "required response header is missing",
					Code:     CodeRequired,
					Expected: "response header " + strconv.Quote(name),
				})
			}
			continue
		}
		if header.Schema != nil {
			coerced := coerceWireValue(raw, header.Schema)
			errs = append(errs, v.schemas.Validate(coerced, header.Schema, name)...)
		}
	}
	return errs
}

// Check validates both directions of one traffic record. Path and method
// lookup runs once and feeds both directions. The response direction is
// skipped (reported valid, no errors) when the record carries no response.
func (v *Validator) Check(rec *capture.Record) *Report {
	report := &Report{Method: rec.Method}

	res := v.resolve(rec)
	report.Template = res.template
	report.PathParams = res.pathParams

	report.Request = v.validateRequestWith(res, rec)
	if rec.HasResponse() {
		report.Response = v.validateResponseWith(res, rec)
	} else {
		report.Response = newResult(nil)
	}
	return report
}

// Document returns the specification document this validator serves.
func (v *Validator) Document() *specdoc.Document {
	return v.doc
}

// resolveResponse picks the declared response for a status code by trying,
// in order, the exact code, the class wildcard ("2XX"), then "default".
func resolveResponse(op *specdoc.Operation, status int) *specdoc.Response {
	if len(op.Responses) == 0 {
		return nil
	}
	if resp, ok := op.Responses[strconv.Itoa(status)]; ok {
		return resp
	}
	wildcard := httputil.WildcardKey(status)
	for key, resp := range op.Responses {
		if key != httputil.DefaultStatusKey && strings.EqualFold(key, wildcard) {
			return resp
		}
	}
	return op.Responses[httputil.DefaultStatusKey]
}

// mergeQuery unions parameters parsed from the URL with the explicitly
// supplied query map; explicit entries win.
func mergeQuery(rec *capture.Record) map[string]string {
	fromURL := queryFromURL(rec.URL)
	if len(rec.Query) == 0 {
		return fromURL
	}
	merged := make(map[string]string, len(fromURL)+len(rec.Query))
	for name, value := range fromURL {
		merged[name] = value
	}
	for name, value := range rec.Query {
		merged[name] = value
	}
	return merged
}

// decodeBody normalizes the record's body field: raw JSON text is decoded,
// already-parsed values pass through, and nil or blank text means absent.
func decodeBody(raw any) (value any, present bool, err error) {
	switch b := raw.(type) {
	case nil:
		return nil, false, nil
	case string:
		return decodeBodyText([]byte(b))
	case []byte:
		return decodeBodyText(b)
	default:
		return raw, true, nil
	}
}

func decodeBodyText(data []byte) (any, bool, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, false, nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, true, err
	}
	return value, true, nil
}

func declaredMethods(item *specdoc.PathItem) []string {
	var methods []string
	for _, m := range httputil.Methods {
		if item.Operation(m) != nil {
			methods = append(methods, strings.ToUpper(m))
		}
	}
	return methods
}

func declaredStatusKeys(op *specdoc.Operation) []string {
	keys := make([]string, 0, len(op.Responses))
	for key := range op.Responses {
		keys = append(keys, key)
	}
	// Stable output for error messages
	sort.Strings(keys)
	return keys
}
