package specdoc

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/segmentio/encoding/json"
	yaml "go.yaml.in/yaml/v4"

	"github.com/apitap/apitap/internal/httputil"
	"github.com/apitap/apitap/taperrors"
)

// Parser handles specification parsing for traffic conformance.
type Parser struct {
	// ResolveRefs determines whether internal $ref references are inlined.
	ResolveRefs bool
	// Normalize determines whether schemas are rewritten to the canonical
	// shape (nullable folded into the type list, presentation keys
	// stripped, OAS 2.0 inline parameter constraints lifted).
	Normalize bool
	// ValidateStructure determines whether the structural gate runs: a
	// document must carry an info block and a non-empty paths map.
	ValidateStructure bool
	// MaxRefDepth is the maximum nesting depth for $ref resolution.
	// Default: 20
	MaxRefDepth int
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// New creates a Parser with default settings: references resolved,
// schemas normalized, and the structural gate enabled.
func New() *Parser {
	return &Parser{
		ResolveRefs:       true,
		Normalize:         true,
		ValidateStructure: true,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of the source specification text.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
)

// ParseResult contains the parsed specification and metadata.
//
// Callers should treat a ParseResult as read-only after parsing: the
// conformance package shares one result across concurrent validations and
// replaces it wholesale when a new spec loads.
type ParseResult struct {
	// SourcePath is the input source path. When the source was not a
	// file, it is set to the parse method name with the detected
	// format's extension (e.g. "Parse.yaml").
	SourcePath string
	// SourceFormat is the detected input format
	SourceFormat SourceFormat
	// Version is the declared OAS version string (e.g. "2.0", "3.0.3"),
	// or "" when the document declares none
	Version string
	// Document is the parsed, resolved, normalized document
	Document *Document
	// Warnings contains non-fatal issues such as unresolved references
	// and suspicious status keys
	Warnings []string
	// ReferenceErrors holds the typed form of reference-resolution
	// warnings. Each entry matches taperrors.ErrReference via errors.Is,
	// and cyclic ones additionally match taperrors.ErrCircularReference.
	// The load itself still succeeds; unresolved nodes stay in place.
	ReferenceErrors []*taperrors.ReferenceError
	// LoadTime is the time taken to read the source data
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// ParseFile reads and parses a specification file.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := os.ReadFile(path)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, &taperrors.ParseError{Source: path, Message: "failed to read file", Cause: err}
	}
	res, err := p.parse(data, path)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	return res, nil
}

// ParseReader parses a specification from an io.Reader.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(r)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, &taperrors.ParseError{Message: "failed to read data", Cause: err}
	}
	res, err := p.parse(data, "")
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourcePath = "ParseReader." + string(res.SourceFormat)
	return res, nil
}

// Parse parses a specification from a byte slice.
func (p *Parser) Parse(data []byte) (*ParseResult, error) {
	res, err := p.parse(data, "")
	if err != nil {
		return nil, err
	}
	res.SourcePath = "Parse." + string(res.SourceFormat)
	return res, nil
}

func (p *Parser) parse(data []byte, source string) (*ParseResult, error) {
	result := &ParseResult{
		SourcePath:   source,
		SourceFormat: DetectFormat(data),
		SourceSize:   int64(len(data)),
	}

	var doc Document
	if result.SourceFormat == SourceFormatJSON {
		// JSON fast-path: segmentio's decoder avoids the YAML AST overhead
		// for JSON input, which is the common machine-generated form.
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &taperrors.ParseError{Source: source, Message: "failed to parse JSON", Cause: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &taperrors.ParseError{Source: source, Message: "failed to parse YAML", Cause: err}
		}
	}

	result.Version = doc.Version()
	result.Document = &doc

	if p.ValidateStructure {
		if err := p.validateStructure(&doc, source); err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, p.structureWarnings(&doc)...)
	}

	if p.ResolveRefs {
		depth := p.MaxRefDepth
		if depth <= 0 {
			depth = DefaultMaxRefDepth
		}
		warnings, refErrs := resolveDocument(&doc, depth, p.log())
		result.Warnings = append(result.Warnings, warnings...)
		result.ReferenceErrors = refErrs
	}

	if p.Normalize {
		normalizeDocument(&doc)
	}

	p.log().Debug("parsed specification",
		"source", source,
		"format", result.SourceFormat,
		"version", result.Version,
		"paths", doc.Paths.Len(),
		"warnings", len(result.Warnings))

	return result, nil
}

// validateStructure is the structural gate: a usable document needs an
// info block and at least one path. Anything less cannot anchor traffic
// checks and is rejected outright so a stale-but-working spec stays live.
func (p *Parser) validateStructure(doc *Document, source string) error {
	if doc.Info == nil {
		return &taperrors.ParseError{Source: source, Message: "missing required root field 'info'"}
	}
	if doc.Paths.Len() == 0 {
		return &taperrors.ParseError{Source: source, Message: "missing or empty required root field 'paths'"}
	}
	return nil
}

// structureWarnings reports non-fatal oddities: missing version
// declarations, templates without a leading slash, unknown status keys.
func (p *Parser) structureWarnings(doc *Document) []string {
	var warnings []string
	if doc.Version() == "" {
		warnings = append(warnings, "document declares neither 'openapi' nor 'swagger'")
	}
	for _, template := range doc.Paths.Templates() {
		if template == "" || template[0] != '/' {
			warnings = append(warnings, fmt.Sprintf("path template %q does not begin with '/'", template))
		}
		item := doc.Paths.Get(template)
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			for key := range op.Responses {
				if !httputil.ValidateStatusKey(key) {
					warnings = append(warnings, fmt.Sprintf(
						"invalid status key %q in paths.%s.%s.responses", key, template, method))
				}
			}
		}
	}
	return warnings
}

// DetectFormat classifies specification text as JSON or YAML. Text whose
// first non-whitespace byte (after an optional UTF-8 BOM) is '{' is JSON;
// everything else is treated as YAML, which is a superset anyway.
func DetectFormat(data []byte) SourceFormat {
	i := 0
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		i = 3
	}
	for ; i < len(data); i++ {
		switch data[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return SourceFormatJSON
		default:
			return SourceFormatYAML
		}
	}
	return SourceFormatYAML
}
