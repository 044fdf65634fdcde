package conformance

import (
	"sync/atomic"
	"time"

	"github.com/apitap/apitap/capture"
	"github.com/apitap/apitap/specdoc"
	"github.com/apitap/apitap/taperrors"
)

// LoadedSpec pairs a parsed specification with the validator built from it.
type LoadedSpec struct {
	// Result is the parse result the validator was built from
	Result *specdoc.ParseResult
	// Validator serves checks against this specification
	Validator *Validator
	// LoadedAt records when the specification became active
	LoadedAt time.Time
}

// Store owns the active specification across reloads.
//
// Loading a new specification atomically replaces the shared reference, so
// in-flight checks against the old spec complete consistently, and a
// failed load leaves the previous specification active. A Store starts
// empty; Check before any successful Load returns an error.
type Store struct {
	parser  *specdoc.Parser
	opts    []Option
	current atomic.Pointer[LoadedSpec]
}

// NewStore creates a Store that parses specifications with the given
// parser (nil means specdoc.New() defaults) and builds validators with the
// given options.
func NewStore(parser *specdoc.Parser, opts ...Option) *Store {
	if parser == nil {
		parser = specdoc.New()
	}
	return &Store{parser: parser, opts: opts}
}

// Load parses specification text and swaps it in as the active spec.
// On any failure the previously active specification (if any) remains.
func (s *Store) Load(data []byte) (*LoadedSpec, error) {
	result, err := s.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return s.install(result)
}

// LoadFile is Load for a specification file on disk.
func (s *Store) LoadFile(path string) (*LoadedSpec, error) {
	result, err := s.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return s.install(result)
}

func (s *Store) install(result *specdoc.ParseResult) (*LoadedSpec, error) {
	v, err := New(result, s.opts...)
	if err != nil {
		return nil, err
	}
	loaded := &LoadedSpec{Result: result, Validator: v, LoadedAt: time.Now()}
	s.current.Store(loaded)
	return loaded, nil
}

// Current returns the active specification, or nil when none is loaded.
func (s *Store) Current() *LoadedSpec {
	return s.current.Load()
}

// Clear drops the active specification.
func (s *Store) Clear() {
	s.current.Store(nil)
}

// Check validates a traffic record against the active specification.
func (s *Store) Check(rec *capture.Record) (*Report, error) {
	loaded := s.current.Load()
	if loaded == nil {
		return nil, &taperrors.ConfigError{Option: "Store", Message: "no specification loaded"}
	}
	return loaded.Validator.Check(rec), nil
}
