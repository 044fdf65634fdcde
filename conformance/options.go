package conformance

import (
	"strconv"

	"github.com/apitap/apitap/specdoc"
	"github.com/apitap/apitap/taperrors"
)

// MatchMode controls how path templates anchor against request paths.
type MatchMode int

const (
	// MatchSuffix matches templates unanchored at the start, tolerating
	// an arbitrary base-path prefix the checker cannot know in advance:
	// template /users/{id} matches both /users/123 and /api/v2/users/123.
	// This is the default.
	MatchSuffix MatchMode = iota

	// MatchAnchored requires the template to match the whole path. Use it
	// when the deployment base path is known and stripped by the caller.
	MatchAnchored
)

// String returns the mode name.
func (m MatchMode) String() string {
	switch m {
	case MatchSuffix:
		return "suffix"
	case MatchAnchored:
		return "anchored"
	}
	return "unknown"
}

// ParseMatchMode converts a mode name ("suffix" or "anchored") to its
// MatchMode value.
func ParseMatchMode(name string) (MatchMode, error) {
	switch name {
	case "", "suffix":
		return MatchSuffix, nil
	case "anchored":
		return MatchAnchored, nil
	}
	return 0, &taperrors.ConfigError{Option: "MatchMode", Message: "unknown mode " + strconv.Quote(name)}
}

// TieBreak selects which template wins when several match the same path.
type TieBreak int

const (
	// TieBreakFirstDeclared picks the template declared earliest in the
	// specification, mirroring typical router behavior. This is the
	// default.
	TieBreakFirstDeclared TieBreak = iota

	// TieBreakMostSpecific prefers templates with more literal characters
	// and fewer placeholders, then longer templates.
	TieBreakMostSpecific
)

// String returns the policy name.
func (t TieBreak) String() string {
	switch t {
	case TieBreakFirstDeclared:
		return "first-declared"
	case TieBreakMostSpecific:
		return "most-specific"
	}
	return "unknown"
}

// ParseTieBreak converts a policy name ("first-declared" or
// "most-specific") to its TieBreak value.
func ParseTieBreak(name string) (TieBreak, error) {
	switch name {
	case "", "first-declared":
		return TieBreakFirstDeclared, nil
	case "most-specific":
		return TieBreakMostSpecific, nil
	}
	return 0, &taperrors.ConfigError{Option: "TieBreak", Message: "unknown policy " + strconv.Quote(name)}
}

type config struct {
	mode     MatchMode
	tieBreak TieBreak
	logger   specdoc.Logger
}

// Option configures a Validator.
type Option func(*config)

// WithMatchMode sets the path-anchoring mode.
func WithMatchMode(mode MatchMode) Option {
	return func(c *config) { c.mode = mode }
}

// WithTieBreak sets the ambiguous-template policy.
func WithTieBreak(policy TieBreak) Option {
	return func(c *config) { c.tieBreak = policy }
}

// WithLogger sets the structured logger for match and validation tracing.
func WithLogger(logger specdoc.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func buildConfig(opts []Option) (*config, error) {
	cfg := &config{
		mode:     MatchSuffix,
		tieBreak: TieBreakFirstDeclared,
		logger:   specdoc.NopLogger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.mode != MatchSuffix && cfg.mode != MatchAnchored {
		return nil, &taperrors.ConfigError{Option: "MatchMode", Message: "unknown mode"}
	}
	if cfg.tieBreak != TieBreakFirstDeclared && cfg.tieBreak != TieBreakMostSpecific {
		return nil, &taperrors.ConfigError{Option: "TieBreak", Message: "unknown policy"}
	}
	if cfg.logger == nil {
		cfg.logger = specdoc.NopLogger{}
	}
	return cfg, nil
}
