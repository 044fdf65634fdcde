package conformance

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// pathMatcher matches request paths against one OpenAPI path template.
// The template's {name} placeholders become single-segment capture groups
// and parameter values are extracted positionally in template order.
type pathMatcher struct {
	// template is the original path template (e.g. "/pets/{petId}")
	template string

	// regex is the compiled pattern for matching
	regex *regexp.Regexp

	// paramNames are the parameter names in order of appearance
	paramNames []string

	// specificity is used by the most-specific tie-break (higher wins)
	specificity int

	// order is the declaration index within the specification
	order int
}

// newPathMatcher compiles a template. In suffix mode the pattern is not
// anchored at the start, so any base-path prefix is tolerated; the leading
// '/' literal in the template still guards the segment boundary.
func newPathMatcher(template string, mode MatchMode) (*pathMatcher, error) {
	if template == "" {
		return nil, fmt.Errorf("path template cannot be empty")
	}

	var regexBuf strings.Builder
	if mode == MatchAnchored {
		regexBuf.WriteString("^")
	}

	var paramNames []string
	specificity := 0

	i := 0
	for i < len(template) {
		if template[i] == '{' {
			end := strings.Index(template[i:], "}")
			if end == -1 {
				return nil, fmt.Errorf("unclosed path parameter at position %d in template %q", i, template)
			}

			paramName := template[i+1 : i+end]
			if paramName == "" {
				return nil, fmt.Errorf("empty path parameter at position %d in template %q", i, template)
			}
			for _, existing := range paramNames {
				if existing == paramName {
					return nil, fmt.Errorf("duplicate path parameter %q in template %q", paramName, template)
				}
			}
			paramNames = append(paramNames, paramName)

			// One path segment per RFC 3986: segments are separated by /
			regexBuf.WriteString("([^/]+)")

			i += end + 1
			// Parameters reduce specificity (exact matches are more specific)
			specificity--
		} else {
			c := template[i]
			if strings.ContainsRune(`\.+*?()|[]{}^$`, rune(c)) {
				regexBuf.WriteByte('\\')
			}
			regexBuf.WriteByte(c)
			i++

			if c != '/' {
				specificity++
			}
		}
	}

	regexBuf.WriteString("$")

	regex, err := regexp.Compile(regexBuf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile path pattern for template %q: %w", template, err)
	}

	return &pathMatcher{
		template:    template,
		regex:       regex,
		paramNames:  paramNames,
		specificity: specificity,
	}, nil
}

// match checks the given path against this template and extracts parameters.
func (pm *pathMatcher) match(path string) (bool, map[string]string) {
	matches := pm.regex.FindStringSubmatch(path)
	if matches == nil {
		return false, nil
	}
	if len(matches) != len(pm.paramNames)+1 {
		return false, nil
	}

	params := make(map[string]string, len(pm.paramNames))
	for i, name := range pm.paramNames {
		params[name] = matches[i+1]
	}
	return true, params
}

// pathMatcherSet tries a collection of matchers in policy order and returns
// the first structural match.
type pathMatcherSet struct {
	matchers []*pathMatcher
}

// newPathMatcherSet compiles all templates. Under TieBreakFirstDeclared the
// matchers keep specification order; under TieBreakMostSpecific they sort by
// specificity, then template length, then alphabetically for stability.
func newPathMatcherSet(templates []string, mode MatchMode, tieBreak TieBreak) (*pathMatcherSet, error) {
	matchers := make([]*pathMatcher, 0, len(templates))
	for i, template := range templates {
		matcher, err := newPathMatcher(template, mode)
		if err != nil {
			return nil, err
		}
		matcher.order = i
		matchers = append(matchers, matcher)
	}

	if tieBreak == TieBreakMostSpecific {
		sort.Slice(matchers, func(i, j int) bool {
			if matchers[i].specificity != matchers[j].specificity {
				return matchers[i].specificity > matchers[j].specificity
			}
			if len(matchers[i].template) != len(matchers[j].template) {
				return len(matchers[i].template) > len(matchers[j].template)
			}
			return matchers[i].template < matchers[j].template
		})
	}

	return &pathMatcherSet{matchers: matchers}, nil
}

// match finds the winning template for the given request path.
func (pms *pathMatcherSet) match(path string) (template string, params map[string]string, found bool) {
	for _, matcher := range pms.matchers {
		if matched, params := matcher.match(path); matched {
			return matcher.template, params, true
		}
	}
	return "", nil, false
}

// normalizeRequestPath reduces a request target to its bare path: the
// fragment and query string are stripped first, then the scheme and host
// if the target parses as an absolute URL.
func normalizeRequestPath(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return raw
}

// queryFromURL extracts query parameters from a request target, one value
// per name (the first wins on repeats).
func queryFromURL(raw string) map[string]string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	q := strings.IndexByte(raw, '?')
	if q < 0 || q == len(raw)-1 {
		return nil
	}
	values, err := url.ParseQuery(raw[q+1:])
	if err != nil || len(values) == 0 {
		return nil
	}
	params := make(map[string]string, len(values))
	for name, vals := range values {
		if len(vals) > 0 {
			params[name] = vals[0]
		}
	}
	return params
}
