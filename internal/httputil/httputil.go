// Package httputil provides HTTP-related validation utilities and constants.
package httputil

import (
	"strconv"
	"strings"
)

// Status key constants for OpenAPI response maps.
const (
	// DefaultStatusKey is the catch-all response key.
	DefaultStatusKey = "default"
	// StatusCodeLength is the standard length of HTTP status codes (e.g., "200", "404")
	StatusCodeLength = 3
	// MinStatusCode is the minimum valid HTTP status code
	MinStatusCode = 100
	// MaxStatusCode is the maximum valid HTTP status code
	MaxStatusCode = 599
)

// Methods lists the HTTP methods an OpenAPI path item can declare, in the
// order they appear throughout apitap output.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch"}

// IsSupportedMethod reports whether method (any case) is one an OpenAPI
// path item can declare.
func IsSupportedMethod(method string) bool {
	m := strings.ToLower(method)
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// ValidateStatusKey checks if a response-map key is valid per the OpenAPI
// spec. Valid values are:
//   - "default" for the default response
//   - extension fields starting with "x-"
//   - wildcard patterns: 1XX through 5XX
//   - numeric codes: 100-599
func ValidateStatusKey(key string) bool {
	if key == DefaultStatusKey {
		return true
	}
	if strings.HasPrefix(key, "x-") {
		return true
	}
	if len(key) != StatusCodeLength {
		return false
	}
	if isWildcardKey(key) {
		return true
	}
	code, err := strconv.Atoi(key)
	if err != nil {
		return false
	}
	return code >= MinStatusCode && code <= MaxStatusCode
}

// WildcardKey returns the status-class wildcard for a numeric status code,
// e.g. 201 -> "2XX". Codes outside 100-599 return an empty string.
func WildcardKey(status int) string {
	if status < MinStatusCode || status > MaxStatusCode {
		return ""
	}
	return strconv.Itoa(status/100) + "XX"
}

// MatchStatusKey reports whether a numeric status code matches a response-map
// key: an exact 3-digit code, a class wildcard like "2XX" (case-insensitive),
// or "default" (which matches everything).
func MatchStatusKey(status int, key string) bool {
	if key == DefaultStatusKey {
		return true
	}
	if len(key) != StatusCodeLength {
		return false
	}
	if isWildcardKey(key) {
		return strconv.Itoa(status/100)[0] == key[0]
	}
	code, err := strconv.Atoi(key)
	if err != nil {
		return false
	}
	return code == status
}

// isWildcardKey reports whether key is a class wildcard like "2XX" or "2xx".
func isWildcardKey(key string) bool {
	if len(key) != StatusCodeLength {
		return false
	}
	if key[0] < '1' || key[0] > '5' {
		return false
	}
	return (key[1] == 'X' || key[1] == 'x') && (key[2] == 'X' || key[2] == 'x')
}
