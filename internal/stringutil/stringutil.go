// Package stringutil provides string format predicates shared by the
// conformance validator.
package stringutil

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uuidRegex  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsValidEmail checks if s is a valid email address.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidUUID checks if s is a valid UUID in canonical textual form.
func IsValidUUID(s string) bool {
	return uuidRegex.MatchString(s)
}

// IsValidDate checks if s is a calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsValidDateTime checks if s is a parseable timestamp that uses the literal
// 'T' date/time separator. Date-only strings fail even though some parsers
// would accept them.
func IsValidDateTime(s string) bool {
	if !strings.Contains(s, "T") {
		return false
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	// Zone-less local timestamps, with or without fractional seconds.
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.999999999"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
