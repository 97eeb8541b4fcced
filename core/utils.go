package core

import (
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Sanitize strips all markup from `s` and trims it. Mutation inputs go
// through this before reaching a store; comment bodies are the exception
// (stored raw, escaped on output).
func Sanitize(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// dateLayout is the only accepted date format for input dates.
const dateLayout = "2006-01-02"

// ValidDate reports whether `s` is a strict YYYY-MM-DD date: it must parse
// and its re-serialization must equal the input (rejects e.g. 2024-02-30).
func ValidDate(s string) bool {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return false
	}
	return t.Format(dateLayout) == s
}
