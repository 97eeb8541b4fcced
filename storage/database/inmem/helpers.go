package inmemdb

import (
	"strings"
	"time"
)

// matches does a case-insensitive substring match of `search` against any
// of the given fields. An empty search matches everything.
func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, fld := range fields {
		if strings.Contains(strings.ToLower(fld), search) {
			return true
		}
	}
	return false
}

// less orders two string keys honoring the requested direction.
func less(a, b string, ascending bool) bool {
	if ascending {
		return a < b
	}
	return a > b
}

// timeKey renders a timestamp as a fixed-width sortable string key.
func timeKey(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000")
}
