package views

import (
	"regexp"
	"strings"
)

// newMatcher compiles a text query into a row predicate. The query is
// tried as a case-insensitive regular expression first; when it does
// not compile it degrades to a case-insensitive substring match, so a
// half-typed pattern like "api[" still filters instead of erroring.
// An empty query matches everything.
func newMatcher(query string) func(Row) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return func(Row) bool { return true }
	}
	if re, err := regexp.Compile("(?i)" + query); err == nil {
		return func(r Row) bool {
			for _, c := range r.Columns {
				if re.MatchString(c) {
					return true
				}
			}
			return false
		}
	}
	needle := strings.ToLower(query)
	return func(r Row) bool {
		for _, c := range r.Columns {
			if strings.Contains(strings.ToLower(c), needle) {
				return true
			}
		}
		return false
	}
}
