package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// Resolve returns the first present, non-empty value for any of the
// candidate labels. Exact key matches are tried for every candidate first;
// only when none hit is each candidate retried as a case-insensitive regular
// expression over all keys on the record. Candidates that fail to compile as
// a pattern are skipped, never raised.
func Resolve(fields map[string]any, candidates []string) any {
	for _, label := range candidates {
		if v, ok := fields[label]; ok && !isEmptyValue(v) {
			return v
		}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	// Map order is random; sort so regex fallback is deterministic.
	sort.Strings(keys)
	for _, label := range candidates {
		re, err := regexp.Compile("(?i)" + label)
		if err != nil {
			continue
		}
		for _, k := range keys {
			if re.MatchString(k) && !isEmptyValue(fields[k]) {
				return fields[k]
			}
		}
	}
	return nil
}

// ResolveString is Resolve narrowed to trimmed string values. Non-string
// values resolve to their empty representation.
func ResolveString(fields map[string]any, candidates []string) string {
	v := Resolve(fields, candidates)
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
