package feedback

import "strings"

// KeySep joins dimension values into composite group keys. Values are not
// escaped; a dimension value containing the separator would corrupt the
// grouping. Kept as-is for parity with the data already aggregated this way.
const KeySep = "|"

// GroupBy buckets items by key, preserving input order within each bucket.
func GroupBy[T any](items []T, key func(T) string) map[string][]T {
	groups := make(map[string][]T)
	for _, item := range items {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

// GroupKeys returns the distinct keys of items in first-seen order, so
// callers can iterate groups deterministically.
func GroupKeys[T any](items []T, key func(T) string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, item := range items {
		k := key(item)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

func JoinKey(parts ...string) string {
	return strings.Join(parts, KeySep)
}

func SplitKey(key string) []string {
	return strings.Split(key, KeySep)
}
