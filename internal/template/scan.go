package template

import (
	"sort"
)

// Scan returns the distinct variable names referenced by placeholders in
// text, sorted. Malformed or unmatched markers contribute nothing.
func Scan(text string) []string {
	return ScanAll(text)
}

// ScanAll returns the sorted union of variable names across texts.
func ScanAll(texts ...string) []string {
	seen := make(map[string]struct{})
	for _, text := range texts {
		for _, seg := range lex(text) {
			if seg.kind == segmentPlaceholder {
				seen[seg.name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
