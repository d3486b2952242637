// Package card finds card identifiers in commit messages and groups commits
// by the card they reference.
package card

import "regexp"

var tagRE = regexp.MustCompile(`\[([a-zA-Z0-9]{8})\]`)

// ParseIDs returns each distinct card identifier tagged in s, without the
// surrounding brackets, in the order they first appear.
func ParseIDs(s string) []string {
	matches := tagRE.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
