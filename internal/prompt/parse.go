package prompt

import "strings"

// CleanPath removes surrounding whitespace and the quotes file managers add
// when a path is dragged into a terminal.
func CleanPath(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, `'`)
	return strings.TrimSpace(s)
}

// SplitList splits a comma-separated answer. Each item is trimmed of
// whitespace, then single quotes, then double quotes. Empty items are dropped.
func SplitList(s string) []string {
	var items []string
	for _, raw := range strings.Split(s, ",") {
		item := strings.TrimSpace(raw)
		item = strings.Trim(item, "'")
		item = strings.Trim(item, `"`)
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}
