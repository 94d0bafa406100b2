package card

import "strings"

// Placeholders scans text for {{key}} tokens and returns the distinct keys
// in order of first appearance. Empty keys and unterminated tokens are
// skipped.
func Placeholders(text string) []string {
	var keys []string
	seen := make(map[string]bool)

	cursor := 0
	for {
		start := strings.Index(text[cursor:], "{{")
		if start == -1 {
			break
		}
		start += cursor
		end := strings.Index(text[start:], "}}")
		if end == -1 {
			break
		}
		end += start

		key := text[start+2 : end]
		if key != "" && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
		cursor = end + 2
	}

	return keys
}
