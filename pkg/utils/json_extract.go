package utils

import "strings"

// ExtractJSONObject returns the text between the first '{' and the last '}'.
// Models often wrap JSON in prose or code fences.
func ExtractJSONObject(response string) string {
	return between(response, "{", "}")
}

// ExtractJSONArray is ExtractJSONObject for '[' ... ']'.
func ExtractJSONArray(response string) string {
	return between(response, "[", "]")
}

func between(s, open, close string) string {
	startIdx := strings.Index(s, open)
	endIdx := strings.LastIndex(s, close)

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return s[startIdx : endIdx+1]
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
