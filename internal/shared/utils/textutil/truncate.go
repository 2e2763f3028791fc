// Package textutil holds small string helpers for user-supplied text.
package textutil

// Truncate returns at most maxRunes runes of s. It never splits a multi-byte
// character.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i]
		}
		count++
	}
	return s
}

// TruncateForLog is Truncate with a trailing "..." when s was shortened.
func TruncateForLog(s string, maxRunes int) string {
	out := Truncate(s, maxRunes)
	if len(out) < len(s) {
		return out + "..."
	}
	return out
}
