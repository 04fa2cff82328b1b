// Package markdown renders reports for the chat markup dialect.
package markdown

import "strings"

const specialChars = "_*[]()~`>#+=-|{}!"

// Escape backslash-prefixes every markup-significant character. The backslash
// itself is not in the set, so text is never escaped twice for characters
// outside it.
func Escape(text string) string {
	if !strings.ContainsAny(text, specialChars) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		if strings.ContainsRune(specialChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
