// Package textutil provides text helpers shared by the line scanner and the
// source loader: newline normalization and Python-style whitespace
// handling.
package textutil

import (
	"strings"
	"unicode"
)

// NormalizeNewlines converts "\r\n" and lone "\r" line terminators to "\n",
// the way Python reads text files in universal-newline mode.
func NormalizeNewlines(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	return strings.ReplaceAll(text, "\r", "\n")
}

// IsSpace reports whether r is whitespace for Python's str.strip.
// Python additionally treats the ASCII file, group, record and unit
// separators as whitespace.
func IsSpace(r rune) bool {
	if r >= 0x1c && r <= 0x1f {
		return true
	}

	return unicode.IsSpace(r)
}

// Strip trims leading and trailing whitespace as Python's str.strip does.
func Strip(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// LeftStrip trims leading whitespace as Python's str.lstrip does.
func LeftStrip(s string) string {
	return strings.TrimLeftFunc(s, IsSpace)
}

// IsBlank reports whether s is empty after stripping.
func IsBlank(s string) bool {
	return Strip(s) == ""
}

// ExpandTabs replaces tabs with spaces up to the next multiple of tabSize,
// resetting the column at every newline.
func ExpandTabs(s string, tabSize int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}

	var sb strings.Builder

	col := 0

	for _, r := range s {
		switch r {
		case '\t':
			pad := tabSize - col%tabSize
			sb.WriteString(strings.Repeat(" ", pad))
			col += pad
		case '\n', '\r':
			sb.WriteRune(r)

			col = 0
		default:
			sb.WriteRune(r)

			col++
		}
	}

	return sb.String()
}
