// Package textutil holds the line helpers shared by the project extractor and the search engine.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const byteOrderMark = "\ufeff"

// SplitLines splits content on '\n' only. A leading UTF-8 byte order mark is
// dropped. A trailing '\r' stays attached to its line, and a trailing newline
// yields a final empty line.
func SplitLines(content string) []string {
	return strings.Split(strings.TrimPrefix(content, byteOrderMark), "\n")
}

// ContextWindow returns lines[i-w .. i+w] inclusive, clipped to the slice bounds.
// The window shrinks near the edges and is never padded.
func ContextWindow(lines []string, i, w int) []string {
	if len(lines) == 0 || i < 0 || i >= len(lines) {
		return nil
	}
	if w < 0 {
		w = 0
	}
	start := max(0, i-w)
	end := min(len(lines)-1, i+w)

	window := make([]string, end-start+1)
	copy(window, lines[start:end+1])
	return window
}

// UpperTerm prepares a search term for ContainsFold
func UpperTerm(term string) string {
	return strings.ToUpper(term)
}

// ContainsFold reports whether term occurs in line ignoring case. Runes are
// compared after simple upper-case mapping, one for one, so U+212A KELVIN SIGN
// does not match "k". upperTerm must come from UpperTerm; an empty term matches
// every line.
func ContainsFold(line, upperTerm string) bool {
	if upperTerm == "" {
		return true
	}
	for i := range line {
		if hasUpperPrefix(line[i:], upperTerm) {
			return true
		}
	}
	return false
}

func hasUpperPrefix(s, upperPrefix string) bool {
	for _, want := range upperPrefix {
		if s == "" {
			return false
		}
		r, size := utf8.DecodeRuneInString(s)
		if r != want && unicode.ToUpper(r) != want {
			return false
		}
		s = s[size:]
	}
	return true
}
