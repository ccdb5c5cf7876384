package search

import (
	"strings"

	"github.com/standardbeagle/csx/internal/textutil"
	"github.com/standardbeagle/csx/internal/types"
)

// matchLines returns a hit for every line of a file that contains upperTerm,
// in increasing line order. window is the number of context lines on each side.
func matchLines(file string, lines []string, upperTerm string, window int) []types.SearchHit {
	var hits []types.SearchHit
	for i, line := range lines {
		if !textutil.ContainsFold(line, upperTerm) {
			continue
		}
		hits = append(hits, types.SearchHit{
			File:       file,
			LineNumber: i + 1,
			Line:       strings.TrimSpace(line),
			Context:    textutil.ContextWindow(lines, i, window),
		})
	}
	return hits
}
