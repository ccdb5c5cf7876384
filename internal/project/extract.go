package project

import (
	"strings"

	"github.com/standardbeagle/csx/internal/types"
)

const (
	packageMarker = "PackageReference"
	includeAttr   = `Include="`
)

// ExtractValue returns the text between <tag> and </tag> on the first line that
// contains the opening tag. The value is returned verbatim. types.NotSpecified is
// returned when no line has the opening tag or the closing tag does not follow it
// on that same line. Values spanning several lines are not supported.
func ExtractValue(lines []string, tag string) string {
	open := "<" + tag + ">"
	closing := "</" + tag + ">"

	for _, line := range lines {
		idx := strings.Index(line, open)
		if idx < 0 {
			continue
		}
		start := idx + len(open)
		end := strings.Index(line, closing)
		if end <= start {
			return types.NotSpecified
		}
		return line[start:end]
	}
	return types.NotSpecified
}

// ExtractPackages returns the Include value of every PackageReference line in
// file order. Duplicates are kept; lines without a usable value are skipped.
func ExtractPackages(lines []string) []string {
	packages := []string{}
	for _, line := range lines {
		if !strings.Contains(line, packageMarker) {
			continue
		}
		idx := strings.Index(line, includeAttr)
		if idx < 0 {
			continue
		}
		rest := line[idx+len(includeAttr):]
		end := strings.IndexByte(rest, '"')
		if end <= 0 {
			continue
		}
		packages = append(packages, rest[:end])
	}
	return packages
}
