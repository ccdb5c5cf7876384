package scanner

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/csx/internal/debug"
	"github.com/standardbeagle/csx/internal/project"
	"github.com/standardbeagle/csx/internal/textutil"
	"github.com/standardbeagle/csx/internal/types"
)

// Default .NET build output directories
var defaultBuildOutputs = []string{"**/bin/**", "**/obj/**"}

// Project properties that relocate build output
var outputPathTags = []string{
	"OutputPath",
	"BaseOutputPath",
	"IntermediateOutputPath",
	"BaseIntermediateOutputPath",
}

// BuildOutputExcludes returns exclusion globs for the build output directories
// under root: bin/ and obj/ everywhere, plus any output path a project under
// root declares. Paths using MSBuild properties or leaving root are ignored.
func BuildOutputExcludes(ctx context.Context, root string) ([]string, error) {
	projects, err := New(Options{}).Scan(ctx, root, types.ProjectGlob)
	if err != nil {
		return nil, err
	}

	patterns := append([]string{}, defaultBuildOutputs...)
	for _, ref := range projects {
		content, err := os.ReadFile(ref.AbsPath)
		if err != nil {
			debug.LogScan("skipping unreadable project %s: %v\n", ref.AbsPath, err)
			continue
		}
		lines := textutil.SplitLines(string(content))
		projectDir := filepath.ToSlash(filepath.Dir(ref.RelativePath))

		for _, tag := range outputPathTags {
			value := project.ExtractValue(lines, tag)
			if pattern, ok := outputPattern(projectDir, value); ok {
				patterns = append(patterns, pattern)
			}
		}
	}

	return dedupePatterns(patterns), nil
}

// outputPattern turns a declared output path into a root-relative glob
func outputPattern(projectDir, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == types.NotSpecified || strings.Contains(value, "$(") {
		return "", false
	}

	value = strings.ReplaceAll(value, `\`, "/")
	if path.IsAbs(value) || filepath.IsAbs(value) {
		return "", false
	}

	rel := path.Clean(path.Join(projectDir, value))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel + "/**", true
}

func dedupePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}
	return result
}
