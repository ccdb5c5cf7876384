// Package pathutil provides utilities for converting between absolute and relative paths.
//
// The scanner works on absolute paths so identities are unambiguous. Output shown to
// callers uses paths relative to the scan root. This package is the conversion layer
// between the two.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/sln/src/App/App.csproj", "/home/user/sln") → "src/App/App.csproj"
//   - ToRelative("/other/location/Lib.cs", "/home/user/sln") → "/other/location/Lib.cs" (outside root)
//   - ToRelative("src/Program.cs", "/home/user/sln") → "src/Program.cs" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// e.g. different volumes on Windows
		return absPath
	}

	// Outside the root: the absolute path is clearer
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return absPath
	}

	return relPath
}

// ParentDir returns the directory portion of a relative path,
// or "" when the path has no directory component.
func ParentDir(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return ""
	}
	return dir
}

// ResolveAbs resolves a caller-supplied path to a cleaned absolute path.
// An empty path means the current directory.
func ResolveAbs(path string) (string, error) {
	if path == "" {
		path = "."
	}
	return filepath.Abs(path)
}
