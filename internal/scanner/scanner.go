// Package scanner walks a directory tree and collects the files whose names match a glob.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/csx/internal/config"
	"github.com/standardbeagle/csx/internal/debug"
	csxerrors "github.com/standardbeagle/csx/internal/errors"
	"github.com/standardbeagle/csx/internal/types"
	"github.com/standardbeagle/csx/pkg/pathutil"
)

// Options controls traversal
type Options struct {
	// Exclude holds doublestar globs matched against root-relative slash paths.
	// A matching directory is pruned, a matching file is dropped.
	Exclude []string

	// FollowSymlinks descends into symlinked directories. A symlink that points
	// back at one of its own ancestors is skipped.
	FollowSymlinks bool

	// SkipBuildOutput adds the patterns from BuildOutputExcludes for each scanned root.
	SkipBuildOutput bool
}

// Scanner is stateless between calls and safe for concurrent use
type Scanner struct {
	opts     Options
	foldCase bool
}

// New creates a scanner with the given options
func New(opts Options) *Scanner {
	return &Scanner{
		opts:     opts,
		foldCase: runtime.GOOS == "windows" || runtime.GOOS == "darwin",
	}
}

// NewFromConfig creates a scanner from the index and exclusion settings
func NewFromConfig(cfg *config.Config) *Scanner {
	return New(Options{
		Exclude:         cfg.Exclude,
		FollowSymlinks:  cfg.Index.FollowSymlinks,
		SkipBuildOutput: cfg.Index.SkipBuildOutput,
	})
}

// Scan returns every file below root (root included) whose base name matches pattern.
// Order follows directory enumeration and must not be relied on.
// A root that is not a directory yields a NotFoundError carrying the absolute path.
func (s *Scanner) Scan(ctx context.Context, root, pattern string) ([]types.FileRef, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	absRoot, err := pathutil.ResolveAbs(root)
	if err != nil {
		return nil, csxerrors.NewNotFound(csxerrors.KindDirectory, root)
	}

	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, csxerrors.NewNotFound(csxerrors.KindDirectory, absRoot)
	}

	exclude := s.opts.Exclude
	if s.opts.SkipBuildOutput {
		outputs, err := BuildOutputExcludes(ctx, absRoot)
		if err != nil {
			return nil, err
		}
		exclude = append(append([]string{}, exclude...), outputs...)
	}

	w := &walk{
		scanner: s,
		root:    absRoot,
		pattern: s.fold(pattern),
		exclude: exclude,
	}
	if err := w.dir(ctx, absRoot, []os.FileInfo{info}); err != nil {
		return nil, err
	}

	debug.LogScan("%s matched %d files under %s\n", pattern, len(w.refs), absRoot)
	return w.refs, nil
}

func (s *Scanner) fold(name string) string {
	if s.foldCase {
		return strings.ToLower(name)
	}
	return name
}

// walk holds the state of a single Scan call
type walk struct {
	scanner *Scanner
	root    string
	pattern string
	exclude []string
	refs    []types.FileRef
}

// dir visits one directory. ancestors holds the identities of every directory
// on the path from the root, used to break symlink cycles.
func (w *walk) dir(ctx context.Context, path string, ancestors []os.FileInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if path == w.root {
			return csxerrors.NewReadFailure("read directory", path, err)
		}
		debug.LogScan("skipping unreadable directory %s: %v\n", path, err)
		return nil
	}

	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		rel := pathutil.ToRelative(full, w.root)

		isDir := entry.IsDir()
		var target os.FileInfo
		if entry.Type()&fs.ModeSymlink != 0 {
			target, err = os.Stat(full)
			if err != nil {
				debug.LogScan("skipping broken symlink %s: %v\n", full, err)
				continue
			}
			isDir = target.IsDir()
			if isDir && !w.scanner.opts.FollowSymlinks {
				continue
			}
		}

		if isDir {
			if w.excluded(rel, true) {
				continue
			}
			if target == nil {
				if target, err = entry.Info(); err != nil {
					debug.LogScan("skipping %s: %v\n", full, err)
					continue
				}
			}
			if visited(ancestors, target) {
				debug.LogScan("symlink cycle at %s, not descending\n", full)
				continue
			}
			if err := w.dir(ctx, full, append(ancestors, target)); err != nil {
				return err
			}
			continue
		}

		if !w.matches(entry.Name()) || w.excluded(rel, false) {
			continue
		}
		w.refs = append(w.refs, types.FileRef{
			Name:         entry.Name(),
			RelativePath: rel,
			AbsPath:      full,
		})
	}

	return nil
}

func (w *walk) matches(name string) bool {
	ok, err := doublestar.Match(w.pattern, w.scanner.fold(name))
	return err == nil && ok
}

func (w *walk) excluded(rel string, isDir bool) bool {
	if len(w.exclude) == 0 {
		return false
	}
	slashed := filepath.ToSlash(rel)
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
		if isDir {
			// "**/bin/**" should prune the bin directory itself
			if ok, _ := doublestar.Match(pattern, slashed+"/"); ok {
				return true
			}
		}
	}
	return false
}

func visited(ancestors []os.FileInfo, fi os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(a, fi) {
			return true
		}
	}
	return false
}
