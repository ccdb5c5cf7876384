// Package project reads build metadata out of a single project descriptor.
package project

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/csx/internal/debug"
	csxerrors "github.com/standardbeagle/csx/internal/errors"
	"github.com/standardbeagle/csx/internal/textutil"
	"github.com/standardbeagle/csx/internal/types"
)

// Tags read from the descriptor
const (
	TagTargetFramework = "TargetFramework"
	TagOutputType      = "OutputType"
)

// Analyzer extracts ProjectMetadata with line-oriented tag matching.
// It holds no state and is safe for concurrent use.
type Analyzer struct{}

// NewAnalyzer creates an analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// AnalyzeProject reads the descriptor at path.
// A path that is not an existing regular file yields a NotFoundError carrying
// path exactly as given. I/O failures after that yield a ReadFailureError.
func (a *Analyzer) AnalyzeProject(ctx context.Context, path string) (*types.ProjectMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, csxerrors.NewNotFound(csxerrors.KindFile, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, csxerrors.NewReadFailure("read project", path, err)
	}
	lines := textutil.SplitLines(string(content))

	// Size comes from a separate stat, so it may disagree with content if the
	// file changes between the two calls.
	stat, err := os.Stat(path)
	if err != nil {
		return nil, csxerrors.NewReadFailure("stat project", path, err)
	}

	base := filepath.Base(path)
	meta := &types.ProjectMetadata{
		Name:            strings.TrimSuffix(base, filepath.Ext(base)),
		Path:            path,
		TargetFramework: ExtractValue(lines, TagTargetFramework),
		OutputType:      ExtractValue(lines, TagOutputType),
		Dependencies:    ExtractPackages(lines),
		SizeBytes:       stat.Size(),
	}

	debug.LogProject("%s: framework=%s output=%s packages=%d\n",
		path, meta.TargetFramework, meta.OutputType, len(meta.Dependencies))
	return meta, nil
}
