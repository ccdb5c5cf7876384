// Package descriptor lists the solution and project descriptor files under a directory.
package descriptor

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/csx/internal/debug"
	csxerrors "github.com/standardbeagle/csx/internal/errors"
	"github.com/standardbeagle/csx/internal/scanner"
	"github.com/standardbeagle/csx/internal/types"
	"github.com/standardbeagle/csx/pkg/pathutil"
)

// Lister finds *.sln and *.csproj files
type Lister struct {
	scanner *scanner.Scanner
}

// NewLister creates a lister backed by the given scanner
func NewLister(s *scanner.Scanner) *Lister {
	return &Lister{scanner: s}
}

// ListDescriptors scans root for solutions and projects. Both lists are sorted
// by relative path. Projects carry the relative directory they live in.
func (l *Lister) ListDescriptors(ctx context.Context, root string) (*types.ScanResult, error) {
	absRoot, err := pathutil.ResolveAbs(root)
	if err != nil {
		return nil, csxerrors.NewNotFound(csxerrors.KindDirectory, root)
	}

	var solutions, projects []types.FileRef

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		refs, err := l.scanner.Scan(gctx, absRoot, types.SolutionGlob)
		solutions = refs
		return err
	})
	g.Go(func() error {
		refs, err := l.scanner.Scan(gctx, absRoot, types.ProjectGlob)
		projects = refs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range projects {
		projects[i].ParentRelativeDir = pathutil.ParentDir(projects[i].RelativePath)
	}
	sortRefs(solutions)
	sortRefs(projects)

	debug.LogScan("listed %d solutions and %d projects under %s\n", len(solutions), len(projects), absRoot)

	return &types.ScanResult{
		RootPath:  absRoot,
		Solutions: nonNil(solutions),
		Projects:  nonNil(projects),
	}, nil
}

func sortRefs(refs []types.FileRef) {
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].RelativePath < refs[j].RelativePath
	})
}

// nonNil keeps empty lists rendering as [] rather than null
func nonNil(refs []types.FileRef) []types.FileRef {
	if refs == nil {
		return []types.FileRef{}
	}
	return refs
}
