// Package search runs case-insensitive substring searches over the source files under a root.
package search

import (
	"context"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/csx/internal/config"
	"github.com/standardbeagle/csx/internal/debug"
	"github.com/standardbeagle/csx/internal/scanner"
	"github.com/standardbeagle/csx/internal/textutil"
	"github.com/standardbeagle/csx/internal/types"
)

// Options bound a search
type Options struct {
	ContextLines int   // lines of context on each side of a hit
	MaxHits      int   // hits kept in the report; <= 0 means types.DefaultMaxHits
	MaxFileSize  int64 // larger files are skipped; 0 = no limit
	Workers      int   // files read in parallel; <= 0 means NumCPU
}

// Engine searches *.cs files found by the scanner
type Engine struct {
	scanner *scanner.Scanner
	opts    Options
}

// NewEngine creates a search engine
func NewEngine(s *scanner.Scanner, opts Options) *Engine {
	if opts.MaxHits <= 0 {
		opts.MaxHits = types.DefaultMaxHits
	}
	if opts.ContextLines < 0 {
		opts.ContextLines = 0
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Engine{scanner: s, opts: opts}
}

// NewEngineFromConfig creates a search engine from the search, index and performance settings
func NewEngineFromConfig(s *scanner.Scanner, cfg *config.Config) *Engine {
	return NewEngine(s, Options{
		ContextLines: cfg.Search.ContextLines,
		MaxHits:      cfg.Search.MaxHits,
		MaxFileSize:  cfg.Index.MaxFileSize,
		Workers:      cfg.Performance.ParallelFileWorkers,
	})
}

// Search finds every line under root containing term, ignoring case.
// An empty term matches every line.
//
// Hits are ordered by relative file path, then line number. TotalMatchCount
// counts every match; Hits keeps only the first MaxHits of them. Files that
// cannot be read are logged and skipped.
func (e *Engine) Search(ctx context.Context, root, term string) (*types.SearchReport, error) {
	refs, err := e.scanner.Scan(ctx, root, types.SourceGlob)
	if err != nil {
		return nil, err
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].RelativePath < refs[j].RelativePath
	})

	upperTerm := textutil.UpperTerm(term)
	perFile := make([][]types.SearchHit, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := range refs {
		ref := refs[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines, ok := e.readLines(ref)
			if !ok {
				return nil
			}
			perFile[i] = matchLines(ref.RelativePath, lines, upperTerm, e.opts.ContextLines)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &types.SearchReport{
		Term: term,
		Hits: []types.SearchHit{},
	}
	for _, hits := range perFile {
		report.TotalMatchCount += len(hits)
		for _, hit := range hits {
			if len(report.Hits) >= e.opts.MaxHits {
				break
			}
			report.Hits = append(report.Hits, hit)
		}
	}

	debug.LogSearch("%q: %d matches in %d files, returning %d\n",
		term, report.TotalMatchCount, len(refs), len(report.Hits))
	return report, nil
}

// readLines loads a file for matching. It reports false when the file is skipped.
func (e *Engine) readLines(ref types.FileRef) ([]string, bool) {
	if e.opts.MaxFileSize > 0 {
		info, err := os.Stat(ref.AbsPath)
		if err != nil {
			debug.LogSearch("skipping %s: %v\n", ref.RelativePath, err)
			return nil, false
		}
		if info.Size() > e.opts.MaxFileSize {
			debug.LogSearch("skipping %s: %d bytes exceeds limit\n", ref.RelativePath, info.Size())
			return nil, false
		}
	}

	content, err := os.ReadFile(ref.AbsPath)
	if err != nil {
		debug.LogSearch("skipping unreadable %s: %v\n", ref.RelativePath, err)
		return nil, false
	}
	return textutil.SplitLines(string(content)), true
}
