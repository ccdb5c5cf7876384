package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	csxerrors "github.com/standardbeagle/csx/internal/errors"
	"github.com/standardbeagle/csx/internal/types"
)

// Output views. Solutions and projects render with different field sets, and a
// project at the root still carries an empty Directory.
type solutionView struct {
	Name string `json:"Name"`
	Path string `json:"Path"`
}

type projectView struct {
	Name      string `json:"Name"`
	Path      string `json:"Path"`
	Directory string `json:"Directory"`
}

type listingView struct {
	Directory string         `json:"Directory"`
	Solutions []solutionView `json:"Solutions"`
	Projects  []projectView  `json:"Projects"`
}

// RenderListing renders a descriptor listing or its failure
func RenderListing(result *types.ScanResult, err error) string {
	if err != nil {
		if nf, ok := csxerrors.AsNotFound(err); ok {
			return "Directory not found: " + nf.Path
		}
		return "Error: " + err.Error()
	}

	view := listingView{
		Directory: result.RootPath,
		Solutions: make([]solutionView, 0, len(result.Solutions)),
		Projects:  make([]projectView, 0, len(result.Projects)),
	}
	for _, s := range result.Solutions {
		view.Solutions = append(view.Solutions, solutionView{Name: s.Name, Path: s.RelativePath})
	}
	for _, p := range result.Projects {
		view.Projects = append(view.Projects, projectView{
			Name:      p.Name,
			Path:      p.RelativePath,
			Directory: p.ParentRelativeDir,
		})
	}

	text, err := marshalIndented(view)
	if err != nil {
		return "Error: " + err.Error()
	}
	return text
}

// RenderProject renders project metadata or its failure
func RenderProject(meta *types.ProjectMetadata, err error) string {
	if err != nil {
		if nf, ok := csxerrors.AsNotFound(err); ok {
			return "Project file not found: " + nf.Path
		}
		return "Error analyzing project: " + err.Error()
	}

	text, err := marshalIndented(meta)
	if err != nil {
		return "Error analyzing project: " + err.Error()
	}
	return text
}

// RenderSearch renders a search report or its failure
func RenderSearch(report *types.SearchReport, err error) string {
	if err != nil {
		if nf, ok := csxerrors.AsNotFound(err); ok {
			return "Directory not found: " + nf.Path
		}
		return "Error searching code: " + err.Error()
	}

	text, err := marshalIndented(report)
	if err != nil {
		return "Error searching code: " + err.Error()
	}
	return text
}

// marshalIndented encodes v with two-space indentation. Source text is kept
// readable, so <, > and & are not escaped.
func marshalIndented(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to marshal response data: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
