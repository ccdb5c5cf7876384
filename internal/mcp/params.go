package mcp

import (
	"encoding/json"

	csxerrors "github.com/standardbeagle/csx/internal/errors"
)

// Tool names
const (
	ToolListProjects   = "list_csharp_projects"
	ToolAnalyzeProject = "analyze_project"
	ToolSearchCode     = "search_csharp_code"
	ToolInfo           = "info"
)

type ListProjectsParams struct {
	Path string `json:"path,omitempty"` // defaults to the project root
}

type AnalyzeProjectParams struct {
	ProjectPath *string `json:"projectPath"`
}

// SearchCodeParams keeps SearchTerm as a pointer: an empty term is a valid
// search that matches every line, a missing one is an error.
type SearchCodeParams struct {
	Path       string  `json:"path"`
	SearchTerm *string `json:"searchTerm"`
}

type InfoParams struct {
	Tool string `json:"tool,omitempty"`
}

// decodeParams unmarshals tool arguments. Absent arguments decode to the zero value.
func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return csxerrors.NewMalformedInput("", err.Error())
	}
	return nil
}
