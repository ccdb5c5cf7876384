package mcp

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	csxdebug "github.com/standardbeagle/csx/internal/debug"
	csxerrors "github.com/standardbeagle/csx/internal/errors"
	"github.com/standardbeagle/csx/internal/version"
)

// ListProjects lists descriptors under path and renders the result text
func (s *Server) ListProjects(ctx context.Context, path string) string {
	path = s.resolvePath(path)
	result, err := s.lister.ListDescriptors(ctx, path)
	if err != nil {
		s.logFailure(ToolListProjects, path, err)
	}
	return RenderListing(result, err)
}

// AnalyzeProject analyzes the descriptor at projectPath and renders the result text
func (s *Server) AnalyzeProject(ctx context.Context, projectPath string) string {
	meta, err := s.analyzer.AnalyzeProject(ctx, projectPath)
	if err != nil {
		s.logFailure(ToolAnalyzeProject, projectPath, err)
	}
	return RenderProject(meta, err)
}

// SearchCode searches the sources under path and renders the result text
func (s *Server) SearchCode(ctx context.Context, path, term string) string {
	path = s.resolvePath(path)
	report, err := s.engine.Search(ctx, path, term)
	if err != nil {
		s.logFailure(ToolSearchCode, path, err)
	}
	return RenderSearch(report, err)
}

// resolvePath falls back to the configured project root, then the working directory
func (s *Server) resolvePath(path string) string {
	if path != "" {
		return path
	}
	if s.cfg.Project.Root != "" {
		return s.cfg.Project.Root
	}
	return "."
}

func (s *Server) handleListProjects(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic(ToolListProjects, func() (*mcp.CallToolResult, error) {
		var params ListProjectsParams
		if err := decodeParams(req.Params.Arguments, &params); err != nil {
			return s.malformedResult(ToolListProjects, err), nil
		}
		csxdebug.LogMCP("%s path=%q\n", ToolListProjects, params.Path)
		return textResult(s.ListProjects(ctx, params.Path)), nil
	})
}

func (s *Server) handleAnalyzeProject(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic(ToolAnalyzeProject, func() (*mcp.CallToolResult, error) {
		var params AnalyzeProjectParams
		if err := decodeParams(req.Params.Arguments, &params); err != nil {
			return s.malformedResult(ToolAnalyzeProject, err), nil
		}
		if params.ProjectPath == nil {
			return s.malformedResult(ToolAnalyzeProject, csxerrors.NewMalformedInput("projectPath", "required")), nil
		}
		csxdebug.LogMCP("%s projectPath=%q\n", ToolAnalyzeProject, *params.ProjectPath)
		return textResult(s.AnalyzeProject(ctx, *params.ProjectPath)), nil
	})
}

func (s *Server) handleSearchCode(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic(ToolSearchCode, func() (*mcp.CallToolResult, error) {
		var params SearchCodeParams
		if err := decodeParams(req.Params.Arguments, &params); err != nil {
			return s.malformedResult(ToolSearchCode, err), nil
		}
		if params.SearchTerm == nil {
			return s.malformedResult(ToolSearchCode, csxerrors.NewMalformedInput("searchTerm", "required")), nil
		}
		csxdebug.LogMCP("%s path=%q term=%q\n", ToolSearchCode, params.Path, *params.SearchTerm)
		return textResult(s.SearchCode(ctx, params.Path, *params.SearchTerm)), nil
	})
}

type toolSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters,omitempty"`
	Required    []string `json:"required,omitempty"`
}

func (s *Server) handleInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic(ToolInfo, func() (*mcp.CallToolResult, error) {
		var params InfoParams
		if err := decodeParams(req.Params.Arguments, &params); err != nil {
			return s.malformedResult(ToolInfo, err), nil
		}
		return s.info(strings.ToLower(strings.TrimSpace(params.Tool)))
	})
}

func (s *Server) info(tool string) (*mcp.CallToolResult, error) {
	if tool == "version" {
		build := version.Current()
		return jsonResult(map[string]interface{}{
			"server_name":    ServerName,
			"server_version": version.FullInfo(),
			"build":          build,
			"platform":       runtime.GOOS + "/" + runtime.GOARCH,
			"root":           s.cfg.Project.Root,
		})
	}

	summaries := make([]toolSummary, 0, 4)
	for _, def := range toolDefinitions() {
		summary := toolSummary{Name: def.name, Description: def.description}
		for name := range def.schema.Properties {
			summary.Parameters = append(summary.Parameters, name)
		}
		sort.Strings(summary.Parameters)
		summary.Required = def.schema.Required

		if tool == "" {
			summaries = append(summaries, summary)
			continue
		}
		if strings.EqualFold(def.name, tool) {
			return jsonResult(summary)
		}
	}

	if tool != "" {
		return errorResult("unknown tool: " + tool + " (use info with no arguments to list tools)"), nil
	}
	return jsonResult(map[string]interface{}{
		"server": version.FullInfo(),
		"tools":  summaries,
	})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult marks the result as a tool error so clients can tell it apart
func errorResult(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}

func (s *Server) malformedResult(operation string, err error) *mcp.CallToolResult {
	s.logFailure(operation, "", err)
	return errorResult(err.Error())
}

// logFailure records a failed call. Missing paths and bad arguments are the
// caller's doing and log as plain diagnostics; anything else logs as an error.
func (s *Server) logFailure(operation, subject string, err error) {
	csxdebug.LogMCP("%s %q: %v\n", operation, subject, err)
	switch {
	case csxerrors.IsNotFound(err):
		s.diagnosticLogger.Printf("%s %q: %v", operation, subject, err)
	case csxerrors.IsMalformedInput(err):
		s.diagnosticLogger.Printf("%s rejected arguments: %v", operation, err)
	case csxerrors.IsReadFailure(err):
		s.diagnosticLogger.Errorf("%s %q: read failed: %v", operation, subject, err)
	default:
		s.diagnosticLogger.Errorf("%s %q: %v", operation, subject, err)
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	text, err := marshalIndented(v)
	if err != nil {
		return nil, err
	}
	return textResult(text), nil
}
