// Package mcp exposes the explorer operations as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/csx/internal/config"
	csxdebug "github.com/standardbeagle/csx/internal/debug"
	"github.com/standardbeagle/csx/internal/descriptor"
	"github.com/standardbeagle/csx/internal/project"
	"github.com/standardbeagle/csx/internal/scanner"
	"github.com/standardbeagle/csx/internal/search"
	"github.com/standardbeagle/csx/internal/version"
)

// ServerName is reported to clients during initialization
const ServerName = "csx"

// Server dispatches tool calls to the lister, analyzer and search engine.
// Calls share no mutable state and may run concurrently.
type Server struct {
	server           *mcp.Server
	cfg              *config.Config
	lister           *descriptor.Lister
	analyzer         *project.Analyzer
	engine           *search.Engine
	diagnosticLogger *DiagnosticLogger
}

// Option customizes a Server
type Option func(*Server)

// WithLogger replaces the diagnostic logger
func WithLogger(dl *DiagnosticLogger) Option {
	return func(s *Server) {
		s.diagnosticLogger = dl
	}
}

// NewServer wires the components from cfg and registers the tools.
// Without WithLogger, diagnostics go to a file so stdio stays clean.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	sc := scanner.NewFromConfig(cfg)
	s := &Server{
		cfg:      cfg,
		lister:   descriptor.NewLister(sc),
		analyzer: project.NewAnalyzer(),
		engine:   search.NewEngineFromConfig(sc, cfg),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.diagnosticLogger == nil {
		s.diagnosticLogger = NewDiagnosticLogger(true)
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version.Version,
	}, nil)
	s.registerTools()

	s.diagnosticLogger.Printf("MCP server initialized, root %s", cfg.Project.Root)
	return s, nil
}

func (s *Server) registerTools() {
	for _, def := range toolDefinitions() {
		s.server.AddTool(&mcp.Tool{
			Name:        def.name,
			Description: def.description,
			InputSchema: def.schema,
		}, s.handlerFor(def.name))
	}
}

func (s *Server) handlerFor(name string) mcp.ToolHandler {
	switch name {
	case ToolListProjects:
		return s.handleListProjects
	case ToolAnalyzeProject:
		return s.handleAnalyzeProject
	case ToolSearchCode:
		return s.handleSearchCode
	default:
		return s.handleInfo
	}
}

type toolDefinition struct {
	name        string
	description string
	schema      *jsonschema.Schema
}

func toolDefinitions() []toolDefinition {
	return []toolDefinition{
		{
			name:        ToolInfo,
			description: "Describe the available tools. Use {\"tool\": \"<name>\"} for one tool or {\"tool\": \"version\"} for build info.",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"tool": {
						Type:        "string",
						Description: "Tool name to describe, or 'version'",
					},
				},
			},
		},
		{
			name:        ToolListProjects,
			description: "Lists all .csproj and .sln files in a directory",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"path": {
						Type:        "string",
						Description: "Directory path to search (default: the configured project root)",
					},
				},
			},
		},
		{
			name:        ToolAnalyzeProject,
			description: "Analyzes a C# project file and shows its dependencies and properties",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"projectPath": {
						Type:        "string",
						Description: "Path to the .csproj file",
					},
				},
				Required: []string{"projectPath"},
			},
		},
		{
			name:        ToolSearchCode,
			description: "Searches for C# classes, interfaces, or methods in .cs files",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"path": {
						Type:        "string",
						Description: "Directory path to search; empty means the configured project root",
					},
					"searchTerm": {
						Type:        "string",
						Description: "Search term (class name, method name, etc.)",
					},
				},
				Required: []string{"path", "searchTerm"},
			},
		},
	}
}

// recoverFromPanic runs handler and converts a panic into an error result
func (s *Server) recoverFromPanic(operation string, handler func() (*mcp.CallToolResult, error)) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.diagnosticLogger.Errorf("PANIC RECOVERED in %s: %v", operation, r)
			s.diagnosticLogger.Printf("Stack trace: %s", debug.Stack())

			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			s.diagnosticLogger.Printf("Memory stats - Alloc: %d KB, Sys: %d KB, NumGC: %d",
				m.Alloc/1024, m.Sys/1024, m.NumGC)

			result = errorResult(fmt.Sprintf("internal error in %s: %v", operation, r))
			err = nil
		}
	}()

	return handler()
}

// Start serves the tools over stdio until ctx is cancelled or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	csxdebug.LogMCP("starting stdio transport\n")
	s.diagnosticLogger.Printf("Starting MCP server with stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves the tools over an arbitrary transport
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

// Close releases the diagnostic log
func (s *Server) Close() error {
	s.diagnosticLogger.Printf("MCP server shutdown complete")
	return s.diagnosticLogger.Close()
}
