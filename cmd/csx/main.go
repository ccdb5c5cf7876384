package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/csx/internal/config"
	"github.com/standardbeagle/csx/internal/debug"
	"github.com/standardbeagle/csx/internal/mcp"
	"github.com/standardbeagle/csx/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath := c.String("config"); configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.LoadWithRoot(c.String("root"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if rootFlag := c.String("root"); rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if c.IsSet("follow-symlinks") {
		cfg.Index.FollowSymlinks = c.Bool("follow-symlinks")
	}
	if c.IsSet("skip-build-output") {
		cfg.Index.SkipBuildOutput = c.Bool("skip-build-output")
	}
	if c.IsSet("workers") {
		cfg.Performance.ParallelFileWorkers = c.Int("workers")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newServer builds the tool server used by both the MCP command and the CLI mirrors
func newServer(c *cli.Context, mcpMode bool) (*mcp.Server, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, err
	}
	logger := mcp.NewDiagnosticLogger(mcpMode)
	if path := logger.LogPath(); path != "" {
		debug.LogMCP("diagnostic log: %s\n", path)
	}
	return mcp.NewServer(cfg, mcp.WithLogger(logger))
}

func listCommand(c *cli.Context) error {
	s, err := newServer(c, false)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintln(c.App.Writer, s.ListProjects(c.Context, c.Args().First()))
	return nil
}

func analyzeCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("analyze requires a project file path")
	}
	s, err := newServer(c, false)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintln(c.App.Writer, s.AnalyzeProject(c.Context, c.Args().First()))
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("search requires a search term")
	}
	s, err := newServer(c, false)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintln(c.App.Writer, s.SearchCode(c.Context, c.String("path"), c.Args().First()))
	return nil
}

func mcpCommand(c *cli.Context) error {
	// stdio carries the protocol from here on
	debug.SetMCPMode(true)

	s, err := newServer(c, true)
	if err != nil {
		return debug.Fatal("failed to create MCP server: %v", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	debug.LogMCP("starting MCP server, root %s\n", c.String("root"))
	if err := s.Start(ctx); err != nil && ctx.Err() == nil {
		return debug.Fatal("MCP server error: %v", err)
	}
	return nil
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:                   "csx",
		Usage:                  "Explore C# solutions: list projects, analyze project files, search sources",
		Version:                version.FullInfo(),
		Writer:                 stdout,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (.kdl or .toml); default looks for .csx.kdl/.csx.toml in the root",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Root directory (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude paths matching glob patterns (e.g., --exclude '**/bin/**')",
			},
			&cli.BoolFlag{
				Name:  "follow-symlinks",
				Usage: "Descend into symlinked directories",
			},
			&cli.BoolFlag{
				Name:  "skip-build-output",
				Usage: "Skip bin/, obj/ and declared project output directories",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Files read in parallel during search (0 = auto)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Start MCP (Model Context Protocol) server with stdio transport",
				Action: mcpCommand,
			},
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List .sln and .csproj files under a directory",
				ArgsUsage: "[path]",
				Action:    listCommand,
			},
			{
				Name:      "analyze",
				Usage:     "Show target framework, output type and package references of a project",
				ArgsUsage: "<project.csproj>",
				Action:    analyzeCommand,
			},
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Case-insensitive search of .cs files",
				ArgsUsage: "<term>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Directory to search (default: the project root)",
					},
				},
				Action: searchCommand,
			},
		},
		Action: mcpCommand,
	}
}

func main() {
	if debug.IsDebugEnabled() {
		if path, err := debug.InitDebugLogFile(); err == nil {
			defer debug.CloseDebugLog()
			fmt.Fprintf(os.Stderr, "debug log: %s\n", path)
		}
	}

	if err := newApp(os.Stdout).RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		debug.CloseDebugLog()
		os.Exit(1)
	}
}
