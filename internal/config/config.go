package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/standardbeagle/csx/internal/types"
)

// Config file names looked up in the project root and the home directory.
// KDL wins when both exist.
const (
	KDLFileName  = ".csx.kdl"
	TOMLFileName = ".csx.toml"
)

type Config struct {
	Version     int
	Project     Project
	Index       Index
	Performance Performance
	Search      Search
	Exclude     []string // doublestar globs matched against root-relative slash paths
}

type Project struct {
	Root string
}

type Index struct {
	FollowSymlinks  bool  // follow directory symlinks; cycles are detected
	MaxFileSize     int64 // search skips larger files; 0 = no limit
	SkipBuildOutput bool  // prune bin/, obj/ and the output paths projects declare
}

type Performance struct {
	ParallelFileWorkers int // 0 = auto-detect (NumCPU-1)
}

type Search struct {
	ContextLines int // lines on each side of a hit
	MaxHits      int // hits kept in a report; the total is always exact
}

// Default returns the built-in configuration. It excludes nothing, so every
// descendant of the root is visited.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Version: 1,
		Project: Project{Root: cwd},
		Index: Index{
			FollowSymlinks:  false,
			MaxFileSize:     0,
			SkipBuildOutput: false,
		},
		Performance: Performance{
			ParallelFileWorkers: max(1, runtime.NumCPU()-1),
		},
		Search: Search{
			ContextLines: types.DefaultContextLines,
			MaxHits:      types.DefaultMaxHits,
		},
		Exclude: []string{},
	}
}

// LoadWithRoot loads the global config from the home directory and the project
// config from rootDir, then merges them. Project values win, exclusions accumulate.
func LoadWithRoot(rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := loadFromDir(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	projectConfig, err := loadFromDir(searchDir)
	if err != nil {
		return nil, err
	}

	var cfg *Config
	switch {
	case baseConfig != nil && projectConfig != nil:
		cfg = mergeConfigs(baseConfig, projectConfig)
	case projectConfig != nil:
		cfg = projectConfig
	case baseConfig != nil:
		cfg = baseConfig
		cfg.Project.Root = absOr(searchDir)
	default:
		cfg = Default()
		if rootDir != "" {
			cfg.Project.Root = absOr(rootDir)
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads one explicit config file without merging the global config.
// A .toml extension selects TOML, anything else is read as KDL. A relative
// project root resolves against the file's directory.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = parseTOML(data)
	} else {
		cfg, err = parseKDL(string(data))
	}
	if err != nil {
		return nil, err
	}

	cfg.Project.Root = resolveRoot(filepath.Dir(path), cfg.Project.Root)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromDir returns nil, nil when dir holds no config file
func loadFromDir(dir string) (*Config, error) {
	if cfg, err := LoadKDL(dir); err != nil || cfg != nil {
		return cfg, err
	}
	return LoadTOML(dir)
}

// mergeConfigs merges a base config with a project config.
// Project config takes precedence, but base exclusions are preserved.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	seen := make(map[string]bool, len(base.Exclude)+len(project.Exclude))
	merged.Exclude = make([]string, 0, len(base.Exclude)+len(project.Exclude))
	for _, list := range [][]string{base.Exclude, project.Exclude} {
		for _, pattern := range list {
			if !seen[pattern] {
				seen[pattern] = true
				merged.Exclude = append(merged.Exclude, pattern)
			}
		}
	}

	return &merged
}
