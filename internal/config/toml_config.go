package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// tomlFile mirrors the KDL layout. Pointers distinguish "unset" from zero values.
type tomlFile struct {
	Project struct {
		Root string `toml:"root"`
	} `toml:"project"`
	Index struct {
		FollowSymlinks  *bool       `toml:"follow_symlinks"`
		MaxFileSize     interface{} `toml:"max_file_size"` // bytes or "10MB"
		SkipBuildOutput *bool       `toml:"skip_build_output"`
	} `toml:"index"`
	Performance struct {
		ParallelFileWorkers *int `toml:"parallel_file_workers"`
	} `toml:"performance"`
	Search struct {
		ContextLines *int `toml:"context_lines"`
		MaxHits      *int `toml:"max_hits"`
	} `toml:"search"`
	Exclude []string `toml:"exclude"`
}

// LoadTOML loads configuration from .csx.toml in dir.
// Returns nil, nil when the file does not exist.
func LoadTOML(dir string) (*Config, error) {
	tomlPath := filepath.Join(dir, TOMLFileName)

	data, err := os.ReadFile(tomlPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TOMLFileName, err)
	}

	cfg, err := parseTOML(data)
	if err != nil {
		return nil, err
	}

	cfg.Project.Root = resolveRoot(dir, cfg.Project.Root)
	return cfg, nil
}

func parseTOML(data []byte) (*Config, error) {
	var f tomlFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	cfg := Default()
	cfg.Project.Root = f.Project.Root

	if f.Index.FollowSymlinks != nil {
		cfg.Index.FollowSymlinks = *f.Index.FollowSymlinks
	}
	if f.Index.SkipBuildOutput != nil {
		cfg.Index.SkipBuildOutput = *f.Index.SkipBuildOutput
	}
	switch v := f.Index.MaxFileSize.(type) {
	case nil:
	case int64:
		cfg.Index.MaxFileSize = v
	case string:
		sz, err := parseSize(v)
		if err != nil {
			return nil, fmt.Errorf("invalid max_file_size %q: %w", v, err)
		}
		cfg.Index.MaxFileSize = sz
	default:
		return nil, fmt.Errorf("invalid max_file_size: unsupported type %T", v)
	}

	if f.Performance.ParallelFileWorkers != nil {
		cfg.Performance.ParallelFileWorkers = *f.Performance.ParallelFileWorkers
	}
	if f.Search.ContextLines != nil {
		cfg.Search.ContextLines = *f.Search.ContextLines
	}
	if f.Search.MaxHits != nil {
		cfg.Search.MaxHits = *f.Search.MaxHits
	}
	cfg.Exclude = append(cfg.Exclude, f.Exclude...)

	return cfg, nil
}
