package config

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	csxerrors "github.com/standardbeagle/csx/internal/errors"
	"github.com/standardbeagle/csx/internal/types"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return csxerrors.NewConfigError("project", cfg.Project.Root, err)
	}

	if err := v.validateIndexConfig(&cfg.Index); err != nil {
		return csxerrors.NewConfigError("index", strconv.FormatInt(cfg.Index.MaxFileSize, 10), err)
	}

	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return csxerrors.NewConfigError("performance", strconv.Itoa(cfg.Performance.ParallelFileWorkers), err)
	}

	if err := v.validateSearchConfig(&cfg.Search); err != nil {
		return csxerrors.NewConfigError("search", "", err)
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return csxerrors.NewConfigError("exclude", pattern, errors.New("invalid glob pattern"))
		}
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateIndexConfig(index *Index) error {
	if index.MaxFileSize < 0 {
		return fmt.Errorf("MaxFileSize cannot be negative, got %d", index.MaxFileSize)
	}
	return nil
}

func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	// 0 means auto-detect
	if perf.ParallelFileWorkers < 0 {
		return fmt.Errorf("ParallelFileWorkers cannot be negative, got %d", perf.ParallelFileWorkers)
	}
	return nil
}

func (v *Validator) validateSearchConfig(search *Search) error {
	if search.ContextLines < 0 {
		return fmt.Errorf("ContextLines cannot be negative, got %d", search.ContextLines)
	}
	if search.MaxHits < 0 {
		return fmt.Errorf("MaxHits cannot be negative, got %d", search.MaxHits)
	}
	return nil
}

// setSmartDefaults fills values left at zero
func (v *Validator) setSmartDefaults(cfg *Config) {
	// cores-1 leaves one core for the host, minimum of 1
	if cfg.Performance.ParallelFileWorkers == 0 {
		cfg.Performance.ParallelFileWorkers = max(1, runtime.NumCPU()-1)
	}

	if cfg.Search.MaxHits == 0 {
		cfg.Search.MaxHits = types.DefaultMaxHits
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
