// Package config loads formula engine settings from a YAML file (e.g.
// .formularc.yaml), the way go-dws's cmd/dwscript commands load their
// settings from flags and environment rather than a bespoke parser:
// here the source is declarative YAML instead, using
// github.com/goccy/go-yaml per SPEC_FULL.md's ambient-stack section.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/formulaengine/pkg/formula"
)

// ExecutionMode names the engine's evaluation strategy.
type ExecutionMode string

const (
	ExecutionInterpreted ExecutionMode = "interpreted"
	ExecutionCompiled    ExecutionMode = "compiled"
)

// File is the on-disk shape of a formula engine config file. Zero
// values mean "use the engine's default" — see FillDefaults.
type File struct {
	Locale           string        `yaml:"locale"`
	ExecutionMode    ExecutionMode `yaml:"execution_mode"`
	CacheEnabled     *bool         `yaml:"cache_enabled"`
	CacheCapacity    int           `yaml:"cache_capacity"`
	OptimizerEnabled *bool         `yaml:"optimizer_enabled"`
	DefaultFunctions *bool         `yaml:"default_functions"`
	DefaultConstants *bool         `yaml:"default_constants"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &f, nil
}

// FillDefaults returns a copy of f with unset fields set to the
// engine's documented defaults.
func (f File) FillDefaults() File {
	out := f

	if out.ExecutionMode == "" {
		out.ExecutionMode = ExecutionCompiled
	}
	if out.CacheEnabled == nil {
		out.CacheEnabled = boolPtr(true)
	}
	if out.OptimizerEnabled == nil {
		out.OptimizerEnabled = boolPtr(true)
	}
	if out.DefaultFunctions == nil {
		out.DefaultFunctions = boolPtr(true)
	}
	if out.DefaultConstants == nil {
		out.DefaultConstants = boolPtr(true)
	}
	return out
}

// Validate returns an error if f holds a value the engine cannot act on.
func (f File) Validate() error {
	switch f.ExecutionMode {
	case "", ExecutionInterpreted, ExecutionCompiled:
	default:
		return fmt.Errorf("execution_mode: must be %q or %q, got %q", ExecutionInterpreted, ExecutionCompiled, f.ExecutionMode)
	}
	if f.CacheCapacity < 0 {
		return fmt.Errorf("cache_capacity: must not be negative, got %d", f.CacheCapacity)
	}
	return nil
}

// Options translates a filled-in File into engine construction options.
func (f File) Options() []formula.Option {
	filled := f.FillDefaults()

	var opts []formula.Option
	if filled.Locale != "" {
		opts = append(opts, formula.WithLocale(filled.Locale))
	}
	switch filled.ExecutionMode {
	case ExecutionInterpreted:
		opts = append(opts, formula.WithExecutionMode(formula.ModeInterpreted))
	default:
		opts = append(opts, formula.WithExecutionMode(formula.ModeCompiled))
	}
	opts = append(opts, formula.WithCacheEnabled(*filled.CacheEnabled))
	if filled.CacheCapacity > 0 {
		opts = append(opts, formula.WithCacheCapacity(filled.CacheCapacity))
	}
	opts = append(opts, formula.WithOptimizer(*filled.OptimizerEnabled))
	opts = append(opts, formula.WithDefaultFunctions(*filled.DefaultFunctions))
	opts = append(opts, formula.WithDefaultConstants(*filled.DefaultConstants))
	return opts
}

func boolPtr(b bool) *bool { return &b }
