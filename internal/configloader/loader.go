// Package configloader resolves the effective mdcore configuration from
// system, user and project files, MDCORE_* variables and flags, and
// validates the result.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/yaklabco/mdcore/pkg/config"
	"github.com/yaklabco/mdcore/pkg/fsutil"
)

// LoadOptions selects the configuration sources. The zero value loads
// every layer from the OS filesystem and environment.
type LoadOptions struct {
	WorkingDir   string // start of the project config search; defaults to the process directory
	ExplicitPath string // --config; replaces the project layer

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	Getenv    func(string) string // defaults to os.Getenv
	Fs        afero.Fs            // defaults to the OS filesystem
	Overrides *Overrides          // command-line flags, applied last
}

// LoadResult is the merged configuration and where it came from.
type LoadResult struct {
	Config     *config.Config
	Paths      *ConfigPaths
	LoadedFrom []string // files read, lowest precedence first
	Warnings   []string
}

// Load resolves the final configuration by layering all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.Overrides)
//  2. Environment variables (MDCORE_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.mdcore.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/mdcore/config.yaml)
//  6. System config (/etc/mdcore/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		workDir = wd
	}

	fsys := lo.Ternary[afero.Fs](opts.Fs != nil, opts.Fs, afero.NewOsFs())
	getenv := lo.Ternary(opts.Getenv != nil, opts.Getenv, os.Getenv)

	paths, err := DiscoverPaths(ctx, fsys, workDir, getenv)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	// Each file only overrides the keys it sets.
	layers := []struct {
		name string
		path string
		skip bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig || opts.ExplicitPath != ""},
		{"explicit", paths.Explicit, false},
	}

	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		if err := decodeFile(fsys, layer.path, cfg); err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := loadFromEnv(cfg, getenv); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	opts.Overrides.Apply(cfg)

	validation := Validate(cfg)
	if err := validation.Err(); err != nil {
		return nil, err
	}
	result.Warnings = lo.Map(validation.Warnings, func(w ValidationError, _ int) string { return w.Error() })

	result.Config = cfg
	return result, nil
}

// decodeFile layers the YAML file at path onto cfg, rejecting unknown keys.
func decodeFile(fsys afero.Fs, path string, cfg *config.Config) error {
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := config.Decode(content, cfg); err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}
	return nil
}

// WriteConfig atomically replaces path with cfg rendered under the
// standard header.
func WriteConfig(ctx context.Context, fsys afero.Fs, cfg *config.Config, path string) error {
	content, err := cfg.ToYAMLWithHeader(config.DefaultTemplateHeader())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, fsys, path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

const configFilePermissions = 0o644
