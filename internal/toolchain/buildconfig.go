// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	// buildConfigDir is the workspace directory holding build settings.
	buildConfigDir = ".config"

	// buildConfigFile is the build settings file name inside buildConfigDir.
	buildConfigFile = "build.toml"
)

type (
	// BuildConfig is the parsed workspace build configuration. The zero
	// value means "no configuration found", which is a normal state.
	BuildConfig struct {
		// Build holds workspace-wide build settings.
		Build BuildSection `toml:"build"`
		// Target maps a triple to its target-specific settings.
		Target map[string]TargetSection `toml:"target"`
	}

	// BuildSection holds the [build] table.
	BuildSection struct {
		// Target is the default build target triple.
		Target string `toml:"target"`
	}

	// TargetSection holds one [target.<triple>] table.
	TargetSection struct {
		// Linker overrides the linker binary for this target.
		Linker string `toml:"linker"`
		// Env holds additional environment overrides for this target.
		Env map[string]string `toml:"env"`
	}
)

// LoadBuildConfig walks up from startDir looking for .config/build.toml and
// parses the first one found. A missing file yields an empty BuildConfig and
// no error; a malformed file is an error naming the offending path.
func LoadBuildConfig(startDir string) (*BuildConfig, error) {
	path, err := findBuildConfig(startDir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &BuildConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading build config %s: %w", path, err)
	}

	var cfg BuildConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing build config %s: %w", path, err)
	}

	return &cfg, nil
}

// Profiles converts the file's target tables into resolver profiles. A
// linker setting becomes the triple's linker environment variable; explicit
// env tables pass through as-is, winning over the derived linker var on
// key collision.
func (c *BuildConfig) Profiles() []Profile {
	profiles := make([]Profile, 0, len(c.Target))
	for triple, section := range c.Target {
		env := make(map[string]string, len(section.Env)+1)
		if section.Linker != "" {
			env[LinkerEnvVar(triple)] = section.Linker
		}
		for k, v := range section.Env {
			env[k] = v
		}
		if len(env) == 0 {
			continue
		}
		profiles = append(profiles, Profile{Triple: triple, Env: env})
	}
	return profiles
}

// findBuildConfig ascends from startDir to the filesystem root, returning
// the first .config/build.toml encountered, or "" when none exists.
func findBuildConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", startDir, err)
	}

	for {
		candidate := filepath.Join(dir, buildConfigDir, buildConfigFile)
		info, statErr := os.Stat(candidate)
		if statErr == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
