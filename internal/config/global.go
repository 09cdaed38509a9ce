// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"sync"
)

//nolint:gochecknoglobals // Package-level overrides and cache guarded by globalMu.
var (
	globalMu sync.Mutex

	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// configFilePathOverride forces Load to read a specific file, set from
	// the --config flag.
	configFilePathOverride string

	// cachedConfig memoizes the last successful Load so flag initialization
	// and command execution share one parse.
	cachedConfig *Config
)

// Reset clears overrides and the cached config. Call from test cleanup to
// restore defaults.
func Reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	configDirOverride = ""
	configFilePathOverride = ""
	cachedConfig = nil
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	configDirOverride = dir
	cachedConfig = nil
}

// SetConfigFilePathOverride forces subsequent Load calls to read the given
// file instead of searching the config directory.
func SetConfigFilePathOverride(path string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	configFilePathOverride = path
	cachedConfig = nil
}

// Load returns the process-wide configuration, parsing it on first use and
// memoizing the result. Honors SetConfigFilePathOverride.
func Load() (*Config, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if cachedConfig != nil {
		return cachedConfig, nil
	}

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: configFilePathOverride})
	if err != nil {
		return nil, err
	}

	cachedConfig = cfg
	return cfg, nil
}
