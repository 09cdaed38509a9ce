// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/wrench/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/wrench/config.cue on macOS, %APPDATA%\wrench\config.cue
// on Windows). The package provides type-safe configuration access covering the build
// runner binary, user-defined command aliases, language server installation settings,
// and UI options.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
