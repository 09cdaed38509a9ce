// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultRunner is the workspace build tool aliases delegate to.
	DefaultRunner = "cargo"

	// DefaultInstallRepo is the GitHub repository publishing the
	// language-server artifacts, in owner/name form.
	DefaultInstallRepo = "rust-analyzer/rust-analyzer"
)

var (
	// ErrInvalidRunner is returned when the runner value is whitespace-only.
	ErrInvalidRunner = errors.New("invalid runner")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidAliasSpec is the sentinel error wrapped by InvalidAliasSpecError.
	ErrInvalidAliasSpec = errors.New("invalid alias spec")
	// ErrInvalidInstallConfig is the sentinel error wrapped by InvalidInstallConfigError.
	ErrInvalidInstallConfig = errors.New("invalid install config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not
	// recognized. It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidRunnerError is returned when the runner value is whitespace-only.
	// It wraps ErrInvalidRunner for errors.Is() compatibility.
	InvalidRunnerError struct {
		Value string
	}

	// InvalidAliasSpecError is returned when an alias entry has invalid fields.
	// It wraps ErrInvalidAliasSpec for errors.Is() compatibility.
	InvalidAliasSpecError struct {
		Name        string
		FieldErrors []error
	}

	// InvalidInstallConfigError is returned when install settings are invalid.
	// It wraps ErrInvalidInstallConfig for errors.Is() compatibility.
	InvalidInstallConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields. It
	// wraps ErrInvalidConfig and collects field-level errors from all
	// sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// AliasSpec declares one user-defined alias: the runner invocation
	// template as a single string (tokenized later with shell word
	// splitting) and whether trailing arguments are refused.
	AliasSpec struct {
		// Run is the runner invocation template, optionally containing one
		// {args} placeholder for trailing arguments.
		Run string `json:"run" mapstructure:"run"`
		// NoTrailingArgs refuses caller-supplied trailing arguments.
		NoTrailingArgs bool `json:"no_trailing_args" mapstructure:"no_trailing_args"`
	}

	// InstallConfig configures language-server provisioning.
	InstallConfig struct {
		// Dir is the destination directory for the installed binary.
		// Empty means ~/.local/bin.
		Dir string `json:"dir" mapstructure:"dir"`
		// Repo is the GitHub owner/name repository publishing artifacts.
		Repo string `json:"repo" mapstructure:"repo"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// Runner is the workspace build tool aliases delegate to.
		Runner string `json:"runner" mapstructure:"runner"`
		// Aliases maps alias names to their invocation templates, layered
		// over the built-in table at startup.
		Aliases map[string]AliasSpec `json:"aliases" mapstructure:"aliases"`
		// Install configures the language-server installer.
		Install InstallConfig `json:"install" mapstructure:"install"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}
)

// IsValid returns whether the AliasSpec has valid fields.
func (s AliasSpec) IsValid(name string) (bool, []error) {
	var errs []error
	if strings.TrimSpace(s.Run) == "" {
		errs = append(errs, fmt.Errorf("run template must not be empty"))
	}
	if strings.TrimSpace(name) == "" {
		errs = append(errs, fmt.Errorf("alias name must not be empty"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidAliasSpecError{Name: name, FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidAliasSpecError.
func (e *InvalidAliasSpecError) Error() string {
	return fmt.Sprintf("invalid alias %q: %d field error(s)", e.Name, len(e.FieldErrors))
}

// Unwrap returns ErrInvalidAliasSpec for errors.Is() compatibility.
func (e *InvalidAliasSpecError) Unwrap() error { return ErrInvalidAliasSpec }

// IsValid returns whether the InstallConfig has valid fields. The zero
// value is valid; a non-empty Repo must be in owner/name form.
func (c InstallConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Repo != "" {
		parts := strings.Split(c.Repo, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			errs = append(errs, fmt.Errorf("repo %q must be in owner/name form", c.Repo))
		}
	}
	if c.Dir != "" && strings.TrimSpace(c.Dir) == "" {
		errs = append(errs, fmt.Errorf("dir must not be whitespace-only"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidInstallConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidInstallConfigError.
func (e *InvalidInstallConfigError) Error() string {
	return fmt.Sprintf("invalid install config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidInstallConfig for errors.Is() compatibility.
func (e *InvalidInstallConfigError) Unwrap() error { return ErrInvalidInstallConfig }

// Error implements the error interface for InvalidRunnerError.
func (e *InvalidRunnerError) Error() string {
	return fmt.Sprintf("invalid runner %q: must not be empty or whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidRunner for errors.Is() compatibility.
func (e *InvalidRunnerError) Unwrap() error { return ErrInvalidRunner }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// IsValid returns whether the Config has valid fields, collecting errors
// from the runner, each alias, install settings, and the UI section.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Runner) == "" {
		errs = append(errs, &InvalidRunnerError{Value: c.Runner})
	}
	for name, spec := range c.Aliases {
		if valid, fieldErrs := spec.IsValid(name); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Install.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Runner:  DefaultRunner,
		Aliases: map[string]AliasSpec{},
		Install: InstallConfig{
			Dir:  "", // Will use ~/.local/bin if empty
			Repo: DefaultInstallRepo,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
