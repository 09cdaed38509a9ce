// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform indicates no release asset exists for the host
	// OS/architecture combination.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrCorruptArtifact indicates a downloaded artifact failed verification.
	ErrCorruptArtifact = errors.New("corrupt artifact")

	// ErrNetworkFailure indicates the download did not succeed after all
	// retry attempts were exhausted.
	ErrNetworkFailure = errors.New("network failure")
)

type (
	// UnsupportedPlatformError is returned when the host platform has no
	// corresponding release asset. It wraps ErrUnsupportedPlatform for
	// errors.Is() compatibility.
	UnsupportedPlatformError struct {
		OS   string
		Arch string
	}

	// NetworkError is returned when a download fails after retries. It wraps
	// ErrNetworkFailure and preserves the final underlying error.
	NetworkError struct {
		URL      string
		Attempts int
		Err      error
	}

	// CorruptArtifactError is returned when a downloaded file fails
	// verification. It wraps ErrCorruptArtifact.
	CorruptArtifactError struct {
		Path   string
		Reason string
	}

	// HTTPStatusError is returned for non-200 download responses so callers
	// can distinguish retryable server errors from terminal client errors.
	HTTPStatusError struct {
		URL        string
		StatusCode int
	}
)

// Error formats the unsupported platform with the known-good combinations.
func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("no release asset for %s/%s", e.OS, e.Arch)
}

// Unwrap returns ErrUnsupportedPlatform for errors.Is() compatibility.
func (e *UnsupportedPlatformError) Unwrap() error { return ErrUnsupportedPlatform }

// Error formats the download failure with the attempt count.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("download of %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

// Unwrap returns the underlying errors so both ErrNetworkFailure and the
// original cause are reachable via errors.Is/errors.As.
func (e *NetworkError) Unwrap() []error { return []error{ErrNetworkFailure, e.Err} }

// Error formats the verification failure.
func (e *CorruptArtifactError) Error() string {
	return fmt.Sprintf("artifact %s failed verification: %s", e.Path, e.Reason)
}

// Unwrap returns ErrCorruptArtifact for errors.Is() compatibility.
func (e *CorruptArtifactError) Unwrap() error { return ErrCorruptArtifact }

// Error formats the unexpected HTTP status.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// retryable reports whether the status is worth another attempt. Server
// errors and 429 are transient; other client errors are terminal.
func (e *HTTPStatusError) retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
