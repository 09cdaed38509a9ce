// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// fetchInitialInterval is the delay before the first retry.
	fetchInitialInterval = 500 * time.Millisecond

	// fetchMaxRetries bounds the number of retries after the initial
	// attempt, for three attempts total.
	fetchMaxRetries = 2
)

// fetchToTempFile downloads the asset at url into a temporary file inside
// dir, retrying transient failures with exponential backoff. Connection
// errors, 5xx responses, and 429 are retried; other HTTP client errors are
// terminal on the first occurrence. The temp file lives in dir so the final
// os.Rename is an atomic same-filesystem move. The caller is responsible
// for removing the returned file.
func fetchToTempFile(ctx context.Context, client *GitHubClient, url, dir string) (string, error) {
	attempts := 0

	var path string
	operation := func() error {
		attempts++

		p, err := downloadOnce(ctx, client, url, dir)
		if err != nil {
			var statusErr *HTTPStatusError
			if errors.As(err, &statusErr) && !statusErr.retryable() {
				return backoff.Permanent(err)
			}
			return err
		}

		path = p
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = fetchInitialInterval

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, fetchMaxRetries), ctx))
	if err != nil {
		var permErr *backoff.PermanentError
		if errors.As(err, &permErr) {
			err = permErr.Unwrap()
			var statusErr *HTTPStatusError
			if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
				// A vanished asset is a terminal not-found condition, not
				// a transport failure.
				return "", fmt.Errorf("%w: %w", ErrAssetNotFound, err)
			}
			return "", err
		}
		// An operator interrupt is not a network failure; surface the
		// cancellation itself.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &NetworkError{URL: url, Attempts: attempts, Err: err}
	}

	return path, nil
}

// downloadOnce performs a single download attempt into a fresh temp file.
// Partial files from failed attempts are removed before returning.
func downloadOnce(ctx context.Context, client *GitHubClient, url, dir string) (_ string, err error) {
	body, err := client.DownloadAsset(ctx, url)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	tmp, err := os.CreateTemp(dir, "wrench-download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			// Best-effort removal of partially written temp file.
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, body); err != nil {
		return "", fmt.Errorf("writing to temp file: %w", err)
	}

	return tmp.Name(), nil
}
