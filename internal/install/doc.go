// SPDX-License-Identifier: MPL-2.0

// Package install provisions the rust-analyzer language server binary from
// GitHub releases. It detects the host platform triple, resolves a release
// (latest stable or a pinned tag), downloads the matching gzip asset with
// retry, verifies the artifact, and installs it atomically into the
// destination directory. Re-running against an up-to-date binary is a no-op.
package install
