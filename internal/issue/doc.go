// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It holds a catalog of known failure conditions with Markdown remediation
// cards, plus the ActionableError type that attaches operation, resource,
// and suggestion context to errors surfaced by the CLI.
package issue
