// Package giterror provides error inspection capabilities for GitHub API errors.
// It centralizes the logic for deciding whether a failed REST call is worth
// retrying, combining typed checks on the error chain with string-based
// fallbacks for errors that arrive from the transport untyped.
package giterror
