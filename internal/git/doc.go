// Package git fetches element repositories into their vendored base
// directories so that design docs and demo files are available to the next
// build. Fetches are shallow by default and retried on transient failures.
package git
