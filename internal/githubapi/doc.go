// Package githubapi wraps the GitHub REST API for gh2fj.
//
// It resolves the authenticated identity, reads user and organization
// profiles, and exposes repository listings as lazy paginated sequences
// ordered by last push, oldest first. Remote failures are reported as
// hosting.OperationError values so callers can branch on not-found.
package githubapi
