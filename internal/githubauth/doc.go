// Package githubauth resolves GitHub credentials from conventional
// environment variables used by other GitHub tooling.
package githubauth
