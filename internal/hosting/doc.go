// Package hosting defines the value records and error taxonomy shared by the
// GitHub source client, the Forgejo destination client, and the mirror
// orchestrator.
//
// Accounts and repositories are read-only snapshots fetched fresh on every
// run. OwnerKind tags whether a login names a user or an organization, and
// RepositorySequence models paginated listings as a restartable lazy sequence.
package hosting
