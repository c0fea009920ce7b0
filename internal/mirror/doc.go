// Package mirror orchestrates a one-shot synchronization of GitHub users and
// organizations into Forgejo: accounts are ensured first, then every listed
// repository is migrated as a private pull mirror, one owner at a time.
package mirror
