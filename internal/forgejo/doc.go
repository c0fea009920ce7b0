// Package forgejo implements the destination side of the mirror: idempotent
// provisioning of users, organizations and pull mirrors through the Forgejo
// REST API.
package forgejo
