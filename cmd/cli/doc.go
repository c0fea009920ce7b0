// Package cli constructs the gh2fj command-line interface. It wires the Cobra
// root command, the layered configuration loader (embedded defaults, config
// file, .env files, and environment variables), structured logging, and the
// sync command that mirrors GitHub owners into Forgejo.
package cli
