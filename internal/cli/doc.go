// Package cli wires together the Cobra command tree for the code-reviewer
// binary.
//
// The root command reads a unified diff from stdin, sends it to the
// configured provider and prints the review comments as text or JSON. The
// config and version subcommands inspect the effective setup. Handlers
// print errors themselves and report one of the Exit* codes.
package cli
