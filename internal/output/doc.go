// Package output renders review comments for a terminal or for other tools.
//
// Two formats are supported:
//   - text: one block per comment with a severity glyph (default)
//   - json: an indented array of {file, line, severity, comment}
//
// Use [GetWriter] to obtain a [Writer] for a format name, or [WriteComments]
// to render straight to an [io.Writer].
package output
